package units_test

import (
	"testing"

	"github.com/lsalmela/soitin"
	"github.com/lsalmela/soitin/units"
	"gitlab.com/gomidi/midi/v2"
)

type noteEvent struct {
	frame int
	on    bool
	vel   uint8
}

func collectNotes(mb *soitin.MIDIBuffer, offset int) []noteEvent {
	var out []noteEvent
	for _, e := range mb.Events() {
		var ch, key, vel uint8
		switch {
		case e.Msg.GetNoteOn(&ch, &key, &vel):
			out = append(out, noteEvent{frame: offset + e.Frame, on: true, vel: vel})
		case e.Msg.GetNoteOff(&ch, &key, &vel):
			out = append(out, noteEvent{frame: offset + e.Frame, on: false, vel: vel})
		}
	}
	return out
}

func TestPulseTiming(t *testing.T) {
	// BPM=120 at 48000 Hz: one beat is 24000 samples
	p := units.NewPulse(120, 1, 1)
	const blockSize = 4800
	p.Prepare(48000, blockSize)
	buf := soitin.NewBlock(blockSize)
	var mb soitin.MIDIBuffer

	var events []noteEvent
	for block := 0; block*blockSize < 72000; block++ {
		mb.Clear()
		p.Process(buf, &mb)
		events = append(events, collectNotes(&mb, block*blockSize)...)
	}

	want := []noteEvent{
		{frame: 0, on: true, vel: 1},
		{frame: 24000, on: false, vel: 1},
		{frame: 48000, on: true, vel: 1},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events %v, want %d", len(events), events, len(want))
	}
	for i, w := range want {
		if events[i] != w {
			t.Errorf("event %d: got %+v, want %+v", i, events[i], w)
		}
	}
	if p.LoopCount() != 1 {
		t.Errorf("loop count = %d, want 1", p.LoopCount())
	}
}

func TestPulseVelocityRoundRobin(t *testing.T) {
	p := units.NewPulse(60, 1, 1)
	p.IncFanOut()
	p.IncFanOut()
	p.IncFanOut()
	const blockSize = 200 // one beat at 100 Hz is 100 samples, two cycles per block
	p.Prepare(100, blockSize)
	buf := soitin.NewBlock(blockSize)
	var mb soitin.MIDIBuffer

	var velocities []uint8
	for block := 0; block < 4; block++ {
		mb.Clear()
		p.Process(buf, &mb)
		for _, e := range collectNotes(&mb, 0) {
			if e.on {
				velocities = append(velocities, e.vel)
			}
		}
	}
	want := []uint8{1, 2, 3, 1} // loop count 0,1,2,3 mod fan-out 3, plus 1
	if len(velocities) != len(want) {
		t.Fatalf("got %d note-ons %v, want %d", len(velocities), velocities, len(want))
	}
	for i, w := range want {
		if velocities[i] != w {
			t.Errorf("cycle %d velocity = %d, want %d", i, velocities[i], w)
		}
	}
}

func TestPulseGating(t *testing.T) {
	p := units.NewPulse(60, 1, 1)
	p.SetGating(true)
	const blockSize = 100
	p.Prepare(100, blockSize)
	buf := soitin.NewBlock(blockSize)
	var mb soitin.MIDIBuffer

	// gate starts closed: the first cycle is suppressed
	p.Process(buf, &mb)
	if got := collectNotes(&mb, 0); len(got) != 0 {
		t.Fatalf("closed gate emitted %v", got)
	}

	// a note-on opens the gate for the next cycle
	mb.Clear()
	mb.Add(0, midi.NoteOn(0, 64, 1))
	p.Process(buf, &mb) // off boundary at frame 0, nothing sounding

	// next on-boundary fires; closing the gate mid-note at frame 50 forces an
	// immediate note-off independent of the cycle timer
	mb.Clear()
	mb.Add(50, midi.NoteOff(0, 64))
	p.Process(buf, &mb)
	notes := collectNotes(&mb, 0)
	want := []noteEvent{
		{frame: 0, on: true, vel: 1},
		{frame: 50, on: false, vel: 1},
	}
	if len(notes) != len(want) {
		t.Fatalf("got %v, want %v", notes, want)
	}
	for i := range want {
		if notes[i] != want[i] {
			t.Errorf("event %d: got %+v, want %+v", i, notes[i], want[i])
		}
	}
}

func TestPulseVelocityListening(t *testing.T) {
	p := units.NewPulse(60, 1, 1)
	p.SetGating(true)
	p.SetVelocityListening(true)
	p.SetListenVelocity(2)
	const blockSize = 100
	p.Prepare(100, blockSize)
	buf := soitin.NewBlock(blockSize)
	var mb soitin.MIDIBuffer

	// a note-on with the wrong velocity keeps the gate closed
	mb.Add(0, midi.NoteOn(0, 64, 1))
	p.Process(buf, &mb)
	for _, e := range collectNotes(&mb, 0) {
		if e.on {
			t.Errorf("mismatched velocity opened the gate: %+v", e)
		}
	}

	// advance to the next on-boundary with the matching velocity
	mb.Clear()
	mb.Add(0, midi.NoteOn(0, 64, 2))
	p.Process(buf, &mb) // off boundary
	mb.Clear()
	p.Process(buf, &mb) // on boundary
	found := false
	for _, e := range collectNotes(&mb, 0) {
		if e.on {
			found = true
		}
	}
	if !found {
		t.Errorf("matching velocity did not open the gate")
	}
}

func TestPulsePassThrough(t *testing.T) {
	p := units.NewPulse(120, 0, 0)
	const blockSize = 64
	p.Prepare(48000, blockSize)
	buf := soitin.NewBlock(blockSize)
	var mb soitin.MIDIBuffer
	mb.Add(7, midi.NoteOn(0, 64, 3))

	p.Process(buf, &mb)
	events := mb.Events()
	if len(events) != 1 || events[0].Frame != 7 {
		t.Fatalf("pass-through altered the buffer: %v", events)
	}
	var ch, key, vel uint8
	if !events[0].Msg.GetNoteOn(&ch, &key, &vel) || vel != 3 {
		t.Errorf("pass-through altered the message: %v", events[0].Msg)
	}
}

func TestPulseZeroOnEmitsNoNotes(t *testing.T) {
	p := units.NewPulse(60, 0, 1)
	const blockSize = 400
	p.Prepare(100, blockSize)
	buf := soitin.NewBlock(blockSize)
	var mb soitin.MIDIBuffer
	p.Process(buf, &mb)
	if got := collectNotes(&mb, 0); len(got) != 0 {
		t.Errorf("zero on-duration emitted %v", got)
	}
}
