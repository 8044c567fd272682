package units

import (
	"math"

	"github.com/lsalmela/soitin"
	"gitlab.com/gomidi/midi/v2"
)

// MIDI controller numbers that force the gate closed.
const (
	ccAllSoundOff uint8 = 120
	ccAllNotesOff uint8 = 123
)

type cycleState int

const (
	awaitingNoteOn cycleState = iota
	noteIsOn
)

// Pulse emits MIDI note-on/off events on a beat grid derived from its BPM
// and on/off durations. Each cycle carries a velocity rotating through
// 1..fanOut, so every downstream sibling can pick out its own beats of the
// round-robin. When gating is enabled, the pulse only sounds while its
// upstream generator holds a note open (optionally only for one velocity),
// and a closing gate cuts the current note immediately.
type Pulse struct {
	bpm      float64
	note     uint8
	beatsOn  int
	beatsOff int

	sampleRate   float64
	onSamples    int64
	offSamples   int64
	globalSample int64
	nextChange   int64

	state        cycleState
	noteSounding bool
	loopCount    uint64
	initialCycle bool
	velocity     uint8

	gating         bool
	gateOpen       bool
	listening      bool
	listenVelocity uint8

	fanOut  int
	scratch soitin.MIDIBuffer
}

// NewPulse creates a pulse generator. Negative durations are clamped to
// zero; a generator with both durations zero is a MIDI pass-through.
func NewPulse(bpm float64, beatsOn, beatsOff int) *Pulse {
	if beatsOn < 0 {
		beatsOn = 0
	}
	if beatsOff < 0 {
		beatsOff = 0
	}
	return &Pulse{bpm: bpm, note: 60, beatsOn: beatsOn, beatsOff: beatsOff, velocity: 1, listenVelocity: 1}
}

func (p *Pulse) Kind() soitin.Kind  { return soitin.Pulse }
func (p *Pulse) AcceptsMIDI() bool  { return true }
func (p *Pulse) ProducesMIDI() bool { return true }

func (p *Pulse) IncFanOut()  { p.fanOut++ }
func (p *Pulse) FanOut() int { return p.fanOut }

func (p *Pulse) SetGating(enabled bool) { p.gating = enabled }

func (p *Pulse) SetListenVelocity(velocity int) { p.listenVelocity = uint8(velocity) }

func (p *Pulse) SetVelocityListening(enabled bool) { p.listening = enabled }

// LoopCount returns how many full cycles have completed since Prepare.
func (p *Pulse) LoopCount() uint64 { return p.loopCount }

func (p *Pulse) Prepare(sampleRate float64, blockSize int) {
	p.sampleRate = sampleRate
	var samplesPerBeat int64
	if p.bpm > 0 && sampleRate > 0 {
		samplesPerBeat = int64(math.Round(sampleRate * 60 / p.bpm))
	}
	p.onSamples = int64(p.beatsOn) * samplesPerBeat
	p.offSamples = int64(p.beatsOff) * samplesPerBeat
	p.globalSample = 0
	p.nextChange = 0
	p.state = awaitingNoteOn
	p.noteSounding = false
	p.loopCount = 0
	p.initialCycle = true
	p.gateOpen = false
}

func (p *Pulse) Process(buf *soitin.Block, mb *soitin.MIDIBuffer) {
	blockSize := buf.Len()

	// pass-through: no rhythm configured, incoming MIDI flows onward
	if p.onSamples == 0 && p.offSamples == 0 {
		p.globalSample += int64(blockSize)
		return
	}

	p.scratch.Clear()
	events := mb.Events()
	idx := 0

	for i := 0; i < blockSize; i++ {
		for idx < len(events) && events[idx].Frame <= i {
			if p.gating {
				p.updateGate(events[idx].Msg)
			}
			idx++
		}

		// gate closed while our own note is sounding: cut it now
		if p.gating && p.noteSounding && !p.gateOpen {
			p.scratch.Add(i, midi.NoteOffVelocity(0, p.note, p.velocity))
			p.noteSounding = false
		}

		for p.globalSample+int64(i) == p.nextChange {
			if p.state == awaitingNoteOn {
				if !p.initialCycle {
					p.loopCount++
				}
				p.initialCycle = false
				if p.fanOut > 0 {
					p.velocity = uint8(p.loopCount%uint64(p.fanOut) + 1)
				} else {
					p.velocity = 1
				}
				permitted := !p.gating || p.gateOpen
				if p.beatsOn > 0 && permitted && !p.noteSounding {
					p.scratch.Add(i, midi.NoteOn(0, p.note, p.velocity))
					p.noteSounding = true
				}
				p.state = noteIsOn
				p.nextChange += p.onSamples
			} else {
				if p.noteSounding {
					p.scratch.Add(i, midi.NoteOffVelocity(0, p.note, p.velocity))
					p.noteSounding = false
				}
				p.state = awaitingNoteOn
				p.nextChange += p.offSamples
			}
		}
	}

	// incoming events past the block boundary are forwarded untouched
	for ; idx < len(events); idx++ {
		p.scratch.Add(events[idx].Frame, events[idx].Msg)
	}

	mb.Swap(&p.scratch)
	p.globalSample += int64(blockSize)
}

func (p *Pulse) updateGate(msg midi.Message) {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		p.gateOpen = true
		if p.listening && vel != p.listenVelocity {
			p.gateOpen = false
		}
	case msg.GetNoteOff(&ch, &key, &vel):
		p.gateOpen = false
	case msg.GetControlChange(&ch, &key, &vel):
		if key == ccAllSoundOff || key == ccAllNotesOff {
			p.gateOpen = false
		}
	}
}
