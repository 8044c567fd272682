package units

import (
	"math"
	"math/rand"

	"github.com/lsalmela/soitin"
	"gitlab.com/gomidi/midi/v2"
)

// Oscillator renders a fixed-note waveform in stereo. By default it drones;
// once the compiler marks it MIDI-triggered it stays silent until the
// matching note-on arrives, gating its gain with a short ramp to avoid
// clicks.
type Oscillator struct {
	wave  func(phase float64) float64
	noise *rand.Rand // when non-nil, the waveform is white noise
	note  int
	level float32

	sampleRate float64
	freq       float64
	phase      float64

	midiTriggered bool
	openAll       bool
	voiceVelocity uint8
	playing       bool

	gain, targetGain, gainStep float32
}

func newOscillator(wave func(float64) float64, level float32, note int) *Oscillator {
	if note < 0 {
		note = 0
	} else if note > 127 {
		note = 127
	}
	return &Oscillator{wave: wave, level: level, note: note, voiceVelocity: 1}
}

func (o *Oscillator) Kind() soitin.Kind  { return soitin.Oscillator }
func (o *Oscillator) AcceptsMIDI() bool  { return true }
func (o *Oscillator) ProducesMIDI() bool { return false }

func (o *Oscillator) SetMIDITriggered(triggered bool) {
	o.midiTriggered = triggered
	if triggered {
		o.playing = false
		o.gain = 0
		o.targetGain = 0
	} else {
		o.playing = true
		o.targetGain = o.level
	}
}

func (o *Oscillator) SetVoiceVelocity(velocity int) {
	o.voiceVelocity = uint8(velocity)
}

func (o *Oscillator) SetOpenOnAllVelocities(open bool) { o.openAll = open }

// Note returns the fixed MIDI note of the oscillator.
func (o *Oscillator) Note() int { return o.note }

func (o *Oscillator) Prepare(sampleRate float64, blockSize int) {
	o.sampleRate = sampleRate
	o.freq = midiNoteToHz(o.note)
	o.phase = 0
	// 5 ms gain ramp
	o.gainStep = o.level / float32(sampleRate*0.005)
	if o.midiTriggered {
		o.playing = false
		o.gain = 0
		o.targetGain = 0
	} else {
		o.playing = true
		o.gain = o.level
		o.targetGain = o.level
	}
}

func (o *Oscillator) Process(buf *soitin.Block, mb *soitin.MIDIBuffer) {
	n := buf.Len()
	cur := 0
	for _, e := range mb.Events() {
		frame := e.Frame
		if frame < 0 {
			frame = 0
		} else if frame > n-1 {
			frame = n - 1
		}
		if frame > cur {
			o.render(buf, cur, frame)
			cur = frame
		}
		o.handleMIDI(e.Msg)
	}
	if cur < n {
		o.render(buf, cur, n)
	}
	mb.Clear()
}

func (o *Oscillator) handleMIDI(msg midi.Message) {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		if !o.midiTriggered || (!o.openAll && vel != o.voiceVelocity) {
			return
		}
		o.targetGain = o.level
		o.playing = true
	case msg.GetNoteOff(&ch, &key, &vel):
		if !o.midiTriggered || (!o.openAll && vel != o.voiceVelocity) {
			return
		}
		o.targetGain = 0
		o.playing = false
	case msg.GetControlChange(&ch, &key, &vel):
		if !o.midiTriggered {
			return
		}
		if key == ccAllSoundOff || key == ccAllNotesOff {
			o.targetGain = 0
			o.playing = false
		}
	}
}

func (o *Oscillator) render(buf *soitin.Block, from, to int) {
	if !o.playing && o.gain == 0 && o.targetGain == 0 {
		for i := from; i < to; i++ {
			buf.L[i] = 0
			buf.R[i] = 0
		}
		return
	}
	step := o.freq / o.sampleRate
	for i := from; i < to; i++ {
		var s float32
		if o.noise != nil {
			s = float32(o.noise.Float64()*2 - 1)
		} else {
			s = float32(o.wave(o.phase))
			o.phase += step
			if o.phase >= 1 {
				o.phase -= 1
			}
		}
		if o.gain < o.targetGain {
			o.gain += o.gainStep
			if o.gain > o.targetGain {
				o.gain = o.targetGain
			}
		} else if o.gain > o.targetGain {
			o.gain -= o.gainStep
			if o.gain < o.targetGain {
				o.gain = o.targetGain
			}
		}
		s *= o.gain
		buf.L[i] = s
		buf.R[i] = s
	}
}

func midiNoteToHz(note int) float64 {
	return 440 * math.Pow(2, (float64(note)-69)/12)
}
