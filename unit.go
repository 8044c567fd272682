package soitin

// Kind tags a unit instance with its processing role. The graph compiler
// wires nodes by comparing kinds instead of inspecting concrete types.
type Kind int

const (
	// Oscillator produces audio and optionally listens to MIDI gating.
	Oscillator Kind = iota
	// Effect transforms the audio passing through it.
	Effect
	// Pulse emits scheduled MIDI note-on/off events and produces no audio.
	Pulse
)

func (k Kind) String() string {
	switch k {
	case Oscillator:
		return "oscillator"
	case Effect:
		return "effect"
	case Pulse:
		return "pulse"
	}
	return "unknown"
}

// Unit is one instantiated signal-processing unit living in a graph node.
// Process is called once per audio block: buf holds the unit's mixed stereo
// input on entry and must hold its output on return; midi holds the incoming
// MIDI events on entry and the produced/forwarded events on return, ordered
// by frame.
type Unit interface {
	Kind() Kind
	Prepare(sampleRate float64, blockSize int)
	Process(buf *Block, midi *MIDIBuffer)
	AcceptsMIDI() bool
	ProducesMIDI() bool
}

// Triggerable is implemented by units whose audio can be gated by upstream
// MIDI, i.e. the oscillators. The compiler configures these when it wires a
// MIDI connection into the unit.
type Triggerable interface {
	SetMIDITriggered(triggered bool)
	// SetVoiceVelocity selects which round-robin velocity opens this unit.
	SetVoiceVelocity(velocity int)
	// SetOpenOnAllVelocities makes the unit respond to any note-on velocity.
	SetOpenOnAllVelocities(open bool)
}

// PulseControl is implemented by pulse generator units. The compiler counts
// fan-out connections on the generator to assign each sibling in a group a
// distinct voice index, and enables gating when a generator is driven by
// another generator upstream.
type PulseControl interface {
	IncFanOut()
	FanOut() int
	SetGating(enabled bool)
	SetListenVelocity(velocity int)
	SetVelocityListening(enabled bool)
}

// Block is one planar stereo audio block.
type Block struct {
	L, R []float32
}

// NewBlock allocates a zeroed stereo block of the given length.
func NewBlock(size int) *Block {
	return &Block{L: make([]float32, size), R: make([]float32, size)}
}

// Len returns the number of frames in the block.
func (b *Block) Len() int { return len(b.L) }

// Zero silences the block.
func (b *Block) Zero() {
	for i := range b.L {
		b.L[i] = 0
		b.R[i] = 0
	}
}
