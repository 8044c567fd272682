package soitin

import (
	"sort"

	"gitlab.com/gomidi/midi/v2"
)

// MIDIEvent is one MIDI message positioned at a frame relative to the start
// of the current audio block.
type MIDIEvent struct {
	Frame int
	Msg   midi.Message
}

// MIDIBuffer collects the MIDI events of one audio block, kept ordered by
// frame. Events added at the same frame keep their insertion order.
type MIDIBuffer struct {
	events []MIDIEvent
}

// Add inserts a message at the given frame, preserving frame order.
func (b *MIDIBuffer) Add(frame int, msg midi.Message) {
	i := sort.Search(len(b.events), func(i int) bool { return b.events[i].Frame > frame })
	b.events = append(b.events, MIDIEvent{})
	copy(b.events[i+1:], b.events[i:])
	b.events[i] = MIDIEvent{Frame: frame, Msg: msg}
}

// Merge adds all events of other into the buffer.
func (b *MIDIBuffer) Merge(other *MIDIBuffer) {
	for _, e := range other.events {
		b.Add(e.Frame, e.Msg)
	}
}

// Events returns the ordered events. The slice is owned by the buffer and
// valid until the next mutation.
func (b *MIDIBuffer) Events() []MIDIEvent { return b.events }

func (b *MIDIBuffer) Len() int { return len(b.events) }

// Clear empties the buffer, retaining capacity.
func (b *MIDIBuffer) Clear() { b.events = b.events[:0] }

// Swap exchanges the contents of the two buffers without allocating. Units
// that rewrite their MIDI output build it in a scratch buffer and swap it in.
func (b *MIDIBuffer) Swap(other *MIDIBuffer) {
	b.events, other.events = other.events, b.events
}
