package mididrv

import "github.com/lsalmela/soitin"

// Out sends MIDI events to a hardware output port.
type Out interface {
	Send(events []soitin.MIDIEvent) error
	Close() error
}
