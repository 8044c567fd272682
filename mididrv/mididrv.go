//go:build cgo

// Package mididrv forwards the graph's emitted MIDI events to the default
// hardware MIDI output. It needs cgo for the rtmidi driver; without cgo a
// null implementation is used instead.
package mididrv

import (
	"errors"
	"fmt"

	"github.com/lsalmela/soitin"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

type out struct {
	driver *rtmididrv.Driver
	send   func(midi.Message) error
}

// NewOut opens the first available MIDI output port.
func NewOut() (Out, error) {
	driver, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("cannot open MIDI driver: %w", err)
	}
	outs, err := driver.Outs()
	if err != nil || len(outs) == 0 {
		driver.Close()
		if err == nil {
			err = errors.New("no MIDI output ports")
		}
		return nil, err
	}
	port := outs[0]
	if err := port.Open(); err != nil {
		driver.Close()
		return nil, fmt.Errorf("cannot open MIDI output %v: %w", port, err)
	}
	send, err := midi.SendTo(port)
	if err != nil {
		driver.Close()
		return nil, fmt.Errorf("cannot send to MIDI output %v: %w", port, err)
	}
	return &out{driver: driver, send: send}, nil
}

func (o *out) Send(events []soitin.MIDIEvent) error {
	for _, e := range events {
		if err := o.send(e.Msg); err != nil {
			return err
		}
	}
	return nil
}

func (o *out) Close() error {
	return o.driver.Close()
}
