//go:build !cgo

package mididrv

import "errors"

// NewOut always fails when the binary is built without cgo, as the rtmidi
// driver is unavailable. Audio output still works.
func NewOut() (Out, error) {
	return nil, errors.New("MIDI output needs cgo")
}
