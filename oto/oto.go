// Package oto adapts the oto audio library to the soitin.AudioContext
// interface.
package oto

import (
	"fmt"
	"io"

	"github.com/ebitengine/oto/v3"
	"github.com/lsalmela/soitin"
)

type Context struct {
	ctx        *oto.Context
	sampleRate int
}

// NewContext opens the audio device for 16-bit stereo output at the given
// sample rate and waits until it is ready.
func NewContext(sampleRate int) (*Context, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{ctx: ctx, sampleRate: sampleRate}, nil
}

// Output returns a sink feeding the device. The oto player pulls from a
// pipe, so WriteAudio blocks when the device buffer is full; that is what
// paces the render loop.
func (c *Context) Output() soitin.AudioSink {
	pr, pw := io.Pipe()
	player := c.ctx.NewPlayer(pr)
	player.Play()
	return &output{player: player, w: pw}
}

func (c *Context) Close() error {
	// the oto context cannot be closed; it lives until the process exits
	return nil
}

type output struct {
	player *oto.Player
	w      *io.PipeWriter
	tmp    []byte
}

func (o *output) WriteAudio(buffer []float32) error {
	o.tmp = floatBufferTo16BitLE(buffer, o.tmp[:0])
	if _, err := o.w.Write(o.tmp); err != nil {
		return fmt.Errorf("cannot write to player: %w", err)
	}
	return nil
}

func (o *output) Close() error {
	o.w.Close()
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}
