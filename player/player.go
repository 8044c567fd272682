// Package player runs the processing graph in its own goroutine, rendering
// block after block into an audio sink.
package player

import (
	"log"
	"sync"

	"github.com/lsalmela/soitin"
	"github.com/lsalmela/soitin/graph"
)

// MIDIOut receives the MIDI events that reached the graph's output during a
// block, e.g. to forward them to a hardware port.
type MIDIOut interface {
	Send(events []soitin.MIDIEvent) error
	Close() error
}

// Player owns the live graph. The command path never touches the graph
// directly: all mutation goes through Sync, which serializes it against the
// render loop, so a graph swap is an atomic hand-off between blocks rather
// than a mutation visible mid-callback.
type Player struct {
	sink soitin.AudioSink
	g    *graph.Graph

	mu   sync.Mutex
	buf  []float32
	midi MIDIOut

	quit chan struct{}
	done chan struct{}
}

// New prepares the graph for the given audio configuration and wraps it in a
// player writing to sink. Call Start to begin rendering.
func New(sink soitin.AudioSink, g *graph.Graph, sampleRate float64, blockSize int) *Player {
	g.Prepare(sampleRate, blockSize)
	return &Player{
		sink: sink,
		g:    g,
		buf:  make([]float32, 2*blockSize),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// SetMIDIOut forwards the sink's MIDI events after every block. Must be
// called before Start.
func (p *Player) SetMIDIOut(out MIDIOut) { p.midi = out }

// Start launches the render loop.
func (p *Player) Start() {
	go p.run()
}

func (p *Player) run() {
	defer close(p.done)
	for {
		select {
		case <-p.quit:
			return
		default:
		}
		p.mu.Lock()
		err := p.g.Process(p.buf)
		var events []soitin.MIDIEvent
		if err == nil && p.midi != nil {
			events = p.g.MIDIOut()
		}
		p.mu.Unlock()
		if err != nil {
			log.Printf("player: %v", err)
			return
		}
		if p.midi != nil && len(events) > 0 {
			if err := p.midi.Send(events); err != nil {
				log.Printf("player: midi out: %v", err)
			}
		}
		if err := p.sink.WriteAudio(p.buf); err != nil {
			log.Printf("player: %v", err)
			return
		}
	}
}

// Sync runs f while the render loop is parked between blocks. Use it for
// every graph mutation.
func (p *Player) Sync(f func() error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return f()
}

// Close stops the render loop and closes the sink.
func (p *Player) Close() error {
	close(p.quit)
	<-p.done
	if p.midi != nil {
		p.midi.Close()
	}
	return p.sink.Close()
}
