// Package notation compiles words of letter/parenthesis notation into wired
// graph fragments.
//
// A word is a maximal run of bound letters and balanced parentheses. Letters
// instantiate units through the registry; oscillators accumulate as orphans
// until an effect consumes them into a chain; a pulse generator opens MIDI
// gating for the parenthesized group that follows it. At the end of a word
// every live dangling node is connected to the audio output sink.
package notation

import (
	"fmt"
	"strings"

	"github.com/lsalmela/soitin"
	"github.com/lsalmela/soitin/graph"
)

// Compiler builds graph fragments from notation text. Word compilation is
// all-or-nothing: a word is validated in full before any node is created, so
// a failing word never leaves partial wiring in the graph.
type Compiler struct {
	reg *soitin.Registry
	g   *graph.Graph
}

func NewCompiler(reg *soitin.Registry, g *graph.Graph) *Compiler {
	return &Compiler{reg: reg, g: g}
}

// CompileLine compiles every whitespace-separated word of the line. Words
// preceding a failing word stay committed.
func (c *Compiler) CompileLine(line string) error {
	for _, word := range strings.Fields(line) {
		if err := c.CompileWord(word); err != nil {
			return fmt.Errorf("word %q: %w", word, err)
		}
	}
	return nil
}

// CompileWord compiles one word into nodes and connections merged into the
// graph. All scan state is local to the word.
func (c *Compiler) CompileWord(word string) error {
	if err := c.validate(word); err != nil {
		return err
	}

	var (
		depth       int
		pulseStack  []*graph.Node
		orphans     []*graph.Node
		effectsTail *graph.Node
		prevPulse   bool
	)
	for _, r := range word {
		switch r {
		case '(':
			depth++
			prevPulse = false
		case ')':
			depth--
			prevPulse = false
			pulseStack = pulseStack[:len(pulseStack)-1]
		default:
			unit, err := c.reg.Instantiate(r)
			if err != nil {
				return err // unreachable after validate
			}
			node := c.g.AddNode(unit)
			if prevPulse {
				c.connectMIDIDirect(pulseStack[len(pulseStack)-1], node)
			}
			if depth > 0 {
				c.connectMIDIGated(pulseStack[depth-1], node)
			}
			switch unit.Kind() {
			case soitin.Oscillator:
				orphans = append(orphans, node)
				prevPulse = false
			case soitin.Effect:
				for _, o := range orphans {
					c.g.Connect(o, node)
				}
				orphans = orphans[:0]
				prevPulse = false
				if effectsTail != nil {
					c.g.Connect(effectsTail, node)
				}
				effectsTail = node
			case soitin.Pulse:
				prevPulse = true
				pulseStack = append(pulseStack, node)
				// also feed the sink, so the events the generator emits
				// reach the hardware MIDI output
				c.g.ConnectMIDI(node, c.g.Sink())
			}
		}
	}
	if effectsTail != nil {
		c.g.Connect(effectsTail, c.g.Sink())
	}
	for _, o := range orphans {
		c.g.Connect(o, c.g.Sink())
	}
	return nil
}

// validate runs the scan without side effects so that the real pass cannot
// fail halfway through. It tracks the paren depth and the height the pulse
// stack would have, and checks that every letter is bound.
func (c *Compiler) validate(word string) error {
	depth, pulses := 0, 0
	for _, r := range word {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return fmt.Errorf("%w: unexpected ')'", soitin.ErrUnbalancedParens)
			}
			if pulses == 0 {
				return fmt.Errorf("%w: group is not driven by a pulse generator", soitin.ErrMalformedCommand)
			}
			pulses--
		default:
			kind, err := c.reg.KindOf(r)
			if err != nil {
				return err
			}
			if depth > 0 && pulses < depth {
				return fmt.Errorf("%w: group at depth %d is not driven by a pulse generator", soitin.ErrMalformedCommand, depth)
			}
			if kind == soitin.Pulse {
				pulses++
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("%w: missing ')'", soitin.ErrUnbalancedParens)
	}
	return nil
}

// connectMIDIDirect wires a pulse generator to the letter immediately
// following it. The destination listens to every velocity, so it follows the
// generator's raw on/off rhythm.
func (c *Compiler) connectMIDIDirect(src, dst *graph.Node) {
	c.g.ConnectMIDI(src, dst)
	switch u := dst.Unit.(type) {
	case soitin.Triggerable:
		u.SetMIDITriggered(true)
		u.SetOpenOnAllVelocities(true)
	case soitin.PulseControl:
		u.SetGating(true)
		u.SetVelocityListening(false)
	}
}

// connectMIDIGated wires the group's pulse generator to a letter inside the
// group. Every gated sibling increments the generator's fan-out count and
// listens for the resulting voice index, so the generator's round-robin
// velocities address the siblings one by one.
func (c *Compiler) connectMIDIGated(src, dst *graph.Node) {
	c.g.ConnectMIDI(src, dst)
	pc, ok := src.Unit.(soitin.PulseControl)
	if !ok {
		return
	}
	switch u := dst.Unit.(type) {
	case soitin.Triggerable:
		pc.IncFanOut()
		u.SetMIDITriggered(true)
		u.SetOpenOnAllVelocities(false)
		u.SetVoiceVelocity(pc.FanOut())
	case soitin.PulseControl:
		pc.IncFanOut()
		u.SetGating(true)
		u.SetListenVelocity(pc.FanOut())
		u.SetVelocityListening(true)
	}
}
