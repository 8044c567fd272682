// Package graph holds the wired processing graph that the notation compiler
// builds and the player executes block by block.
package graph

import (
	"fmt"

	"github.com/lsalmela/soitin"
	"github.com/viterin/vek/vek32"
)

// Channel identifies one port of a node.
type Channel int

const (
	Left  Channel = 0
	Right Channel = 1
	MIDI  Channel = 2
)

func (c Channel) String() string {
	switch c {
	case Left:
		return "left"
	case Right:
		return "right"
	case MIDI:
		return "midi"
	}
	return "unknown"
}

// NodeID identifies a node within its graph. IDs are never reused until the
// graph is cleared.
type NodeID int

// Node is one instantiated unit in the graph. The output sink node has a nil
// Unit; it only mixes its inputs into the master output.
type Node struct {
	ID   NodeID
	Unit soitin.Unit

	buf  *soitin.Block     // audio working buffer, input mix then output
	midi soitin.MIDIBuffer // MIDI working buffer, input merge then output
}

// Label names the node for diagnostics.
func (n *Node) Label() string {
	if n.Unit == nil {
		return "output"
	}
	return n.Unit.Kind().String()
}

// Connection routes one channel of a source node to one channel of a
// destination node. Audio connections are only ever created as left+right
// pairs between the same two nodes.
type Connection struct {
	From, To     NodeID
	FromCh, ToCh Channel
}

// Graph is a directed signal/MIDI graph ending in a designated audio output
// sink. It is not safe for concurrent use: the player serializes graph
// mutation against block processing.
type Graph struct {
	nodes  []*Node
	conns  []Connection
	sink   *Node
	nextID NodeID

	sampleRate float64
	blockSize  int
	volume     float32

	order []*Node
	dirty bool
}

// New creates an empty graph containing only the output sink.
func New() *Graph {
	g := &Graph{volume: 1}
	g.sink = g.addNode(nil)
	return g
}

// Clear discards every node and connection and recreates the output sink.
// Clearing an already empty graph is a no-op.
func (g *Graph) Clear() {
	g.nodes = g.nodes[:0]
	g.conns = g.conns[:0]
	g.nextID = 0
	g.sink = g.addNode(nil)
	g.dirty = true
}

// Sink returns the audio output node.
func (g *Graph) Sink() *Node { return g.sink }

// Nodes returns the graph's nodes in creation order.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Connections returns the graph's connections in creation order.
func (g *Graph) Connections() []Connection { return g.conns }

// SetVolume scales the master output. Volume 1 is unity gain.
func (g *Graph) SetVolume(volume float32) { g.volume = volume }

// AddNode adds an instantiated unit to the graph. If the graph has already
// been prepared, the new node is prepared immediately.
func (g *Graph) AddNode(u soitin.Unit) *Node {
	return g.addNode(u)
}

func (g *Graph) addNode(u soitin.Unit) *Node {
	n := &Node{ID: g.nextID, Unit: u}
	g.nextID++
	g.nodes = append(g.nodes, n)
	if g.blockSize > 0 {
		n.buf = soitin.NewBlock(g.blockSize)
		if u != nil {
			u.Prepare(g.sampleRate, g.blockSize)
		}
	}
	g.dirty = true
	return n
}

// Connect wires src's stereo audio output into dst, always as a left+right
// pair.
func (g *Graph) Connect(src, dst *Node) {
	g.conns = append(g.conns,
		Connection{From: src.ID, To: dst.ID, FromCh: Left, ToCh: Left},
		Connection{From: src.ID, To: dst.ID, FromCh: Right, ToCh: Right})
	g.dirty = true
}

// ConnectMIDI wires src's MIDI output into dst.
func (g *Graph) ConnectMIDI(src, dst *Node) {
	g.conns = append(g.conns, Connection{From: src.ID, To: dst.ID, FromCh: MIDI, ToCh: MIDI})
	g.dirty = true
}

// Prepare readies every node for block processing at the given sample rate
// and block size. It must be called before Process and again whenever the
// audio configuration changes.
func (g *Graph) Prepare(sampleRate float64, blockSize int) {
	g.sampleRate = sampleRate
	g.blockSize = blockSize
	for _, n := range g.nodes {
		n.buf = soitin.NewBlock(blockSize)
		n.midi.Clear()
		if n.Unit != nil {
			n.Unit.Prepare(sampleRate, blockSize)
		}
	}
}

// Process renders one block into out, which must hold blockSize interleaved
// stereo frames (2*blockSize samples). Nodes are evaluated in dependency
// order; audio fan-in is summed, MIDI fan-in merged in frame order.
func (g *Graph) Process(out []float32) error {
	if g.blockSize == 0 {
		return fmt.Errorf("graph is not prepared")
	}
	if len(out) != 2*g.blockSize {
		return fmt.Errorf("output buffer is %d samples, want %d", len(out), 2*g.blockSize)
	}
	if g.dirty {
		if err := g.sortNodes(); err != nil {
			return err
		}
	}
	for _, n := range g.order {
		vek32.Zeros_Into(n.buf.L, g.blockSize)
		vek32.Zeros_Into(n.buf.R, g.blockSize)
		n.midi.Clear()
		for _, c := range g.conns {
			if c.To != n.ID {
				continue
			}
			src := g.node(c.From)
			switch c.ToCh {
			case Left:
				vek32.Add_Inplace(n.buf.L, src.buf.L)
			case Right:
				vek32.Add_Inplace(n.buf.R, src.buf.R)
			case MIDI:
				n.midi.Merge(&src.midi)
			}
		}
		if n.Unit != nil {
			n.Unit.Process(n.buf, &n.midi)
		}
	}
	if g.volume != 1 {
		vek32.MulNumber_Inplace(g.sink.buf.L, g.volume)
		vek32.MulNumber_Inplace(g.sink.buf.R, g.volume)
	}
	for i := 0; i < g.blockSize; i++ {
		out[2*i] = clamp(g.sink.buf.L[i])
		out[2*i+1] = clamp(g.sink.buf.R[i])
	}
	return nil
}

// MIDIOut returns the MIDI events that arrived at the sink during the last
// processed block, for forwarding to an external MIDI output.
func (g *Graph) MIDIOut() []soitin.MIDIEvent {
	return g.sink.midi.Events()
}

func clamp(v float32) float32 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

func (g *Graph) node(id NodeID) *Node {
	for _, n := range g.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// sortNodes orders the nodes so that every connection's source is evaluated
// before its destination, with the sink last.
func (g *Graph) sortNodes() error {
	indeg := make(map[NodeID]int, len(g.nodes))
	for _, n := range g.nodes {
		indeg[n.ID] = 0
	}
	type edge struct{ from, to NodeID }
	seen := make(map[edge]bool, len(g.conns))
	for _, c := range g.conns {
		e := edge{c.From, c.To}
		if !seen[e] {
			seen[e] = true
			indeg[c.To]++
		}
	}
	order := make([]*Node, 0, len(g.nodes))
	ready := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		if indeg[n.ID] == 0 && n != g.sink {
			ready = append(ready, n)
		}
	}
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)
		for e := range seen {
			if e.from != n.ID {
				continue
			}
			delete(seen, e)
			indeg[e.to]--
			if indeg[e.to] == 0 && g.node(e.to) != g.sink {
				ready = append(ready, g.node(e.to))
			}
		}
	}
	order = append(order, g.sink)
	if len(order) != len(g.nodes) {
		return fmt.Errorf("graph contains a cycle")
	}
	g.order = order
	g.dirty = false
	return nil
}
