package circuit

import (
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/logicflow/pkg/gate"
)

// ID identifies a node, socket or connection. IDs are unique within one
// graph and never reused; zero is never a valid ID.
type ID uint64

// Direction tells input sockets from output sockets.
type Direction int

const (
	// Input sockets receive at most one connection.
	Input Direction = iota + 1
	// Output sockets may fan out to any number of connections.
	Output
)

// String returns "input" or "output".
func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Point is a 2-D canvas position.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Socket is an attachment point on a node.
type Socket struct {
	id    ID
	node  *Node
	dir   Direction
	index int
	value bool
	conns []*Connection
}

// ID returns the socket's identifier.
func (s *Socket) ID() ID { return s.id }

// Node returns the node owning the socket.
func (s *Socket) Node() *Node { return s.node }

// Direction returns whether this is an input or output socket.
func (s *Socket) Direction() Direction { return s.dir }

// Index returns the socket's position among its node's sockets of the same
// direction.
func (s *Socket) Index() int { return s.index }

// Value returns the socket's current boolean value.
func (s *Socket) Value() bool { return s.value }

// Connections returns a copy of the connections attached to the socket.
func (s *Socket) Connections() []*Connection { return slices.Clone(s.conns) }

// Connected reports whether any connection is attached.
func (s *Socket) Connected() bool { return len(s.conns) > 0 }

// Connection is a directed edge from an output socket to an input socket.
type Connection struct {
	id   ID
	from *Socket
	to   *Socket
}

// ID returns the connection's identifier.
func (c *Connection) ID() ID { return c.id }

// From returns the source (output) socket.
func (c *Connection) From() *Socket { return c.from }

// To returns the destination (input) socket.
func (c *Connection) To() *Socket { return c.to }

// Node is a typed processing unit with fixed input and output sockets.
type Node struct {
	id      ID
	kind    gate.Kind
	title   string
	pos     Point
	inputs  []*Socket
	outputs []*Socket
	rule    gate.Rule
	source  bool
	sink    bool
	props   map[string]string
	value   bool // externally supplied value of source nodes
	graph   *Graph
}

// ID returns the node's identifier.
func (n *Node) ID() ID { return n.id }

// Kind returns the node's type tag.
func (n *Node) Kind() gate.Kind { return n.kind }

// Title returns the display title.
func (n *Node) Title() string { return n.title }

// Position returns the node's canvas position.
func (n *Node) Position() Point { return n.pos }

// Inputs returns the node's input sockets in index order.
func (n *Node) Inputs() []*Socket { return slices.Clone(n.inputs) }

// Outputs returns the node's output sockets in index order.
func (n *Node) Outputs() []*Socket { return slices.Clone(n.outputs) }

// Input returns input socket i, or nil when i is out of range.
func (n *Node) Input(i int) *Socket {
	if i < 0 || i >= len(n.inputs) {
		return nil
	}
	return n.inputs[i]
}

// Output returns output socket i, or nil when i is out of range.
func (n *Node) Output(i int) *Socket {
	if i < 0 || i >= len(n.outputs) {
		return nil
	}
	return n.outputs[i]
}

// Property returns a type-specific property such as a FileOutput path.
func (n *Node) Property(key string) (string, bool) {
	v, ok := n.props[key]
	return v, ok
}

// Properties returns a copy of the node's properties.
func (n *Node) Properties() map[string]string { return maps.Clone(n.props) }

// IsSource reports whether the node's output is set externally.
func (n *Node) IsSource() bool { return n.source }

// IsSink reports whether the node is an Output or FileOutput node.
func (n *Node) IsSink() bool { return n.sink }

// Live reports whether the node is still part of a graph.
func (n *Node) Live() bool { return n.graph != nil }

// Value returns the node's observable value: the external value for
// sources, the displayed input value for sinks, and the first output value
// for gates.
func (n *Node) Value() bool {
	switch {
	case n.source:
		return n.value
	case n.sink:
		return len(n.inputs) > 0 && n.inputs[0].value
	case len(n.outputs) > 0:
		return n.outputs[0].value
	default:
		return false
	}
}

// String returns a short description such as "AND#12".
func (n *Node) String() string { return fmt.Sprintf("%s#%d", n.title, n.id) }

func (n *Node) inputValues() []bool {
	vals := make([]bool, len(n.inputs))
	for i, s := range n.inputs {
		vals[i] = s.value
	}
	return vals
}

func (n *Node) evaluate() bool {
	switch {
	case n.source:
		return n.value
	case n.rule != nil:
		return n.rule.Evaluate(n.inputValues())
	default:
		return false
	}
}

func (n *Node) sockets() []*Socket {
	return append(slices.Clone(n.inputs), n.outputs...)
}
