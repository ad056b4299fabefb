package circuit

import (
	"slices"

	"github.com/matzehuels/logicflow/pkg/errors"
	"github.com/matzehuels/logicflow/pkg/gate"
)

// Observer receives the values that reach sink nodes during propagation.
type Observer interface {
	OutputChanged(n *Node, value bool)
}

// ObserverFunc adapts an ordinary function to the [Observer] interface.
type ObserverFunc func(n *Node, value bool)

// OutputChanged calls f(n, value).
func (f ObserverFunc) OutputChanged(n *Node, value bool) { f(n, value) }

// Graph is a combinational logic circuit. The zero value is not usable; call
// [New].
type Graph struct {
	nodes     map[ID]*Node
	sockets   map[ID]*Socket
	conns     map[ID]*Connection
	nodeOrder []*Node
	connOrder []*Connection
	lastID    ID
	observer  Observer
}

// Option configures a [Graph].
type Option func(*Graph)

// WithObserver installs the observer notified when a sink is recomputed.
func WithObserver(o Observer) Option {
	return func(g *Graph) { g.observer = o }
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes:   make(map[ID]*Node),
		sockets: make(map[ID]*Socket),
		conns:   make(map[ID]*Connection),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetObserver replaces the sink observer. A nil observer disables
// notifications.
func (g *Graph) SetObserver(o Observer) { g.observer = o }

// =============================================================================
// Lookups
// =============================================================================

// Node returns the live node with the given ID.
func (g *Graph) Node(id ID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Socket returns the socket with the given ID on a live node.
func (g *Graph) Socket(id ID) (*Socket, bool) {
	s, ok := g.sockets[id]
	return s, ok
}

// Connection returns the live connection with the given ID.
func (g *Graph) Connection(id ID) (*Connection, bool) {
	c, ok := g.conns[id]
	return c, ok
}

// Nodes returns the live nodes in insertion order.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodeOrder) }

// Connections returns the live connections in insertion order.
func (g *Graph) Connections() []*Connection { return slices.Clone(g.connOrder) }

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int { return len(g.nodeOrder) }

// ConnectionCount returns the number of live connections.
func (g *Graph) ConnectionCount() int { return len(g.connOrder) }

// Sources returns the live Input nodes in insertion order.
func (g *Graph) Sources() []*Node {
	return g.filter(func(n *Node) bool { return n.source })
}

// Sinks returns the live Output and FileOutput nodes in insertion order.
func (g *Graph) Sinks() []*Node {
	return g.filter(func(n *Node) bool { return n.sink })
}

// LastID returns the highest ID handed out so far.
func (g *Graph) LastID() ID { return g.lastID }

func (g *Graph) filter(keep func(*Node) bool) []*Node {
	var out []*Node
	for _, n := range g.nodeOrder {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}

func (g *Graph) owns(n *Node) bool {
	return n != nil && g.nodes[n.id] == n
}

func (g *Graph) ownsConnection(c *Connection) bool {
	return c != nil && g.conns[c.id] == c
}

func (g *Graph) inUse(id ID) bool {
	if _, ok := g.nodes[id]; ok {
		return true
	}
	if _, ok := g.sockets[id]; ok {
		return true
	}
	_, ok := g.conns[id]
	return ok
}

func (g *Graph) nextID() ID {
	g.lastID++
	return g.lastID
}

// claim returns id when it is non-zero, otherwise a fresh ID. The counter is
// moved past claimed IDs so they are never handed out again.
func (g *Graph) claim(id ID) ID {
	if id == 0 {
		return g.nextID()
	}
	if id > g.lastID {
		g.lastID = id
	}
	return id
}

// =============================================================================
// Nodes
// =============================================================================

// AddNode creates a node of the given kind at pos and evaluates it once so
// its outputs reflect its unconnected inputs. Unknown kinds produce a
// Default node; use [gate.Resolve] first to detect them.
func (g *Graph) AddNode(kind gate.Kind, pos Point) *Node {
	spec, _ := gate.Resolve(string(kind))
	return g.AddSpec(spec, pos)
}

// AddSpec creates a node from an explicit spec.
func (g *Graph) AddSpec(spec gate.Spec, pos Point) *Node {
	n := g.build(spec, NodeState{Position: pos})
	g.insert(n)
	if !n.sink {
		g.recompute(n)
	}
	return n
}

// build creates a detached node. Zero IDs in st are replaced with fresh ones.
func (g *Graph) build(spec gate.Spec, st NodeState) *Node {
	n := &Node{
		id:     g.claim(st.ID),
		kind:   spec.Kind,
		title:  spec.Title,
		pos:    st.Position,
		rule:   spec.Rule,
		source: spec.Source,
		sink:   spec.Sink,
		props:  spec.Properties,
		value:  st.Value,
	}
	if st.Title != "" {
		n.title = st.Title
	}
	if len(st.Properties) > 0 {
		if n.props == nil {
			n.props = make(map[string]string, len(st.Properties))
		}
		for k, v := range st.Properties {
			n.props[k] = v
		}
	}
	n.inputs = g.buildSockets(n, Input, spec.Inputs, st.Inputs)
	n.outputs = g.buildSockets(n, Output, spec.Outputs, st.Outputs)
	return n
}

func (g *Graph) buildSockets(n *Node, dir Direction, count int, states []SocketState) []*Socket {
	out := make([]*Socket, count)
	for i := range out {
		var st SocketState
		if i < len(states) {
			st = states[i]
		}
		out[i] = &Socket{id: g.claim(st.ID), node: n, dir: dir, index: i, value: st.Value}
	}
	return out
}

func (g *Graph) insert(n *Node) {
	n.graph = g
	g.nodes[n.id] = n
	g.nodeOrder = append(g.nodeOrder, n)
	for _, s := range n.sockets() {
		g.sockets[s.id] = s
	}
}

// RemoveNode removes n together with every connection attached to any of
// its sockets. Downstream sockets keep their last value.
func (g *Graph) RemoveNode(n *Node) error {
	if !g.owns(n) {
		return errors.New(errors.ErrCodeNotFound, "node %v is not part of the graph", nodeID(n))
	}
	for _, s := range n.sockets() {
		for _, c := range slices.Clone(s.conns) {
			g.detach(c)
		}
		delete(g.sockets, s.id)
	}
	delete(g.nodes, n.id)
	g.nodeOrder = slices.DeleteFunc(g.nodeOrder, func(m *Node) bool { return m == n })
	n.graph = nil
	return nil
}

// MoveNode sets n's canvas position.
func (g *Graph) MoveNode(n *Node, pos Point) error {
	if !g.owns(n) {
		return errors.New(errors.ErrCodeNotFound, "node %v is not part of the graph", nodeID(n))
	}
	n.pos = pos
	return nil
}

// SetTitle sets n's display title.
func (g *Graph) SetTitle(n *Node, title string) error {
	if !g.owns(n) {
		return errors.New(errors.ErrCodeNotFound, "node %v is not part of the graph", nodeID(n))
	}
	n.title = title
	return nil
}

// SetProperty sets a type-specific property on n.
func (g *Graph) SetProperty(n *Node, key, value string) error {
	if !g.owns(n) {
		return errors.New(errors.ErrCodeNotFound, "node %v is not part of the graph", nodeID(n))
	}
	if n.props == nil {
		n.props = make(map[string]string)
	}
	n.props[key] = value
	return nil
}

// UnsetProperty removes a property from n.
func (g *Graph) UnsetProperty(n *Node, key string) error {
	if !g.owns(n) {
		return errors.New(errors.ErrCodeNotFound, "node %v is not part of the graph", nodeID(n))
	}
	delete(n.props, key)
	return nil
}

// SetInputValue sets the external value of an Input node and propagates it
// downstream. It fails with INVALID_NODE_KIND for any other kind.
func (g *Graph) SetInputValue(n *Node, v bool) error {
	if !g.owns(n) {
		return errors.New(errors.ErrCodeNotFound, "node %v is not part of the graph", nodeID(n))
	}
	if !n.source {
		return errors.New(errors.ErrCodeInvalidNodeKind, "%s is not an input node", n)
	}
	n.value = v
	g.recompute(n)
	return nil
}

// Clear removes every node and connection. The ID counter is kept so IDs
// from before the clear are not handed out again.
func (g *Graph) Clear() {
	for _, n := range g.nodeOrder {
		n.graph = nil
	}
	clear(g.nodes)
	clear(g.sockets)
	clear(g.conns)
	g.nodeOrder = nil
	g.connOrder = nil
}

func nodeID(n *Node) any {
	if n == nil {
		return "<nil>"
	}
	return n.id
}

// =============================================================================
// Connections
// =============================================================================

// Connect links an output socket to an input socket; the arguments may come
// in either order. On success the source value is copied to the destination
// socket and the destination node is recomputed.
func (g *Graph) Connect(a, b *Socket) (*Connection, error) {
	return g.connect(a, b, 0)
}

func (g *Graph) connect(a, b *Socket, id ID) (*Connection, error) {
	if a == nil || b == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "socket is nil")
	}
	if !g.owns(a.node) || !g.owns(b.node) {
		return nil, errors.New(errors.ErrCodeNotFound, "socket belongs to a node that is not part of the graph")
	}
	if a.dir == b.dir {
		return nil, errors.New(errors.ErrCodeInvalidDirection, "cannot connect two %s sockets", a.dir)
	}
	from, to := a, b
	if from.dir == Input {
		from, to = b, a
	}
	if len(to.conns) > 0 {
		return nil, errors.New(errors.ErrCodeFanIn, "input %d of %s is already connected", to.index, to.node)
	}
	if g.reaches(to.node, from.node) {
		return nil, errors.New(errors.ErrCodeCycle, "connecting %s to %s would create a cycle", from.node, to.node)
	}
	if id != 0 && g.inUse(id) {
		return nil, errors.New(errors.ErrCodeDuplicateID, "id %d is already in use", id)
	}

	c := &Connection{id: g.claim(id), from: from, to: to}
	g.attach(c)
	to.value = from.value
	g.recompute(to.node)
	return c, nil
}

// Disconnect removes c. The destination socket keeps its last value.
func (g *Graph) Disconnect(c *Connection) error {
	if !g.ownsConnection(c) {
		if c == nil {
			return errors.New(errors.ErrCodeNotFound, "connection is nil")
		}
		return errors.New(errors.ErrCodeNotFound, "connection %d is not part of the graph", c.id)
	}
	g.detach(c)
	return nil
}

// RestoreSocket sets the value of an unconnected input socket and
// propagates from its node. It rolls back the value a removed connection
// left behind.
func (g *Graph) RestoreSocket(s *Socket, v bool) error {
	if s == nil || !g.owns(s.node) {
		return errors.New(errors.ErrCodeNotFound, "socket is not part of the graph")
	}
	if s.dir != Input {
		return errors.New(errors.ErrCodeInvalidDirection, "socket %d is an output socket", s.id)
	}
	if len(s.conns) > 0 {
		return errors.New(errors.ErrCodeFanIn, "input %d of %s is connected", s.index, s.node)
	}
	s.value = v
	g.recompute(s.node)
	return nil
}

func (g *Graph) attach(c *Connection) {
	c.from.conns = append(c.from.conns, c)
	c.to.conns = append(c.to.conns, c)
	g.conns[c.id] = c
	g.connOrder = append(g.connOrder, c)
}

func (g *Graph) detach(c *Connection) {
	is := func(x *Connection) bool { return x == c }
	c.from.conns = slices.DeleteFunc(c.from.conns, is)
	c.to.conns = slices.DeleteFunc(c.to.conns, is)
	delete(g.conns, c.id)
	g.connOrder = slices.DeleteFunc(g.connOrder, is)
}

// reaches reports whether target is reachable from start by following
// connections downstream. A node reaches itself.
func (g *Graph) reaches(start, target *Node) bool {
	visited := make(map[*Node]bool)
	stack := []*Node{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == target {
			return true
		}
		if visited[n] {
			continue
		}
		visited[n] = true
		for _, out := range n.outputs {
			for _, c := range out.conns {
				stack = append(stack, c.to.node)
			}
		}
	}
	return false
}
