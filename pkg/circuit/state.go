package circuit

import (
	"maps"

	"github.com/matzehuels/logicflow/pkg/errors"
	"github.com/matzehuels/logicflow/pkg/gate"
)

// SocketState is the captured value of one socket.
type SocketState struct {
	ID    ID
	Value bool
}

// NodeState is everything needed to rebuild a node. Zero IDs are replaced
// with fresh ones on restore.
type NodeState struct {
	ID         ID
	Kind       gate.Kind
	Title      string
	Position   Point
	Value      bool
	Inputs     []SocketState
	Outputs    []SocketState
	Properties map[string]string
}

// ConnectionState identifies a connection by its endpoint nodes and socket
// indices.
type ConnectionState struct {
	ID         ID
	FromNode   ID
	FromSocket int
	ToNode     ID
	ToSocket   int
}

// State captures n. The node does not need to be live.
func (n *Node) State() NodeState {
	st := NodeState{
		ID:         n.id,
		Kind:       n.kind,
		Title:      n.title,
		Position:   n.pos,
		Value:      n.value,
		Properties: maps.Clone(n.props),
	}
	for _, s := range n.inputs {
		st.Inputs = append(st.Inputs, SocketState{ID: s.id, Value: s.value})
	}
	for _, s := range n.outputs {
		st.Outputs = append(st.Outputs, SocketState{ID: s.id, Value: s.value})
	}
	return st
}

// State captures c.
func (c *Connection) State() ConnectionState {
	return ConnectionState{
		ID:         c.id,
		FromNode:   c.from.node.id,
		FromSocket: c.from.index,
		ToNode:     c.to.node.id,
		ToSocket:   c.to.index,
	}
}

// RestoreNode inserts a new node built from st. Socket values are restored
// verbatim and nothing is propagated. Unknown kinds fall back to the Default
// node and report UNKNOWN_NODE_TYPE together with the node.
func (g *Graph) RestoreNode(st NodeState) (*Node, error) {
	if err := g.checkIDs(st); err != nil {
		return nil, err
	}
	spec, ok := gate.Lookup(st.Kind)
	var warn error
	if !ok {
		spec, warn = gate.Resolve(string(st.Kind))
	}
	n := g.build(spec, st)
	g.insert(n)
	return n, warn
}

func (g *Graph) checkIDs(st NodeState) error {
	seen := make(map[ID]bool)
	check := func(id ID) error {
		if id == 0 {
			return nil
		}
		if seen[id] || g.inUse(id) {
			return errors.New(errors.ErrCodeDuplicateID, "id %d is already in use", id)
		}
		seen[id] = true
		return nil
	}
	if err := check(st.ID); err != nil {
		return err
	}
	for _, s := range append(append([]SocketState(nil), st.Inputs...), st.Outputs...) {
		if err := check(s.ID); err != nil {
			return err
		}
	}
	return nil
}

// RestoreConnection reconnects the sockets named by st, reusing st.ID when
// it is non-zero. It applies the same checks and propagation as
// [Graph.Connect].
func (g *Graph) RestoreConnection(st ConnectionState) (*Connection, error) {
	from, err := g.socketAt(st.FromNode, Output, st.FromSocket)
	if err != nil {
		return nil, err
	}
	to, err := g.socketAt(st.ToNode, Input, st.ToSocket)
	if err != nil {
		return nil, err
	}
	return g.connect(from, to, st.ID)
}

func (g *Graph) socketAt(node ID, dir Direction, index int) (*Socket, error) {
	n, ok := g.nodes[node]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "node %d is not part of the graph", node)
	}
	var s *Socket
	if dir == Input {
		s = n.Input(index)
	} else {
		s = n.Output(index)
	}
	if s == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "%s has no %s socket %d", n, dir, index)
	}
	return s, nil
}
