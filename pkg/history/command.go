package history

import (
	"fmt"

	"github.com/matzehuels/logicflow/pkg/circuit"
	"github.com/matzehuels/logicflow/pkg/errors"
	"github.com/matzehuels/logicflow/pkg/gate"
)

// Command is one reversible edit.
type Command interface {
	// Name describes the edit for menus and logs, e.g. "add AND".
	Name() string
	// Redo applies the edit. The first call performs it; later calls
	// replay it after an Undo.
	Redo(g *circuit.Graph) error
	// Undo reverts the most recent Redo.
	Undo(g *circuit.Graph) error
}

func lookupNode(g *circuit.Graph, id circuit.ID) (*circuit.Node, error) {
	n, ok := g.Node(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "node %d is not part of the graph", id)
	}
	return n, nil
}

// =============================================================================
// AddNode
// =============================================================================

// AddNode creates a node.
type AddNode struct {
	state   circuit.NodeState
	created bool
	fresh   bool
}

// NewAddNode returns a command creating a node of the given kind at pos.
func NewAddNode(kind gate.Kind, pos circuit.Point) *AddNode {
	return &AddNode{state: circuit.NodeState{Kind: kind, Position: pos}, fresh: true}
}

// NewAddNodeFrom returns a command creating a node from captured state, as
// used by paste and import. IDs in st are ignored; the graph assigns new
// ones on the first Redo.
func NewAddNodeFrom(st circuit.NodeState) *AddNode {
	st.ID = 0
	st.Inputs = clearIDs(st.Inputs)
	st.Outputs = clearIDs(st.Outputs)
	return &AddNode{state: st}
}

func clearIDs(in []circuit.SocketState) []circuit.SocketState {
	out := make([]circuit.SocketState, len(in))
	for i, s := range in {
		out[i] = circuit.SocketState{Value: s.Value}
	}
	return out
}

// NodeID returns the ID of the created node, or zero before the first Redo.
func (c *AddNode) NodeID() circuit.ID { return c.state.ID }

// Name implements Command.
func (c *AddNode) Name() string { return "add " + string(c.state.Kind) }

// Redo implements Command.
func (c *AddNode) Redo(g *circuit.Graph) error {
	if c.created {
		_, err := g.RestoreNode(c.state)
		return err
	}
	var n *circuit.Node
	if c.fresh {
		n = g.AddNode(c.state.Kind, c.state.Position)
	} else {
		var err error
		n, err = g.RestoreNode(c.state)
		if err != nil && !errors.Recoverable(err) {
			return err
		}
	}
	c.state = n.State()
	c.created = true
	return nil
}

// Undo implements Command. The node's state is recaptured first so a later
// Redo brings it back as it was.
func (c *AddNode) Undo(g *circuit.Graph) error {
	n, err := lookupNode(g, c.state.ID)
	if err != nil {
		return err
	}
	c.state = n.State()
	return g.RemoveNode(n)
}

// =============================================================================
// RemoveNode
// =============================================================================

// RemoveNode deletes a node and every connection attached to it.
type RemoveNode struct {
	id    circuit.ID
	title string
	node  circuit.NodeState
	conns []circuit.ConnectionState
}

// NewRemoveNode returns a command removing n.
func NewRemoveNode(n *circuit.Node) *RemoveNode {
	return &RemoveNode{id: n.ID(), title: n.Title(), node: n.State()}
}

// Name implements Command.
func (c *RemoveNode) Name() string { return "remove " + c.title }

// Redo implements Command. It captures the node and its connections right
// before removal.
func (c *RemoveNode) Redo(g *circuit.Graph) error {
	n, err := lookupNode(g, c.id)
	if err != nil {
		return err
	}
	c.node = n.State()
	c.conns = c.conns[:0]
	for _, s := range append(n.Inputs(), n.Outputs()...) {
		for _, conn := range s.Connections() {
			c.conns = append(c.conns, conn.State())
		}
	}
	return g.RemoveNode(n)
}

// Undo implements Command. Restored connections propagate, so downstream
// values match the state before removal.
func (c *RemoveNode) Undo(g *circuit.Graph) error {
	if _, err := g.RestoreNode(c.node); err != nil && !errors.Recoverable(err) {
		return err
	}
	for _, cs := range c.conns {
		if _, err := g.RestoreConnection(cs); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// MoveNode, SetTitle, SetProperty
// =============================================================================

// MoveNode changes a node's position. It does not propagate.
type MoveNode struct {
	id       circuit.ID
	from, to circuit.Point
}

// NewMoveNode returns a command moving n to pos.
func NewMoveNode(n *circuit.Node, pos circuit.Point) *MoveNode {
	return &MoveNode{id: n.ID(), from: n.Position(), to: pos}
}

// Name implements Command.
func (c *MoveNode) Name() string { return "move" }

// Redo implements Command.
func (c *MoveNode) Redo(g *circuit.Graph) error { return c.apply(g, c.to) }

// Undo implements Command.
func (c *MoveNode) Undo(g *circuit.Graph) error { return c.apply(g, c.from) }

func (c *MoveNode) apply(g *circuit.Graph, p circuit.Point) error {
	n, err := lookupNode(g, c.id)
	if err != nil {
		return err
	}
	return g.MoveNode(n, p)
}

// SetTitle renames a node.
type SetTitle struct {
	id       circuit.ID
	old, new string
}

// NewSetTitle returns a command renaming n.
func NewSetTitle(n *circuit.Node, title string) *SetTitle {
	return &SetTitle{id: n.ID(), old: n.Title(), new: title}
}

// Name implements Command.
func (c *SetTitle) Name() string { return fmt.Sprintf("rename to %q", c.new) }

// Redo implements Command.
func (c *SetTitle) Redo(g *circuit.Graph) error { return c.apply(g, c.new) }

// Undo implements Command.
func (c *SetTitle) Undo(g *circuit.Graph) error { return c.apply(g, c.old) }

func (c *SetTitle) apply(g *circuit.Graph, title string) error {
	n, err := lookupNode(g, c.id)
	if err != nil {
		return err
	}
	return g.SetTitle(n, title)
}

// SetProperty changes a type-specific property such as a FileOutput path.
type SetProperty struct {
	id       circuit.ID
	key      string
	old, new string
	had      bool
}

// NewSetProperty returns a command setting key on n.
func NewSetProperty(n *circuit.Node, key, value string) *SetProperty {
	old, had := n.Property(key)
	return &SetProperty{id: n.ID(), key: key, old: old, new: value, had: had}
}

// Name implements Command.
func (c *SetProperty) Name() string { return "set " + c.key }

// Redo implements Command.
func (c *SetProperty) Redo(g *circuit.Graph) error {
	n, err := lookupNode(g, c.id)
	if err != nil {
		return err
	}
	return g.SetProperty(n, c.key, c.new)
}

// Undo implements Command.
func (c *SetProperty) Undo(g *circuit.Graph) error {
	n, err := lookupNode(g, c.id)
	if err != nil {
		return err
	}
	if !c.had {
		return g.UnsetProperty(n, c.key)
	}
	return g.SetProperty(n, c.key, c.old)
}
