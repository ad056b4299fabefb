package history

import (
	"github.com/matzehuels/logicflow/pkg/circuit"
	"github.com/matzehuels/logicflow/pkg/errors"
)

// Connect links two sockets.
type Connect struct {
	a, b  circuit.ID // socket IDs as given
	state circuit.ConnectionState
	prev  bool // destination socket value before the connection
}

// NewConnect returns a command connecting a and b, in either order.
func NewConnect(a, b *circuit.Socket) *Connect {
	c := &Connect{}
	if a != nil {
		c.a = a.ID()
	}
	if b != nil {
		c.b = b.ID()
	}
	return c
}

// ConnectionID returns the ID of the created connection, or zero before the
// first Redo.
func (c *Connect) ConnectionID() circuit.ID { return c.state.ID }

// Name implements Command.
func (c *Connect) Name() string { return "connect" }

// Redo implements Command.
func (c *Connect) Redo(g *circuit.Graph) error {
	if c.state.ID != 0 {
		to, err := inputSocket(g, c.state)
		if err != nil {
			return err
		}
		c.prev = to.Value()
		_, err = g.RestoreConnection(c.state)
		return err
	}

	a, okA := g.Socket(c.a)
	b, okB := g.Socket(c.b)
	if !okA || !okB {
		return errors.New(errors.ErrCodeNotFound, "socket is not part of the graph")
	}
	to := b
	if a.Direction() == circuit.Input {
		to = a
	}
	prev := to.Value()
	conn, err := g.Connect(a, b)
	if err != nil {
		return err
	}
	c.state = conn.State()
	c.prev = prev
	return nil
}

// Undo implements Command. The destination socket gets its previous value
// back and its node is recomputed.
func (c *Connect) Undo(g *circuit.Graph) error {
	conn, ok := g.Connection(c.state.ID)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "connection %d is not part of the graph", c.state.ID)
	}
	to := conn.To()
	if err := g.Disconnect(conn); err != nil {
		return err
	}
	return g.RestoreSocket(to, c.prev)
}

func inputSocket(g *circuit.Graph, st circuit.ConnectionState) (*circuit.Socket, error) {
	n, err := lookupNode(g, st.ToNode)
	if err != nil {
		return nil, err
	}
	s := n.Input(st.ToSocket)
	if s == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "%s has no input socket %d", n, st.ToSocket)
	}
	return s, nil
}

// Disconnect removes a connection. The destination keeps its last value.
type Disconnect struct {
	state circuit.ConnectionState
}

// NewDisconnect returns a command removing conn.
func NewDisconnect(conn *circuit.Connection) *Disconnect {
	return &Disconnect{state: conn.State()}
}

// Name implements Command.
func (c *Disconnect) Name() string { return "disconnect" }

// Redo implements Command.
func (c *Disconnect) Redo(g *circuit.Graph) error {
	conn, ok := g.Connection(c.state.ID)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "connection %d is not part of the graph", c.state.ID)
	}
	return g.Disconnect(conn)
}

// Undo implements Command.
func (c *Disconnect) Undo(g *circuit.Graph) error {
	_, err := g.RestoreConnection(c.state)
	return err
}
