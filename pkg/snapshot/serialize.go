package snapshot

import (
	"github.com/matzehuels/logicflow/pkg/circuit"
)

// Serialize captures every live node and connection of g. It has no side
// effects.
func Serialize(g *circuit.Graph) Document {
	return SerializeSubset(g, g.Nodes())
}

// SerializeSubset captures the given nodes and the connections whose both
// endpoints are among them. Nodes keep graph order; nodes that are not live
// in g are ignored.
func SerializeSubset(g *circuit.Graph, nodes []*circuit.Node) Document {
	keep := make(map[circuit.ID]bool, len(nodes))
	for _, n := range nodes {
		if live, ok := g.Node(n.ID()); ok && live == n {
			keep[n.ID()] = true
		}
	}

	doc := Document{Nodes: []Node{}, Connections: []Connection{}}
	for _, n := range g.Nodes() {
		if keep[n.ID()] {
			doc.Nodes = append(doc.Nodes, NodeRecord(n))
		}
	}
	for _, c := range g.Connections() {
		from, to := c.From().Node(), c.To().Node()
		if !keep[from.ID()] || !keep[to.ID()] {
			continue
		}
		doc.Connections = append(doc.Connections, ConnectionRecord(c))
	}
	return doc
}

// ConnectionRecord captures one connection.
func ConnectionRecord(c *circuit.Connection) Connection {
	return Connection{
		ID:          uint64(c.ID()),
		StartNode:   uint64(c.From().Node().ID()),
		StartSocket: c.From().Index(),
		EndNode:     uint64(c.To().Node().ID()),
		EndSocket:   c.To().Index(),
	}
}

// NodeRecord captures one node with its sockets.
func NodeRecord(n *circuit.Node) Node {
	pos := n.Position()
	rec := Node{
		ID:         uint64(n.ID()),
		Type:       string(n.Kind()),
		PosX:       pos.X,
		PosY:       pos.Y,
		Title:      n.Title(),
		Inputs:     socketRecords(n.Inputs()),
		Outputs:    socketRecords(n.Outputs()),
		Properties: n.Properties(),
	}
	if n.IsSource() {
		rec.Value = n.Value()
	}
	return rec
}

func socketRecords(sockets []*circuit.Socket) []Socket {
	out := make([]Socket, len(sockets))
	for i, s := range sockets {
		out[i] = Socket{ID: uint64(s.ID()), Index: s.Index(), Value: s.Value()}
	}
	return out
}

// Copy captures nodes as a clipboard payload.
func Copy(g *circuit.Graph, nodes []*circuit.Node) Clipboard {
	doc := SerializeSubset(g, nodes)
	index := make(map[uint64]int, len(doc.Nodes))
	for i, n := range doc.Nodes {
		index[n.ID] = i
	}
	clip := Clipboard{Nodes: doc.Nodes, Connections: make([]ClipConnection, 0, len(doc.Connections))}
	for _, c := range doc.Connections {
		clip.Connections = append(clip.Connections, ClipConnection{
			StartNode:   index[c.StartNode],
			StartSocket: c.StartSocket,
			EndNode:     index[c.EndNode],
			EndSocket:   c.EndSocket,
		})
	}
	return clip
}
