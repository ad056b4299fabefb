package snapshot

import (
	"maps"
	"strings"

	"github.com/matzehuels/logicflow/pkg/circuit"
	"github.com/matzehuels/logicflow/pkg/errors"
	"github.com/matzehuels/logicflow/pkg/gate"
)

// DefaultPasteOffset is the shift applied to pasted nodes.
var DefaultPasteOffset = circuit.Point{X: 20, Y: 20}

// Builder creates the nodes and connections of a deserialized document.
// [*circuit.Graph] is a Builder; editors wrap one to record commands.
type Builder interface {
	RestoreNode(st circuit.NodeState) (*circuit.Node, error)
	Connect(a, b *circuit.Socket) (*circuit.Connection, error)
	PropagateAll()
}

// Fragment is what a deserialization created.
type Fragment struct {
	// Nodes are the created nodes in document order.
	Nodes []*circuit.Node
	// Connections are the created connections in document order.
	Connections []*circuit.Connection
	// Warnings are the recovered DANGLING_REFERENCE and UNKNOWN_NODE_TYPE
	// problems.
	Warnings []error
}

// Validate reports the first structural problem of doc as a
// MALFORMED_SNAPSHOT error: a node without id or type, a duplicate node id,
// or a socket index outside the node kind's socket count.
func Validate(doc Document) error {
	seen := make(map[uint64]bool, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if n.ID == 0 {
			return errors.New(errors.ErrCodeMalformedSnapshot, "node %d: missing id", i)
		}
		if strings.TrimSpace(n.Type) == "" {
			return errors.New(errors.ErrCodeMalformedSnapshot, "node %d: missing type", n.ID)
		}
		if seen[n.ID] {
			return errors.New(errors.ErrCodeMalformedSnapshot, "duplicate node id %d", n.ID)
		}
		seen[n.ID] = true

		kind, known := gate.Parse(n.Type)
		var spec gate.Spec
		if known {
			spec, _ = gate.Lookup(kind)
		}
		if err := checkSockets(n, "input", n.Inputs, spec.Inputs, known); err != nil {
			return err
		}
		if err := checkSockets(n, "output", n.Outputs, spec.Outputs, known); err != nil {
			return err
		}
	}
	return nil
}

// checkSockets bounds-checks socket indices. Records of unknown kinds are
// only checked for negative indices since their real shape is unknown.
func checkSockets(n Node, dir string, sockets []Socket, count int, known bool) error {
	for _, s := range sockets {
		if s.Index < 0 || (known && s.Index >= count) {
			return errors.New(errors.ErrCodeMalformedSnapshot,
				"node %d: %s socket index %d out of range", n.ID, dir, s.Index)
		}
	}
	return nil
}

// Deserialize rebuilds doc into g, shifting every node by offset.
func Deserialize(g *circuit.Graph, doc Document, offset circuit.Point) (*Fragment, error) {
	return DeserializeInto(g, doc, offset)
}

// DeserializeInto rebuilds doc through b. Node IDs are never taken from the
// document; b assigns fresh ones.
func DeserializeInto(b Builder, doc Document, offset circuit.Point) (*Fragment, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}

	frag := &Fragment{}
	remap := make(map[uint64]*circuit.Node, len(doc.Nodes))
	for _, rec := range doc.Nodes {
		spec, err := gate.Resolve(rec.Type)
		if err != nil {
			frag.Warnings = append(frag.Warnings, errors.New(errors.ErrCodeUnknownNodeType,
				"node %d: unknown type %q, using %s", rec.ID, rec.Type, spec.Kind))
		}
		n, err := b.RestoreNode(rec.state(spec, offset))
		if err != nil && !errors.Recoverable(err) {
			return frag, err
		}
		remap[rec.ID] = n
		frag.Nodes = append(frag.Nodes, n)
	}

	for _, rec := range doc.Connections {
		from, to := remap[rec.StartNode], remap[rec.EndNode]
		if from == nil || to == nil {
			frag.Warnings = append(frag.Warnings, errors.New(errors.ErrCodeDanglingReference,
				"connection %d: node %d or %d not in snapshot", rec.ID, rec.StartNode, rec.EndNode))
			continue
		}
		out, in := from.Output(rec.StartSocket), to.Input(rec.EndSocket)
		if out == nil || in == nil {
			frag.Warnings = append(frag.Warnings, errors.New(errors.ErrCodeDanglingReference,
				"connection %d: socket %d -> %d out of range", rec.ID, rec.StartSocket, rec.EndSocket))
			continue
		}
		c, err := b.Connect(out, in)
		if err != nil {
			frag.Warnings = append(frag.Warnings, errors.Wrap(errors.ErrCodeDanglingReference, err,
				"connection %d skipped", rec.ID))
			continue
		}
		frag.Connections = append(frag.Connections, c)
	}

	b.PropagateAll()
	return frag, nil
}

// Paste rebuilds a clipboard payload through b, shifted by offset.
func Paste(b Builder, clip Clipboard, offset circuit.Point) (*Fragment, error) {
	return DeserializeInto(b, clip.Document(), offset)
}

func (n Node) state(spec gate.Spec, offset circuit.Point) circuit.NodeState {
	st := circuit.NodeState{
		Kind:       spec.Kind,
		Title:      n.Title,
		Position:   circuit.Point{X: n.PosX, Y: n.PosY}.Add(offset),
		Value:      n.Value,
		Inputs:     socketStates(n.Inputs, spec.Inputs),
		Outputs:    socketStates(n.Outputs, spec.Outputs),
		Properties: maps.Clone(n.Properties),
	}
	// Older documents only stored an Input node's value on its output socket.
	if spec.Source && !st.Value && len(st.Outputs) > 0 {
		st.Value = st.Outputs[0].Value
	}
	return st
}

func socketStates(records []Socket, count int) []circuit.SocketState {
	out := make([]circuit.SocketState, count)
	for _, r := range records {
		if r.Index >= 0 && r.Index < count {
			out[r.Index].Value = r.Value
		}
	}
	return out
}
