package editor

import (
	"slices"

	"github.com/matzehuels/logicflow/pkg/circuit"
	"github.com/matzehuels/logicflow/pkg/errors"
	"github.com/matzehuels/logicflow/pkg/history"
	"github.com/matzehuels/logicflow/pkg/snapshot"
)

// Select adds a node to the selection.
func (e *Editor) Select(id circuit.ID) error {
	if _, err := e.node(id); err != nil {
		return err
	}
	e.selNodes[id] = true
	return nil
}

// SelectConnection adds a connection to the selection.
func (e *Editor) SelectConnection(id circuit.ID) error {
	if _, ok := e.graph.Connection(id); !ok {
		return errors.New(errors.ErrCodeNotFound, "connection %d not found", id)
	}
	e.selConns[id] = true
	return nil
}

// SelectAll selects every node and connection.
func (e *Editor) SelectAll() {
	for _, n := range e.graph.Nodes() {
		e.selNodes[n.ID()] = true
	}
	for _, c := range e.graph.Connections() {
		e.selConns[c.ID()] = true
	}
}

// ClearSelection empties the selection.
func (e *Editor) ClearSelection() {
	clear(e.selNodes)
	clear(e.selConns)
}

// Selection returns the selected node and connection IDs in ascending order.
func (e *Editor) Selection() (nodes, conns []circuit.ID) {
	e.pruneSelection()
	for id := range e.selNodes {
		nodes = append(nodes, id)
	}
	for id := range e.selConns {
		conns = append(conns, id)
	}
	slices.Sort(nodes)
	slices.Sort(conns)
	return nodes, conns
}

// SelectedNodes returns the selected nodes in graph order.
func (e *Editor) SelectedNodes() []*circuit.Node {
	var out []*circuit.Node
	for _, n := range e.graph.Nodes() {
		if e.selNodes[n.ID()] {
			out = append(out, n)
		}
	}
	return out
}

// pruneSelection drops selected items that no longer exist, e.g. after an
// undo removed them.
func (e *Editor) pruneSelection() {
	for id := range e.selNodes {
		if _, ok := e.graph.Node(id); !ok {
			delete(e.selNodes, id)
		}
	}
	for id := range e.selConns {
		if _, ok := e.graph.Connection(id); !ok {
			delete(e.selConns, id)
		}
	}
}

// DeleteSelection removes the selected connections, then the selected nodes.
// Each removal is its own history entry.
func (e *Editor) DeleteSelection() error {
	nodes, conns := e.Selection()
	for _, id := range conns {
		c, ok := e.graph.Connection(id)
		if !ok {
			continue
		}
		if err := e.push(history.NewDisconnect(c)); err != nil {
			return err
		}
	}
	for _, id := range nodes {
		n, ok := e.graph.Node(id)
		if !ok {
			continue
		}
		if err := e.push(history.NewRemoveNode(n)); err != nil {
			return err
		}
	}
	e.ClearSelection()
	return nil
}

// Copy puts the selected nodes, and the connections between them, on the
// clipboard. Copying an empty selection leaves the clipboard unchanged.
func (e *Editor) Copy() error {
	nodes := e.SelectedNodes()
	if len(nodes) == 0 {
		return nil
	}
	data, err := snapshot.Marshal(snapshot.Copy(e.graph, nodes), snapshot.FormatJSON)
	if err != nil {
		return err
	}
	return e.clip.Set(data)
}

// Cut copies the selection and then deletes it.
func (e *Editor) Cut() error {
	if err := e.Copy(); err != nil {
		return err
	}
	return e.DeleteSelection()
}

// Paste inserts the clipboard contents shifted by offset and selects them.
// An empty clipboard pastes nothing.
func (e *Editor) Paste(offset circuit.Point) (*snapshot.Fragment, error) {
	data, err := e.clip.Get()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return &snapshot.Fragment{}, nil
	}
	var clip snapshot.Clipboard
	if err := snapshot.Unmarshal(data, &clip, snapshot.FormatJSON); err != nil {
		return nil, err
	}
	frag, err := snapshot.Paste(recorder{e}, clip, offset)
	if err != nil {
		return frag, err
	}
	e.selectFragment(frag)
	return frag, nil
}

// PasteDefault pastes with the editor's configured offset.
func (e *Editor) PasteDefault() (*snapshot.Fragment, error) {
	return e.Paste(e.offset)
}
