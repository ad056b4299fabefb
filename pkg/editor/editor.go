// Package editor is the editing surface for one open circuit.
//
// An [Editor] owns a [circuit.Graph], its undo history, a selection and a
// clipboard. Every structural edit goes through a [history.Command], so
// anything done through the editor (including paste and import) can be
// undone. Editors are not safe for concurrent use; callers that share one
// across goroutines must serialize access.
//
// # Files
//
// [Editor.Save] and [Editor.Open] read and write snapshot files in the
// encoding chosen by the file extension. Open validates and builds the
// document into a fresh graph before swapping it in, so a failed open
// leaves the editor exactly as it was.
//
// # Hooks
//
// Every command, undo and redo is reported to [observability.Editor].
package editor

import (
	"context"

	"github.com/matzehuels/logicflow/pkg/circuit"
	"github.com/matzehuels/logicflow/pkg/errors"
	"github.com/matzehuels/logicflow/pkg/gate"
	"github.com/matzehuels/logicflow/pkg/history"
	"github.com/matzehuels/logicflow/pkg/observability"
	"github.com/matzehuels/logicflow/pkg/snapshot"
)

// Editor edits one circuit.
type Editor struct {
	id       string
	graph    *circuit.Graph
	hist     *history.Stack
	limit    int
	observer circuit.Observer
	clip     Clipboard
	offset   circuit.Point
	path     string

	selNodes map[circuit.ID]bool
	selConns map[circuit.ID]bool
}

// Option configures an Editor.
type Option func(*Editor)

// WithID sets the identifier reported to hooks.
func WithID(id string) Option { return func(e *Editor) { e.id = id } }

// WithClipboard sets the clipboard used by Copy, Cut and Paste.
func WithClipboard(c Clipboard) Option { return func(e *Editor) { e.clip = c } }

// WithObserver sets the sink observer of the editor's graphs.
func WithObserver(o circuit.Observer) Option { return func(e *Editor) { e.observer = o } }

// WithHistoryLimit caps the number of undoable commands. Zero keeps all.
func WithHistoryLimit(n int) Option { return func(e *Editor) { e.limit = n } }

// WithPasteOffset sets the shift applied by [Editor.PasteDefault].
func WithPasteOffset(p circuit.Point) Option { return func(e *Editor) { e.offset = p } }

// New returns an editor with an empty circuit.
func New(opts ...Option) *Editor {
	e := &Editor{
		offset:   snapshot.DefaultPasteOffset,
		selNodes: make(map[circuit.ID]bool),
		selConns: make(map[circuit.ID]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.clip == nil {
		e.clip = NewMemoryClipboard()
	}
	e.graph = circuit.New(circuit.WithObserver(e.observer))
	e.hist = history.NewStack(e.limit)
	return e
}

// ID returns the editor's identifier.
func (e *Editor) ID() string { return e.id }

// Graph returns the edited circuit. Mutating it directly bypasses history.
func (e *Editor) Graph() *circuit.Graph { return e.graph }

// History returns the undo history.
func (e *Editor) History() *history.Stack { return e.hist }

// Path returns the file last opened or saved, if any.
func (e *Editor) Path() string { return e.path }

// Reset clears the circuit, the history and the selection.
func (e *Editor) Reset() {
	e.graph.Clear()
	e.hist.Clear()
	e.ClearSelection()
	e.path = ""
}

// =============================================================================
// Commands
// =============================================================================

func (e *Editor) push(cmd history.Command) error {
	err := e.hist.Push(e.graph, cmd)
	observability.Editor().OnCommand(e.id, cmd.Name(), err)
	return err
}

func (e *Editor) node(id circuit.ID) (*circuit.Node, error) {
	n, ok := e.graph.Node(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "node %d not found", id)
	}
	return n, nil
}

// CreateNode adds a node for the given type tag. Tags are matched like
// snapshot types ("And", "AndNode", "and"); an unknown tag is rejected with
// UNKNOWN_NODE_TYPE and nothing is created.
func (e *Editor) CreateNode(tag string, pos circuit.Point) (*circuit.Node, error) {
	kind, ok := gate.Parse(tag)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownNodeType, "unknown node type %q", tag)
	}
	cmd := history.NewAddNode(kind, pos)
	if err := e.push(cmd); err != nil {
		return nil, err
	}
	return e.node(cmd.NodeID())
}

// RemoveNode deletes a node and its connections.
func (e *Editor) RemoveNode(id circuit.ID) error {
	n, err := e.node(id)
	if err != nil {
		return err
	}
	if err := e.push(history.NewRemoveNode(n)); err != nil {
		return err
	}
	delete(e.selNodes, id)
	e.pruneSelection()
	return nil
}

// Connect links output outIdx of node outID to input inIdx of node inID.
func (e *Editor) Connect(outID circuit.ID, outIdx int, inID circuit.ID, inIdx int) (*circuit.Connection, error) {
	from, err := e.node(outID)
	if err != nil {
		return nil, err
	}
	to, err := e.node(inID)
	if err != nil {
		return nil, err
	}
	out, in := from.Output(outIdx), to.Input(inIdx)
	if out == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "%s has no output %d", from, outIdx)
	}
	if in == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "%s has no input %d", to, inIdx)
	}
	return e.connect(out, in)
}

// ConnectSockets links two sockets by ID, in either order.
func (e *Editor) ConnectSockets(a, b circuit.ID) (*circuit.Connection, error) {
	sa, okA := e.graph.Socket(a)
	sb, okB := e.graph.Socket(b)
	if !okA || !okB {
		return nil, errors.New(errors.ErrCodeNotFound, "socket %d or %d not found", a, b)
	}
	return e.connect(sa, sb)
}

func (e *Editor) connect(a, b *circuit.Socket) (*circuit.Connection, error) {
	cmd := history.NewConnect(a, b)
	if err := e.push(cmd); err != nil {
		return nil, err
	}
	c, _ := e.graph.Connection(cmd.ConnectionID())
	return c, nil
}

// Disconnect removes a connection.
func (e *Editor) Disconnect(id circuit.ID) error {
	c, ok := e.graph.Connection(id)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "connection %d not found", id)
	}
	if err := e.push(history.NewDisconnect(c)); err != nil {
		return err
	}
	delete(e.selConns, id)
	return nil
}

// MoveNode sets a node's canvas position.
func (e *Editor) MoveNode(id circuit.ID, pos circuit.Point) error {
	n, err := e.node(id)
	if err != nil {
		return err
	}
	if n.Position() == pos {
		return nil
	}
	return e.push(history.NewMoveNode(n, pos))
}

// SetTitle renames a node.
func (e *Editor) SetTitle(id circuit.ID, title string) error {
	n, err := e.node(id)
	if err != nil {
		return err
	}
	return e.push(history.NewSetTitle(n, title))
}

// SetProperty sets a type-specific node property, such as the path of a
// FileOutput node. Paths are validated before they are stored.
func (e *Editor) SetProperty(id circuit.ID, key, value string) error {
	n, err := e.node(id)
	if err != nil {
		return err
	}
	if key == gate.PropPath {
		if err := errors.ValidatePath(value); err != nil {
			return err
		}
	}
	return e.push(history.NewSetProperty(n, key, value))
}

// SetInputValue changes the value of an Input node and propagates it. Value
// changes are not recorded in the history.
func (e *Editor) SetInputValue(id circuit.ID, v bool) error {
	n, err := e.node(id)
	if err != nil {
		return err
	}
	if err := e.graph.SetInputValue(n, v); err != nil {
		return err
	}
	observability.Editor().OnInputChanged(e.id, uint64(id), v)
	return nil
}

// ToggleInput flips the value of an Input node.
func (e *Editor) ToggleInput(id circuit.ID) error {
	n, err := e.node(id)
	if err != nil {
		return err
	}
	return e.SetInputValue(id, !n.Value())
}

// Undo reverts the most recent edit.
func (e *Editor) Undo() error {
	name := e.hist.UndoName()
	err := e.hist.Undo(e.graph)
	if !errors.Is(err, errors.ErrCodeNothingToUndo) {
		observability.Editor().OnUndo(e.id, name, err)
	}
	e.pruneSelection()
	return err
}

// Redo reapplies the most recently undone edit.
func (e *Editor) Redo() error {
	name := e.hist.RedoName()
	err := e.hist.Redo(e.graph)
	if !errors.Is(err, errors.ErrCodeNothingToRedo) {
		observability.Editor().OnRedo(e.id, name, err)
	}
	e.pruneSelection()
	return err
}

// =============================================================================
// Import
// =============================================================================

// recorder builds deserialized documents through history commands.
type recorder struct{ e *Editor }

func (r recorder) RestoreNode(st circuit.NodeState) (*circuit.Node, error) {
	cmd := history.NewAddNodeFrom(st)
	if err := r.e.push(cmd); err != nil {
		return nil, err
	}
	return r.e.node(cmd.NodeID())
}

func (r recorder) Connect(a, b *circuit.Socket) (*circuit.Connection, error) {
	return r.e.connect(a, b)
}

func (r recorder) PropagateAll() { r.e.graph.PropagateAll() }

var _ snapshot.Builder = recorder{}

// Serialize captures the circuit, or only the selection when selectionOnly
// is set.
func (e *Editor) Serialize(selectionOnly bool) snapshot.Document {
	if selectionOnly {
		return snapshot.SerializeSubset(e.graph, e.SelectedNodes())
	}
	return snapshot.Serialize(e.graph)
}

// Deserialize imports doc into the current circuit, shifted by offset. The
// import is recorded in the history and the imported nodes become the
// selection.
func (e *Editor) Deserialize(doc snapshot.Document, offset circuit.Point) (*snapshot.Fragment, error) {
	frag, err := snapshot.DeserializeInto(recorder{e}, doc, offset)
	if err != nil {
		return frag, err
	}
	e.selectFragment(frag)
	return frag, nil
}

func (e *Editor) selectFragment(frag *snapshot.Fragment) {
	e.ClearSelection()
	for _, n := range frag.Nodes {
		e.selNodes[n.ID()] = true
	}
}

// =============================================================================
// Files and stores
// =============================================================================

// Save writes the circuit to path.
func (e *Editor) Save(path string) error {
	if err := snapshot.WriteFile(path, e.Serialize(false)); err != nil {
		return err
	}
	e.path = path
	return nil
}

// Open replaces the circuit with the document at path and clears the
// history. On any error the editor is left untouched. Recovered problems are
// returned as the fragment's warnings.
func (e *Editor) Open(path string) (*snapshot.Fragment, error) {
	doc, err := snapshot.ReadFile(path)
	if err != nil {
		return nil, err
	}
	frag, err := e.replace(doc)
	if err != nil {
		return nil, err
	}
	e.path = path
	return frag, nil
}

// Load replaces the circuit with doc and clears the history, like Open.
func (e *Editor) Load(doc snapshot.Document) (*snapshot.Fragment, error) {
	return e.replace(doc)
}

func (e *Editor) replace(doc snapshot.Document) (*snapshot.Fragment, error) {
	g := circuit.New(circuit.WithObserver(e.observer))
	frag, err := snapshot.Deserialize(g, doc, circuit.Point{})
	if err != nil {
		return nil, err
	}
	e.graph = g
	e.hist.Clear()
	e.ClearSelection()
	return frag, nil
}

// DocumentStore is the part of a circuit store the editor needs.
type DocumentStore interface {
	Save(ctx context.Context, name string, doc *snapshot.Document) error
	Load(ctx context.Context, name string) (*snapshot.Document, error)
}

// SaveTo saves the circuit to st under name.
func (e *Editor) SaveTo(ctx context.Context, st DocumentStore, name string) error {
	doc := e.Serialize(false)
	return st.Save(ctx, name, &doc)
}

// OpenFrom replaces the circuit with the one stored under name. On any
// error the editor is left untouched.
func (e *Editor) OpenFrom(ctx context.Context, st DocumentStore, name string) (*snapshot.Fragment, error) {
	doc, err := st.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return e.replace(*doc)
}
