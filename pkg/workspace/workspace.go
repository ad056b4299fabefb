// Package workspace manages a set of open editors, one per tab.
//
// All editors of a workspace share one clipboard, so nodes copied in one tab
// can be pasted into another. Tabs are identified by random UUIDs and listed
// in the order they were opened. A Workspace is safe for concurrent use; the
// editors it hands out are not.
package workspace

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/logicflow/pkg/editor"
	"github.com/matzehuels/logicflow/pkg/errors"
)

// Workspace holds the open editors.
type Workspace struct {
	mu      sync.RWMutex
	clip    editor.Clipboard
	opts    []editor.Option
	editors map[string]*editor.Editor
	order   []string
}

// New returns an empty workspace. opts are applied to every editor it
// opens; the shared clipboard is always applied last.
func New(clip editor.Clipboard, opts ...editor.Option) *Workspace {
	if clip == nil {
		clip = editor.NewMemoryClipboard()
	}
	return &Workspace{
		clip:    clip,
		opts:    opts,
		editors: make(map[string]*editor.Editor),
	}
}

// Open creates an editor with an empty circuit in a new tab. Per-tab opts
// are applied after the workspace-wide ones.
func (w *Workspace) Open(opts ...editor.Option) *editor.Editor {
	id := uuid.NewString()
	all := slices.Concat(w.opts, opts, []editor.Option{editor.WithID(id), editor.WithClipboard(w.clip)})
	e := editor.New(all...)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.editors[id] = e
	w.order = append(w.order, id)
	return e
}

// Get returns the editor of the tab with the given id.
func (w *Workspace) Get(id string) (*editor.Editor, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, ok := w.editors[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "tab %q not found", id)
	}
	return e, nil
}

// Close closes a tab. Its editor is discarded.
func (w *Workspace) Close(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.editors[id]; !ok {
		return errors.New(errors.ErrCodeNotFound, "tab %q not found", id)
	}
	delete(w.editors, id)
	w.order = slices.DeleteFunc(w.order, func(s string) bool { return s == id })
	return nil
}

// List returns the open tab ids in the order they were opened.
func (w *Workspace) List() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.order)
}

// Len returns the number of open tabs.
func (w *Workspace) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.order)
}

// Clipboard returns the clipboard shared by all tabs.
func (w *Workspace) Clipboard() editor.Clipboard { return w.clip }
