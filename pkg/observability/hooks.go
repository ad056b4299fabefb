// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about circuit edits, circuit storage, and API requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so the engine packages
// stay free of any metrics framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEditorHooks(&myEditorHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	err := st.Save(ctx, name, doc)
//	observability.Store().OnSave(ctx, "sqlite", name, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Editor Hooks
// =============================================================================

// EditorHooks receives events from circuit editors. Editors are
// synchronous and carry no context; the editor ID tells tabs apart.
type EditorHooks interface {
	// OnCommand records an attempted edit and its outcome.
	OnCommand(editor, command string, err error)

	// OnUndo and OnRedo record history navigation.
	OnUndo(editor, command string, err error)
	OnRedo(editor, command string, err error)

	// OnInputChanged records a new Input node value.
	OnInputChanged(editor string, node uint64, value bool)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from circuit stores.
type StoreHooks interface {
	// OnSave records a stored circuit.
	OnSave(ctx context.Context, backend, name string, duration time.Duration, err error)

	// OnLoad records a loaded circuit.
	OnLoad(ctx context.Context, backend, name string, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response sent for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditorHooks is a no-op implementation of EditorHooks.
type NoopEditorHooks struct{}

func (NoopEditorHooks) OnCommand(string, string, error)     {}
func (NoopEditorHooks) OnUndo(string, string, error)        {}
func (NoopEditorHooks) OnRedo(string, string, error)        {}
func (NoopEditorHooks) OnInputChanged(string, uint64, bool) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnSave(context.Context, string, string, time.Duration, error) {}
func (NoopStoreHooks) OnLoad(context.Context, string, string, time.Duration, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	editorHooks EditorHooks = NoopEditorHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetEditorHooks registers custom editor hooks.
// This should be called once at application startup before any editing.
func SetEditorHooks(h EditorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editorHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Editor returns the registered editor hooks.
func Editor() EditorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editorHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	editorHooks = NoopEditorHooks{}
	storeHooks = NoopStoreHooks{}
	httpHooks = NoopHTTPHooks{}
}
