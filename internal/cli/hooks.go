package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/logicflow/pkg/observability"
)

// logHooks reports editor, store and HTTP events to a logger at debug
// level. Failed edits and store calls are reported as warnings.
type logHooks struct {
	logger *log.Logger
}

// InstallHooks registers hooks that log through c.Logger.
func (c *CLI) InstallHooks() {
	h := logHooks{logger: c.Logger}
	observability.SetEditorHooks(h)
	observability.SetStoreHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnCommand(editor, command string, err error) {
	h.result("command", err, "editor", editor, "command", command)
}

func (h logHooks) OnUndo(editor, command string, err error) {
	h.result("undo", err, "editor", editor, "command", command)
}

func (h logHooks) OnRedo(editor, command string, err error) {
	h.result("redo", err, "editor", editor, "command", command)
}

func (h logHooks) OnInputChanged(editor string, node uint64, value bool) {
	h.logger.Debug("input changed", "editor", editor, "node", node, "value", value)
}

func (h logHooks) OnSave(_ context.Context, backend, name string, d time.Duration, err error) {
	h.result("store save", err, "backend", backend, "name", name, "duration", d.Round(time.Microsecond))
}

func (h logHooks) OnLoad(_ context.Context, backend, name string, d time.Duration, err error) {
	h.result("store load", err, "backend", backend, "name", name, "duration", d.Round(time.Microsecond))
}

func (h logHooks) OnRequest(context.Context, string, string) {}

func (h logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	if status >= 500 {
		h.logger.Warn("request failed", "method", method, "path", path, "status", status, "duration", d)
	}
}

func (h logHooks) result(msg string, err error, keyvals ...any) {
	if err != nil {
		h.logger.Warn(msg+" failed", append(keyvals, "err", err)...)
		return
	}
	h.logger.Debug(msg, keyvals...)
}

var (
	_ observability.EditorHooks = logHooks{}
	_ observability.StoreHooks  = logHooks{}
	_ observability.HTTPHooks   = logHooks{}
)
