// Package cli implements the logicflow command-line interface.
//
// The commands load circuit documents (JSON, TOML or YAML, chosen by file
// extension), evaluate them, render them, move them in and out of the
// configured circuit store, toggle their inputs interactively, and serve
// them over HTTP.
//
// # Commands
//
//   - eval: evaluate circuits and print their sink values
//   - inspect: tabulate the nodes and connections of a circuit
//   - render: draw a circuit as DOT, SVG, PDF or PNG
//   - convert: re-encode a circuit document in another format
//   - store: list, save, load and delete stored circuits
//   - toggle: flip inputs in a terminal UI and watch outputs update
//   - serve: edit one circuit over HTTP
//   - config: locate or initialize the config file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// travels in the command's context.Context.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/logicflow/pkg/circuit"
	"github.com/matzehuels/logicflow/pkg/config"
	"github.com/matzehuels/logicflow/pkg/editor"
	"github.com/matzehuels/logicflow/pkg/sink"
	"github.com/matzehuels/logicflow/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the binary name used in help text.
const appName = "logicflow"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag; empty means the default location.
	ConfigPath string

	cfg *config.Config
}

// New creates a CLI that logs to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the configuration once per process.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return cfg, err
	}
	c.cfg = &cfg
	return cfg, nil
}

// =============================================================================
// Factories
// =============================================================================

// editorOptions turns the [editor] config section into editor options.
func editorOptions(cfg config.Config) []editor.Option {
	return []editor.Option{
		editor.WithHistoryLimit(cfg.Editor.HistoryLimit),
		editor.WithPasteOffset(circuit.Point{X: cfg.Editor.PasteOffsetX, Y: cfg.Editor.PasteOffsetY}),
	}
}

// outputObserver writes FileOutput nodes under the configured output
// directory and logs every sink change at debug level.
func (c *CLI) outputObserver(cfg config.Config) circuit.Observer {
	return sink.Multi{
		&sink.FileWriter{Dir: cfg.Output.Dir, Logger: c.Logger},
		sink.LogObserver{Logger: c.Logger},
	}
}

// openStore opens the configured circuit store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("opened store", "backend", cfg.Store.Backend)
	return st, nil
}
