// Package sink provides circuit observers that carry sink values out of the
// graph.
//
// A [circuit.Graph] notifies its observer whenever propagation reaches a
// sink node. The observers here turn those notifications into effects:
// [FileWriter] writes FileOutput values to disk, [LogObserver] logs every
// change, and [Multi] fans one notification out to several observers.
//
// Effects never fail propagation. Errors are logged and dropped.
package sink

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/logicflow/pkg/circuit"
	"github.com/matzehuels/logicflow/pkg/errors"
	"github.com/matzehuels/logicflow/pkg/gate"
)

// FileWriter writes "1" or "0" to the path property of FileOutput nodes.
// Relative paths are resolved against Dir. Nodes of any other kind are
// ignored.
type FileWriter struct {
	Dir    string
	Logger *log.Logger // nil discards write failures
}

// OutputChanged implements [circuit.Observer].
func (w *FileWriter) OutputChanged(n *circuit.Node, value bool) {
	if n.Kind() != gate.KindFileOutput {
		return
	}
	path, err := w.Path(n)
	if err == nil {
		err = writeBit(path, value)
	}
	if err != nil && w.Logger != nil {
		w.Logger.Error("file output failed", "node", n.String(), "err", err)
		return
	}
	if w.Logger != nil {
		w.Logger.Debug("file output", "node", n.String(), "path", path, "value", value)
	}
}

// Path returns the file n writes to. The node's path property must be a
// safe relative path.
func (w *FileWriter) Path(n *circuit.Node) (string, error) {
	rel, ok := n.Property(gate.PropPath)
	if !ok {
		rel = gate.DefaultOutputPath
	}
	if err := errors.ValidatePath(rel); err != nil {
		return "", err
	}
	return filepath.Join(w.Dir, filepath.FromSlash(rel)), nil
}

func writeBit(path string, value bool) error {
	data := []byte("0")
	if value {
		data = []byte("1")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "create %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "write %s", path)
	}
	return nil
}

// LogObserver logs every sink notification at debug level.
type LogObserver struct {
	Logger *log.Logger
}

// OutputChanged implements [circuit.Observer].
func (o LogObserver) OutputChanged(n *circuit.Node, value bool) {
	if o.Logger == nil {
		return
	}
	o.Logger.Debug("output changed", "node", n.String(), "kind", n.Kind(), "value", value)
}

// Multi forwards each notification to every observer in order.
type Multi []circuit.Observer

// OutputChanged implements [circuit.Observer].
func (m Multi) OutputChanged(n *circuit.Node, value bool) {
	for _, o := range m {
		if o != nil {
			o.OutputChanged(n, value)
		}
	}
}

var (
	_ circuit.Observer = (*FileWriter)(nil)
	_ circuit.Observer = LogObserver{}
	_ circuit.Observer = Multi(nil)
)
