// Package pkg provides the core libraries for logicflow, a combinational
// logic circuit engine.
//
// # Overview
//
// A circuit is a graph of nodes (Inputs, gates and Outputs) whose sockets are
// joined by connections. Setting an Input value propagates eagerly through
// every downstream node, so Output values are always current. Edits made
// through an editor are recorded as commands that can be undone and redone,
// and a whole graph or a selection of it can be saved, loaded, copied and
// pasted with node IDs preserved.
//
// The typical data flow:
//
//  1. Load: read a circuit document (JSON, TOML or YAML) with [snapshot]
//  2. Build: deserialize it into a [circuit] graph
//  3. Evaluate: set Input values and let propagation update every node
//  4. Output: observe sink changes with [sink], or draw the graph with [render]
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/logicflow/pkg/circuit"
//	    "github.com/matzehuels/logicflow/pkg/gate"
//	)
//
//	g := circuit.New()
//	a := g.AddNode(gate.KindInput, circuit.Point{})
//	not := g.AddNode(gate.KindNot, circuit.Point{X: 100})
//	_, _ = g.Connect(a.Output(0), not.Input(0))
//	_ = g.SetInputValue(a, true)
//	fmt.Println(not.Value()) // false
//
// # Main Packages
//
// ## Core Domain Logic
//
// [circuit] - Nodes, sockets and connections, and the depth-first
// propagation that keeps every node value current.
//
// [gate] - The node factory: the registry of node kinds, their socket
// counts and evaluation rules.
//
// [history] - Undoable commands and the bounded undo/redo stack.
//
// [editor] - The editing surface: records every change as a command, manages
// the selection and clipboard, and saves or opens documents.
//
// [workspace] - Several editors open side by side sharing one clipboard.
//
// ## Serialization and Output
//
// [snapshot] - The ID-stable document format and its JSON, TOML and YAML
// encodings.
//
// [render] - Graphviz rendering of a circuit to DOT, SVG, PDF or PNG.
//
// [sink] - Observers that react to Output value changes, such as writing
// File Output nodes to disk.
//
// ## Infrastructure
//
// [store] - Named circuit storage on a directory, SQLite, Redis or MongoDB.
//
// [config] - TOML configuration with environment overrides.
//
// [observability] - Hooks for editor, store and HTTP events.
//
// [errors] - Coded errors shared by every package.
//
// [circuit]: https://pkg.go.dev/github.com/matzehuels/logicflow/pkg/circuit
// [gate]: https://pkg.go.dev/github.com/matzehuels/logicflow/pkg/gate
// [history]: https://pkg.go.dev/github.com/matzehuels/logicflow/pkg/history
// [editor]: https://pkg.go.dev/github.com/matzehuels/logicflow/pkg/editor
// [workspace]: https://pkg.go.dev/github.com/matzehuels/logicflow/pkg/workspace
// [snapshot]: https://pkg.go.dev/github.com/matzehuels/logicflow/pkg/snapshot
// [render]: https://pkg.go.dev/github.com/matzehuels/logicflow/pkg/render
// [sink]: https://pkg.go.dev/github.com/matzehuels/logicflow/pkg/sink
// [store]: https://pkg.go.dev/github.com/matzehuels/logicflow/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/logicflow/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/logicflow/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/logicflow/pkg/errors
package pkg
