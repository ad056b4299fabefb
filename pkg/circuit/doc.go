// Package circuit provides the combinational logic graph: nodes with fixed
// input and output sockets, connections from output sockets to input
// sockets, and the push propagation that keeps every socket value consistent
// with the current inputs.
//
// # Overview
//
// A [Graph] owns its nodes and connections. Nodes are built from the recipes
// in package gate, so their socket counts never change after construction.
// Every node, socket and connection receives an [ID] from one monotonic
// counter per graph; IDs are never reused, which makes them safe keys for
// snapshots and undo history:
//
//	g := circuit.New()
//	a := g.AddNode(gate.KindInput, circuit.Point{})
//	b := g.AddNode(gate.KindInput, circuit.Point{Y: 60})
//	and := g.AddNode(gate.KindAnd, circuit.Point{X: 200})
//	g.Connect(a.Output(0), and.Input(0))
//	g.Connect(b.Output(0), and.Input(1))
//	g.SetInputValue(a, true)
//	g.SetInputValue(b, true)
//	and.Output(0).Value() // true
//
// # Structural Rules
//
// [Graph.Connect] enforces the invariants of the model and returns coded
// errors from package errors:
//
//   - INVALID_DIRECTION: both sockets have the same [Direction]
//   - FAN_IN_VIOLATION: the input socket already has a connection; callers
//     must disconnect it first, there is no implicit replacement
//   - CYCLE_VIOLATION: the destination node already reaches the source node
//   - NOT_FOUND: a socket belongs to a node that is not part of the graph
//
// # Propagation
//
// Propagation is eager, synchronous and depth-first. Setting an Input value
// or adding a connection recomputes the affected node, writes the result to
// its output sockets, copies it across every attached connection and
// recursively recomputes each destination node. There is no visited set: a
// node reachable along several paths is recomputed once per path, which is
// correct for pure gates. Termination relies on the graph being acyclic,
// which Connect guarantees by rejecting cycles at edit time.
//
// Sink nodes (Output, FileOutput) end the walk on their branch and notify
// the graph's [Observer] instead of producing a value.
//
// Removing a connection does not reset the destination socket: its last
// value stays until the next propagation reaches it.
//
// # State Capture
//
// [Node.State] and [Connection.State] return plain values that can rebuild an
// equivalent object through [Graph.RestoreNode] and
// [Graph.RestoreConnection]. Restored objects are new instances that carry
// the captured IDs, so references held by IDs stay valid across undo/redo
// while pointers to the old instances do not.
//
// # Concurrency
//
// A Graph is not safe for concurrent use. Every mutation runs to completion
// before returning; callers sharing a graph between goroutines must
// serialize all calls externally.
package circuit
