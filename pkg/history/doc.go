// Package history makes structural circuit edits reversible.
//
// Every edit is a [Command] with Redo and Undo methods over a
// [circuit.Graph]. Commands capture plain values (IDs, socket indices,
// positions, socket values) rather than pointers, because undoing a removal
// rebuilds new node and connection instances. The rebuilt instances carry
// the original IDs, so later commands that refer to them by ID keep working;
// pointers to the old instances go stale.
//
// A [Stack] holds one linear history per graph. Pushing a command runs it
// and discards anything that was undone before; composite edits such as
// deleting a selection push one command per connection and node, so undo
// unwinds them one at a time in reverse order.
//
//	s := history.NewStack(0)
//	add := history.NewAddNode(gate.KindAnd, circuit.Point{X: 10})
//	s.Push(g, add)
//	s.Undo(g) // node removed
//	s.Redo(g) // node rebuilt with the same ID
//
// Changing an Input node's value is not an edit and has no command.
package history
