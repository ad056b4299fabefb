// Package gate defines the closed set of node kinds a logic circuit can hold
// and maps each kind tag to its construction recipe.
//
// # Overview
//
// A [Spec] describes everything needed to build a node of one kind: its
// display title, fixed input and output socket counts, and its evaluation
// [Rule]. The circuit package consumes specs through [Resolve] whenever a
// node is created interactively, pasted, or rebuilt from a snapshot.
//
// # Kinds
//
//   - Sources: [KindInput] has no inputs and one output whose value is set
//     externally.
//   - Sinks: [KindOutput] and [KindFileOutput] have one input and no outputs;
//     recomputing them is an observable effect rather than a value.
//   - Gates: [KindAnd], [KindOr], [KindNot], [KindNand], [KindNor],
//     [KindXor], [KindXnor] are pure functions of their inputs.
//   - [KindDefault] is the generic passthrough used for unknown tags; it
//     evaluates to a constant false.
//
// # Tags
//
// [Parse] is lenient about spelling so documents written by older editors
// still load: "and", "AND", "AndNode" and "and_node" all resolve to
// [KindAnd], and "file_output" resolves to [KindFileOutput]. Unknown tags are
// never fatal: [Resolve] returns the default spec together with an
// UNKNOWN_NODE_TYPE error the caller may log.
package gate
