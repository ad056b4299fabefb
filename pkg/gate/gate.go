package gate

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/logicflow/pkg/errors"
)

// Kind is the type tag of a node.
type Kind string

// Node kinds. The string values are the canonical tags written to snapshots.
const (
	KindInput      Kind = "Input"
	KindOutput     Kind = "Output"
	KindFileOutput Kind = "FileOutput"
	KindAnd        Kind = "And"
	KindOr         Kind = "Or"
	KindNot        Kind = "Not"
	KindNand       Kind = "Nand"
	KindNor        Kind = "Nor"
	KindXor        Kind = "Xor"
	KindXnor       Kind = "Xnor"
	KindDefault    Kind = "Default"
)

// PropPath is the property key holding a FileOutput node's target file.
const PropPath = "path"

// DefaultOutputPath is the file a new FileOutput node writes to.
const DefaultOutputPath = "output.txt"

// Rule computes a node's single output value from its input socket values.
type Rule interface {
	Evaluate(inputs []bool) bool
}

// RuleFunc adapts an ordinary function to the [Rule] interface.
type RuleFunc func(inputs []bool) bool

// Evaluate calls f(inputs).
func (f RuleFunc) Evaluate(inputs []bool) bool { return f(inputs) }

// Spec is the construction recipe for one node kind.
type Spec struct {
	Kind    Kind
	Title   string // Default display title
	Inputs  int    // Number of input sockets (fixed for the node's lifetime)
	Outputs int    // Number of output sockets (fixed for the node's lifetime)

	// Rule evaluates gates. It is nil for sources and sinks.
	Rule Rule

	// Source marks kinds whose output is set externally (Input).
	Source bool
	// Sink marks kinds that expose their input as a side channel instead of
	// driving outputs (Output, FileOutput).
	Sink bool

	// Properties are the type-specific defaults copied onto new nodes.
	Properties map[string]string
}

// IsGate reports whether the spec describes a pure evaluation node.
func (s Spec) IsGate() bool { return !s.Source && !s.Sink }

func count(inputs []bool) int {
	n := 0
	for _, v := range inputs {
		if v {
			n++
		}
	}
	return n
}

func allTrue(inputs []bool) bool { return count(inputs) == len(inputs) }
func anyTrue(inputs []bool) bool { return count(inputs) > 0 }

var specs = map[Kind]Spec{
	KindInput:  {Kind: KindInput, Title: "Input", Outputs: 1, Source: true},
	KindOutput: {Kind: KindOutput, Title: "Output", Inputs: 1, Sink: true},
	KindFileOutput: {
		Kind: KindFileOutput, Title: "File Output", Inputs: 1, Sink: true,
		Properties: map[string]string{PropPath: DefaultOutputPath},
	},
	KindAnd:  {Kind: KindAnd, Title: "AND", Inputs: 2, Outputs: 1, Rule: RuleFunc(allTrue)},
	KindOr:   {Kind: KindOr, Title: "OR", Inputs: 2, Outputs: 1, Rule: RuleFunc(anyTrue)},
	KindNand: {Kind: KindNand, Title: "NAND", Inputs: 2, Outputs: 1, Rule: RuleFunc(func(in []bool) bool { return !allTrue(in) })},
	KindNor:  {Kind: KindNor, Title: "NOR", Inputs: 2, Outputs: 1, Rule: RuleFunc(func(in []bool) bool { return !anyTrue(in) })},
	KindXor:  {Kind: KindXor, Title: "XOR", Inputs: 2, Outputs: 1, Rule: RuleFunc(func(in []bool) bool { return count(in) == 1 })},
	KindXnor: {Kind: KindXnor, Title: "XNOR", Inputs: 2, Outputs: 1, Rule: RuleFunc(func(in []bool) bool { return count(in) != 1 })},
	KindNot: {Kind: KindNot, Title: "NOT", Inputs: 1, Outputs: 1, Rule: RuleFunc(func(in []bool) bool {
		if len(in) == 0 {
			return false
		}
		return !in[0]
	})},
	KindDefault: {Kind: KindDefault, Title: "Default Node", Inputs: 1, Outputs: 1, Rule: RuleFunc(func([]bool) bool { return false })},
}

// aliases maps normalized spellings to kinds. Normalization lowercases the
// tag and strips underscores, dashes, spaces and a trailing "node".
var aliases = func() map[string]Kind {
	m := make(map[string]Kind, len(specs))
	for k := range specs {
		m[normalize(string(k))] = k
	}
	m["generic"] = KindDefault
	return m
}()

func normalize(tag string) string {
	s := strings.ToLower(strings.TrimSpace(tag))
	s = strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
	if s != "node" {
		s = strings.TrimSuffix(s, "node")
	}
	return s
}

// Parse resolves a tag to a kind. It reports false for unknown tags.
func Parse(tag string) (Kind, bool) {
	k, ok := aliases[normalize(tag)]
	return k, ok
}

// Lookup returns the spec registered for kind.
func Lookup(kind Kind) (Spec, bool) {
	s, ok := specs[kind]
	if !ok {
		return Spec{}, false
	}
	return clone(s), true
}

// Default returns the spec of the generic fallback node.
func Default() Spec { return clone(specs[KindDefault]) }

// Resolve maps a tag to its spec. Unknown tags yield the default spec and an
// UNKNOWN_NODE_TYPE error; the spec is always usable.
func Resolve(tag string) (Spec, error) {
	if k, ok := Parse(tag); ok {
		return clone(specs[k]), nil
	}
	return Default(), errors.New(errors.ErrCodeUnknownNodeType, "unknown node type %q, using %s", tag, KindDefault)
}

// Kinds returns every registered kind in a stable order: sources, gates,
// sinks, then the default.
func Kinds() []Kind {
	return slices.Clone(ordered)
}

var ordered = []Kind{
	KindInput,
	KindAnd, KindOr, KindNot, KindNand, KindNor, KindXor, KindXnor,
	KindOutput, KindFileOutput,
	KindDefault,
}

func clone(s Spec) Spec {
	s.Properties = maps.Clone(s.Properties)
	return s
}
