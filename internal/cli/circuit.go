package cli

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/logicflow/pkg/circuit"
	"github.com/matzehuels/logicflow/pkg/errors"
	"github.com/matzehuels/logicflow/pkg/snapshot"
)

// loaded is a circuit file rebuilt into a graph of its own.
//
// Deserialization assigns fresh IDs, so loaded keeps the mapping back to the
// IDs written in the file. Users refer to nodes by the file's IDs.
type loaded struct {
	path     string
	graph    *circuit.Graph
	warnings []error

	byDocID map[uint64]*circuit.Node
	docIDs  map[circuit.ID]uint64
}

// loadCircuit reads path and rebuilds it. obs may be nil.
func loadCircuit(path string, obs circuit.Observer) (*loaded, error) {
	doc, err := snapshot.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g := circuit.New(circuit.WithObserver(obs))
	frag, err := snapshot.Deserialize(g, doc, circuit.Point{})
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}

	l := &loaded{
		path:     path,
		graph:    g,
		warnings: frag.Warnings,
		byDocID:  make(map[uint64]*circuit.Node, len(frag.Nodes)),
		docIDs:   make(map[circuit.ID]uint64, len(frag.Nodes)),
	}
	for i, n := range frag.Nodes {
		l.byDocID[doc.Nodes[i].ID] = n
		l.docIDs[n.ID()] = doc.Nodes[i].ID
	}
	return l, nil
}

// docID returns the file ID of n.
func (l *loaded) docID(n *circuit.Node) uint64 {
	return l.docIDs[n.ID()]
}

// apply sets Input values by file ID in ascending ID order.
func (l *loaded) apply(values map[uint64]bool) error {
	for _, id := range slices.Sorted(maps.Keys(values)) {
		n, ok := l.byDocID[id]
		if !ok {
			return errors.New(errors.ErrCodeNotFound, "%s: no node with id %d", l.path, id)
		}
		if err := l.graph.SetInputValue(n, values[id]); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "%s: set %d", l.path, id)
		}
	}
	return nil
}

// parseAssignments parses --set flags of the form ID=VALUE, where VALUE is
// anything strconv.ParseBool accepts. Later assignments win.
func parseAssignments(args []string) (map[uint64]bool, error) {
	values := make(map[uint64]bool, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid assignment %q (want ID=0|1)", arg)
		}
		id, err := strconv.ParseUint(strings.TrimSpace(key), 10, 64)
		if err != nil || id == 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid node id %q", key)
		}
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid value %q for node %d", raw, id)
		}
		values[id] = v
	}
	return values, nil
}
