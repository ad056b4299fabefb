package circuit

import "github.com/matzehuels/logicflow/pkg/errors"

// Propagate recomputes n and pushes the result through everything downstream
// of it.
func (g *Graph) Propagate(n *Node) error {
	if !g.owns(n) {
		return errors.New(errors.ErrCodeNotFound, "node %v is not part of the graph", nodeID(n))
	}
	g.recompute(n)
	return nil
}

// PropagateAll recomputes the whole graph by propagating from every node
// that has no connected input. In an acyclic graph every node lies
// downstream of at least one such root.
func (g *Graph) PropagateAll() {
	for _, n := range g.Nodes() {
		if !hasConnectedInput(n) {
			g.recompute(n)
		}
	}
}

func hasConnectedInput(n *Node) bool {
	for _, s := range n.inputs {
		if len(s.conns) > 0 {
			return true
		}
	}
	return false
}

// recompute evaluates n, writes the result to its outputs and continues
// depth-first into every destination node. Sinks stop the walk and notify
// the observer.
func (g *Graph) recompute(n *Node) {
	if n.sink {
		if g.observer != nil {
			g.observer.OutputChanged(n, n.Value())
		}
		return
	}
	v := n.evaluate()
	for _, out := range n.outputs {
		out.value = v
		for _, c := range out.conns {
			c.to.value = v
			g.recompute(c.to.node)
		}
	}
}
