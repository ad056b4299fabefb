package history

import (
	"fmt"
	"reflect"
	"slices"
	"testing"

	"github.com/matzehuels/logicflow/pkg/circuit"
	"github.com/matzehuels/logicflow/pkg/errors"
	"github.com/matzehuels/logicflow/pkg/gate"
)

// observable renders everything a user can see of a graph, keyed by IDs so
// rebuilt instances compare equal.
func observable(g *circuit.Graph) []string {
	var out []string
	for _, n := range g.Nodes() {
		st := n.State()
		out = append(out, fmt.Sprintf("node %d %s %q %v %v in=%v out=%v props=%v",
			st.ID, st.Kind, st.Title, st.Position, st.Value, st.Inputs, st.Outputs, st.Properties))
	}
	for _, c := range g.Connections() {
		out = append(out, fmt.Sprintf("conn %+v", c.State()))
	}
	slices.Sort(out)
	return out
}

// fixture builds Input -> Not -> Output plus a free AND, with the input true.
func fixture(t *testing.T) (*circuit.Graph, map[string]*circuit.Node) {
	t.Helper()
	g := circuit.New()
	nodes := map[string]*circuit.Node{
		"in":  g.AddNode(gate.KindInput, circuit.Point{}),
		"not": g.AddNode(gate.KindNot, circuit.Point{X: 100}),
		"out": g.AddNode(gate.KindFileOutput, circuit.Point{X: 200}),
		"and": g.AddNode(gate.KindAnd, circuit.Point{X: 100, Y: 100}),
	}
	if _, err := g.Connect(nodes["in"].Output(0), nodes["not"].Input(0)); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Connect(nodes["not"].Output(0), nodes["out"].Input(0)); err != nil {
		t.Fatal(err)
	}
	if err := g.SetInputValue(nodes["in"], true); err != nil {
		t.Fatal(err)
	}
	return g, nodes
}

func TestUndoRedoRestoresState(t *testing.T) {
	tests := []struct {
		name string
		cmd  func(g *circuit.Graph, n map[string]*circuit.Node) Command
	}{
		{"AddNode", func(g *circuit.Graph, n map[string]*circuit.Node) Command {
			return NewAddNode(gate.KindXor, circuit.Point{X: 5, Y: 5})
		}},
		{"AddNodeFrom", func(g *circuit.Graph, n map[string]*circuit.Node) Command {
			return NewAddNodeFrom(n["not"].State())
		}},
		{"RemoveMiddle", func(g *circuit.Graph, n map[string]*circuit.Node) Command {
			return NewRemoveNode(n["not"])
		}},
		{"RemoveSource", func(g *circuit.Graph, n map[string]*circuit.Node) Command {
			return NewRemoveNode(n["in"])
		}},
		{"Connect", func(g *circuit.Graph, n map[string]*circuit.Node) Command {
			return NewConnect(n["in"].Output(0), n["and"].Input(1))
		}},
		{"ConnectReversed", func(g *circuit.Graph, n map[string]*circuit.Node) Command {
			return NewConnect(n["and"].Input(0), n["not"].Output(0))
		}},
		{"Disconnect", func(g *circuit.Graph, n map[string]*circuit.Node) Command {
			return NewDisconnect(n["not"].Output(0).Connections()[0])
		}},
		{"Move", func(g *circuit.Graph, n map[string]*circuit.Node) Command {
			return NewMoveNode(n["and"], circuit.Point{X: -3, Y: 7})
		}},
		{"SetTitle", func(g *circuit.Graph, n map[string]*circuit.Node) Command {
			return NewSetTitle(n["and"], "gate 1")
		}},
		{"SetProperty", func(g *circuit.Graph, n map[string]*circuit.Node) Command {
			return NewSetProperty(n["out"], gate.PropPath, "other.txt")
		}},
		{"SetNewProperty", func(g *circuit.Graph, n map[string]*circuit.Node) Command {
			return NewSetProperty(n["and"], "color", "red")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, nodes := fixture(t)
			s := NewStack(0)
			before := observable(g)

			if err := s.Push(g, tt.cmd(g, nodes)); err != nil {
				t.Fatalf("Push: %v", err)
			}
			after := observable(g)
			if reflect.DeepEqual(before, after) {
				t.Fatal("command had no observable effect")
			}

			if err := s.Undo(g); err != nil {
				t.Fatalf("Undo: %v", err)
			}
			if got := observable(g); !reflect.DeepEqual(got, before) {
				t.Errorf("after Undo:\n got %v\nwant %v", got, before)
			}

			if err := s.Redo(g); err != nil {
				t.Fatalf("Redo: %v", err)
			}
			if got := observable(g); !reflect.DeepEqual(got, after) {
				t.Errorf("after Redo:\n got %v\nwant %v", got, after)
			}
		})
	}
}

func TestRemoveUndoRebuildsInstances(t *testing.T) {
	g, nodes := fixture(t)
	s := NewStack(0)
	old := nodes["not"]

	if err := s.Push(g, NewRemoveNode(old)); err != nil {
		t.Fatal(err)
	}
	if err := s.Undo(g); err != nil {
		t.Fatal(err)
	}
	rebuilt, ok := g.Node(old.ID())
	if !ok {
		t.Fatal("node not restored under its ID")
	}
	if rebuilt == old {
		t.Error("undo reused the removed instance")
	}
	if old.Live() {
		t.Error("old instance reports live after undo")
	}
	if g.ConnectionCount() != 2 {
		t.Errorf("ConnectionCount() = %d, want 2", g.ConnectionCount())
	}
}

func TestChainedUndoAcrossRebuild(t *testing.T) {
	g := circuit.New()
	s := NewStack(0)

	add := NewAddNode(gate.KindNot, circuit.Point{})
	s.Push(g, add)
	n, _ := g.Node(add.NodeID())
	s.Push(g, NewMoveNode(n, circuit.Point{X: 50}))
	s.Push(g, NewRemoveNode(n))

	// Undo all three; each step works on the rebuilt instance by ID.
	for i := 0; i < 3; i++ {
		if err := s.Undo(g); err != nil {
			t.Fatalf("Undo %d: %v", i, err)
		}
	}
	if g.NodeCount() != 0 {
		t.Errorf("NodeCount() = %d, want 0", g.NodeCount())
	}
	for i := 0; i < 3; i++ {
		if err := s.Redo(g); err != nil {
			t.Fatalf("Redo %d: %v", i, err)
		}
	}
	if g.NodeCount() != 0 {
		t.Errorf("NodeCount() after redo = %d, want 0", g.NodeCount())
	}
	s.Undo(g)
	restored, ok := g.Node(add.NodeID())
	if !ok || restored.Position() != (circuit.Point{X: 50}) {
		t.Errorf("restored node = %v, ok=%v", restored, ok)
	}
}

func TestStackLinear(t *testing.T) {
	g := circuit.New()
	s := NewStack(0)

	if err := s.Undo(g); !errors.Is(err, errors.ErrCodeNothingToUndo) {
		t.Errorf("Undo on empty = %v, want NOTHING_TO_UNDO", err)
	}
	if err := s.Redo(g); !errors.Is(err, errors.ErrCodeNothingToRedo) {
		t.Errorf("Redo on empty = %v, want NOTHING_TO_REDO", err)
	}

	s.Push(g, NewAddNode(gate.KindAnd, circuit.Point{}))
	s.Push(g, NewAddNode(gate.KindOr, circuit.Point{}))
	s.Undo(g)
	if !s.CanRedo() || s.RedoName() != "add Or" {
		t.Errorf("RedoName() = %q", s.RedoName())
	}

	s.Push(g, NewAddNode(gate.KindXor, circuit.Point{}))
	if s.CanRedo() {
		t.Error("push did not discard the redo tail")
	}
	if s.Len() != 2 || s.Cursor() != 2 {
		t.Errorf("Len/Cursor = %d/%d, want 2/2", s.Len(), s.Cursor())
	}
	if s.UndoName() != "add Xor" {
		t.Errorf("UndoName() = %q", s.UndoName())
	}
}

func TestStackLimit(t *testing.T) {
	g := circuit.New()
	s := NewStack(2)
	for i := 0; i < 5; i++ {
		s.Push(g, NewAddNode(gate.KindAnd, circuit.Point{X: float64(i)}))
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	s.Undo(g)
	s.Undo(g)
	if s.CanUndo() {
		t.Error("CanUndo() = true past the limit")
	}
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", g.NodeCount())
	}
}

func TestFailedPushNotRecorded(t *testing.T) {
	g := circuit.New()
	s := NewStack(0)
	a := g.AddNode(gate.KindInput, circuit.Point{})
	b := g.AddNode(gate.KindInput, circuit.Point{})

	err := s.Push(g, NewConnect(a.Output(0), b.Output(0)))
	if !errors.Is(err, errors.ErrCodeInvalidDirection) {
		t.Fatalf("Push error = %v, want INVALID_DIRECTION", err)
	}
	if s.Len() != 0 || g.ConnectionCount() != 0 {
		t.Error("failed command left traces")
	}
}

func TestConnectUndoRestoresDownstream(t *testing.T) {
	g := circuit.New()
	s := NewStack(0)
	in := g.AddNode(gate.KindInput, circuit.Point{})
	not := g.AddNode(gate.KindNot, circuit.Point{})
	out := g.AddNode(gate.KindOutput, circuit.Point{})
	g.Connect(not.Output(0), out.Input(0))
	g.SetInputValue(in, true)

	if !out.Value() {
		t.Fatal("setup: NOT(false) should reach output as true")
	}
	s.Push(g, NewConnect(in.Output(0), not.Input(0)))
	if out.Value() {
		t.Fatal("connect did not propagate")
	}
	s.Undo(g)
	if !out.Value() || not.Input(0).Value() {
		t.Error("undo of connect left propagated values behind")
	}
}
