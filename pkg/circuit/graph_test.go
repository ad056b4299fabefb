package circuit

import (
	"testing"

	"github.com/matzehuels/logicflow/pkg/errors"
	"github.com/matzehuels/logicflow/pkg/gate"
)

func mustConnect(t *testing.T, g *Graph, a, b *Socket) *Connection {
	t.Helper()
	c, err := g.Connect(a, b)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return c
}

func TestAddNode(t *testing.T) {
	tests := []struct {
		kind        gate.Kind
		wantKind    gate.Kind
		wantInputs  int
		wantOutputs int
	}{
		{gate.KindInput, gate.KindInput, 0, 1},
		{gate.KindOutput, gate.KindOutput, 1, 0},
		{gate.KindFileOutput, gate.KindFileOutput, 1, 0},
		{gate.KindAnd, gate.KindAnd, 2, 1},
		{gate.KindNot, gate.KindNot, 1, 1},
		{"flipflop", gate.KindDefault, 1, 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			g := New()
			n := g.AddNode(tt.kind, Point{X: 10, Y: 20})

			if n.Kind() != tt.wantKind {
				t.Errorf("Kind() = %s, want %s", n.Kind(), tt.wantKind)
			}
			if len(n.Inputs()) != tt.wantInputs || len(n.Outputs()) != tt.wantOutputs {
				t.Errorf("sockets = %d/%d, want %d/%d", len(n.Inputs()), len(n.Outputs()), tt.wantInputs, tt.wantOutputs)
			}
			if n.Position() != (Point{X: 10, Y: 20}) {
				t.Errorf("Position() = %v", n.Position())
			}
			if !n.Live() {
				t.Error("new node should be live")
			}
			for i, s := range n.Inputs() {
				if s.Index() != i || s.Direction() != Input || s.Node() != n {
					t.Errorf("input %d malformed: index=%d dir=%s", i, s.Index(), s.Direction())
				}
			}
		})
	}
}

func TestIDsUniqueAndNeverReused(t *testing.T) {
	g := New()
	seen := map[ID]bool{}
	record := func(id ID) {
		if id == 0 {
			t.Fatal("zero ID handed out")
		}
		if seen[id] {
			t.Fatalf("ID %d handed out twice", id)
		}
		seen[id] = true
	}

	a := g.AddNode(gate.KindInput, Point{})
	b := g.AddNode(gate.KindNot, Point{})
	c := mustConnect(t, g, a.Output(0), b.Input(0))
	for _, n := range []*Node{a, b} {
		record(n.ID())
		for _, s := range append(n.Inputs(), n.Outputs()...) {
			record(s.ID())
		}
	}
	record(c.ID())

	if err := g.RemoveNode(b); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	d := g.AddNode(gate.KindNot, Point{})
	record(d.ID())
}

func TestRemoveNodeRemovesConnections(t *testing.T) {
	g := New()
	in := g.AddNode(gate.KindInput, Point{})
	not := g.AddNode(gate.KindNot, Point{})
	out := g.AddNode(gate.KindOutput, Point{})
	mustConnect(t, g, in.Output(0), not.Input(0))
	mustConnect(t, g, not.Output(0), out.Input(0))

	if err := g.RemoveNode(not); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", g.NodeCount())
	}
	if g.ConnectionCount() != 0 {
		t.Errorf("ConnectionCount() = %d, want 0", g.ConnectionCount())
	}
	if in.Output(0).Connected() || out.Input(0).Connected() {
		t.Error("surviving sockets still reference removed connections")
	}
	if not.Live() {
		t.Error("removed node still reports live")
	}

	err := g.RemoveNode(not)
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("second RemoveNode error = %v, want NOT_FOUND", err)
	}
}

func TestConnectErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(g *Graph) (*Socket, *Socket)
		want  errors.Code
	}{
		{
			name: "OutputToOutput",
			setup: func(g *Graph) (*Socket, *Socket) {
				a := g.AddNode(gate.KindInput, Point{})
				b := g.AddNode(gate.KindInput, Point{})
				return a.Output(0), b.Output(0)
			},
			want: errors.ErrCodeInvalidDirection,
		},
		{
			name: "InputToInput",
			setup: func(g *Graph) (*Socket, *Socket) {
				a := g.AddNode(gate.KindAnd, Point{})
				return a.Input(0), a.Input(1)
			},
			want: errors.ErrCodeInvalidDirection,
		},
		{
			name: "SelfLoop",
			setup: func(g *Graph) (*Socket, *Socket) {
				n := g.AddNode(gate.KindNot, Point{})
				return n.Output(0), n.Input(0)
			},
			want: errors.ErrCodeCycle,
		},
		{
			name: "LongCycle",
			setup: func(g *Graph) (*Socket, *Socket) {
				a := g.AddNode(gate.KindNot, Point{})
				b := g.AddNode(gate.KindNot, Point{})
				c := g.AddNode(gate.KindNot, Point{})
				g.Connect(a.Output(0), b.Input(0))
				g.Connect(b.Output(0), c.Input(0))
				return c.Output(0), a.Input(0)
			},
			want: errors.ErrCodeCycle,
		},
		{
			name: "RemovedNode",
			setup: func(g *Graph) (*Socket, *Socket) {
				a := g.AddNode(gate.KindInput, Point{})
				b := g.AddNode(gate.KindNot, Point{})
				g.RemoveNode(b)
				return a.Output(0), b.Input(0)
			},
			want: errors.ErrCodeNotFound,
		},
		{
			name: "Nil",
			setup: func(g *Graph) (*Socket, *Socket) {
				a := g.AddNode(gate.KindOutput, Point{})
				return nil, a.Input(0)
			},
			want: errors.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			a, b := tt.setup(g)
			before := g.ConnectionCount()

			c, err := g.Connect(a, b)
			if c != nil {
				t.Error("Connect returned a connection on failure")
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Connect error = %v, want %s", err, tt.want)
			}
			if g.ConnectionCount() != before {
				t.Errorf("ConnectionCount() = %d, want %d", g.ConnectionCount(), before)
			}
		})
	}
}

func TestConnectFanIn(t *testing.T) {
	g := New()
	a := g.AddNode(gate.KindInput, Point{})
	b := g.AddNode(gate.KindInput, Point{})
	out := g.AddNode(gate.KindOutput, Point{})

	c1 := mustConnect(t, g, a.Output(0), out.Input(0))
	_, err := g.Connect(b.Output(0), out.Input(0))
	if !errors.Is(err, errors.ErrCodeFanIn) {
		t.Fatalf("Connect error = %v, want FAN_IN_VIOLATION", err)
	}

	conns := out.Input(0).Connections()
	if len(conns) != 1 || conns[0] != c1 {
		t.Errorf("input connections = %v, want only the first connection", conns)
	}
	if got, ok := g.Connection(c1.ID()); !ok || got != c1 {
		t.Error("first connection no longer live")
	}
}

func TestConnectEitherOrder(t *testing.T) {
	g := New()
	in := g.AddNode(gate.KindInput, Point{})
	out := g.AddNode(gate.KindOutput, Point{})

	c := mustConnect(t, g, out.Input(0), in.Output(0))
	if c.From() != in.Output(0) || c.To() != out.Input(0) {
		t.Error("connection endpoints not normalized to output -> input")
	}
}

func TestOutputFanOut(t *testing.T) {
	g := New()
	in := g.AddNode(gate.KindInput, Point{})
	outs := []*Node{
		g.AddNode(gate.KindOutput, Point{}),
		g.AddNode(gate.KindOutput, Point{}),
		g.AddNode(gate.KindOutput, Point{}),
	}
	for _, o := range outs {
		mustConnect(t, g, in.Output(0), o.Input(0))
	}
	if err := g.SetInputValue(in, true); err != nil {
		t.Fatalf("SetInputValue: %v", err)
	}
	for i, o := range outs {
		if !o.Value() {
			t.Errorf("output %d = false, want true", i)
		}
	}
}

func TestDisconnectKeepsStaleValue(t *testing.T) {
	g := New()
	in := g.AddNode(gate.KindInput, Point{})
	out := g.AddNode(gate.KindOutput, Point{})
	c := mustConnect(t, g, in.Output(0), out.Input(0))
	g.SetInputValue(in, true)

	if err := g.Disconnect(c); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if !out.Input(0).Value() {
		t.Error("destination socket reset on disconnect, want stale true")
	}
	if err := g.Disconnect(c); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("second Disconnect error = %v, want NOT_FOUND", err)
	}
}

func TestSetInputValueRejectsNonInput(t *testing.T) {
	g := New()
	n := g.AddNode(gate.KindAnd, Point{})
	if err := g.SetInputValue(n, true); !errors.Is(err, errors.ErrCodeInvalidNodeKind) {
		t.Errorf("SetInputValue error = %v, want INVALID_NODE_KIND", err)
	}
}

func TestNodeEdits(t *testing.T) {
	g := New()
	n := g.AddNode(gate.KindFileOutput, Point{})

	if p, _ := n.Property(gate.PropPath); p != gate.DefaultOutputPath {
		t.Errorf("default path = %q, want %q", p, gate.DefaultOutputPath)
	}
	if err := g.MoveNode(n, Point{X: 5, Y: 6}); err != nil {
		t.Fatal(err)
	}
	if err := g.SetTitle(n, "result"); err != nil {
		t.Fatal(err)
	}
	if err := g.SetProperty(n, gate.PropPath, "out/a.txt"); err != nil {
		t.Fatal(err)
	}
	if n.Position() != (Point{X: 5, Y: 6}) || n.Title() != "result" {
		t.Errorf("edits not applied: pos=%v title=%q", n.Position(), n.Title())
	}
	if p, _ := n.Property(gate.PropPath); p != "out/a.txt" {
		t.Errorf("path = %q", p)
	}

	g.RemoveNode(n)
	if err := g.MoveNode(n, Point{}); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("MoveNode on removed node = %v, want NOT_FOUND", err)
	}
}

func TestClearKeepsCounter(t *testing.T) {
	g := New()
	a := g.AddNode(gate.KindInput, Point{})
	last := g.LastID()
	g.Clear()

	if g.NodeCount() != 0 || g.ConnectionCount() != 0 {
		t.Error("Clear left nodes or connections behind")
	}
	if a.Live() {
		t.Error("cleared node still live")
	}
	b := g.AddNode(gate.KindInput, Point{})
	if b.ID() <= last {
		t.Errorf("ID after Clear = %d, want > %d", b.ID(), last)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	g := New()
	in := g.AddNode(gate.KindInput, Point{X: 1})
	not := g.AddNode(gate.KindNot, Point{X: 2})
	c := mustConnect(t, g, in.Output(0), not.Input(0))
	g.SetInputValue(in, true)
	g.SetTitle(not, "inverter")

	nodeState := not.State()
	connState := c.State()
	g.RemoveNode(not)

	restored, err := g.RestoreNode(nodeState)
	if err != nil {
		t.Fatalf("RestoreNode: %v", err)
	}
	if restored == not {
		t.Error("RestoreNode returned the original instance")
	}
	if restored.ID() != not.ID() || restored.Title() != "inverter" || restored.Position() != not.Position() {
		t.Errorf("restored node = %v at %v", restored, restored.Position())
	}
	if restored.Input(0).ID() != not.Input(0).ID() {
		t.Error("socket IDs not restored")
	}

	rc, err := g.RestoreConnection(connState)
	if err != nil {
		t.Fatalf("RestoreConnection: %v", err)
	}
	if rc.ID() != c.ID() {
		t.Errorf("connection ID = %d, want %d", rc.ID(), c.ID())
	}
	if restored.Output(0).Value() {
		t.Error("restored NOT output = true, want false after propagation")
	}

	if _, err := g.RestoreNode(nodeState); !errors.Is(err, errors.ErrCodeDuplicateID) {
		t.Errorf("duplicate RestoreNode error = %v, want DUPLICATE_ID", err)
	}
}

func TestRestoreUnknownKind(t *testing.T) {
	g := New()
	n, err := g.RestoreNode(NodeState{Kind: "flipflop", Title: "ff"})
	if !errors.Is(err, errors.ErrCodeUnknownNodeType) {
		t.Errorf("error = %v, want UNKNOWN_NODE_TYPE", err)
	}
	if n == nil || n.Kind() != gate.KindDefault || n.Title() != "ff" {
		t.Errorf("substituted node = %v", n)
	}
}

func TestRestoreBumpsCounter(t *testing.T) {
	g := New()
	if _, err := g.RestoreNode(NodeState{ID: 100, Kind: gate.KindInput}); err != nil {
		t.Fatal(err)
	}
	n := g.AddNode(gate.KindInput, Point{})
	if n.ID() <= 100 {
		t.Errorf("ID after restore = %d, want > 100", n.ID())
	}
}
