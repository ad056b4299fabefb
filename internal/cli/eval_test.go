package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/logicflow/pkg/circuit"
	"github.com/matzehuels/logicflow/pkg/gate"
	"github.com/matzehuels/logicflow/pkg/sink"
	"github.com/matzehuels/logicflow/pkg/snapshot"
)

func TestEvalFiles(t *testing.T) {
	dir := t.TempDir()
	first := writeAnd(t, dir, "first.json")
	second := writeAnd(t, dir, "second.yaml")

	tests := []struct {
		name   string
		values map[uint64]bool
		want   bool
	}{
		{"stored values", nil, false},
		{"one input", map[uint64]bool{first.a: true}, false},
		{"both inputs", map[uint64]bool{first.a: true, first.b: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := evalFiles(context.Background(), []string{first.path, second.path}, tt.values, nil)
			if err != nil {
				t.Fatalf("evalFiles: %v", err)
			}
			if len(results) != 2 || results[0].Path != first.path || results[1].Path != second.path {
				t.Fatalf("results out of order: %+v", results)
			}
			for _, r := range results {
				if len(r.Sinks) != 1 {
					t.Fatalf("%s: sinks = %d, want 1", r.Path, len(r.Sinks))
				}
				if r.Sinks[0].ID != first.out || r.Sinks[0].Value != tt.want {
					t.Errorf("%s: sink = %+v, want id %d value %v", r.Path, r.Sinks[0], first.out, tt.want)
				}
			}
		})
	}
}

func TestEvalFilesFailsFast(t *testing.T) {
	dir := t.TempDir()
	good := writeAnd(t, dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := evalFiles(context.Background(), []string{good.path, bad}, nil, nil); err == nil {
		t.Error("evalFiles() with a malformed file succeeded")
	}
}

func TestEvalFilesCancelled(t *testing.T) {
	fx := writeAnd(t, t.TempDir(), "and.json")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := evalFiles(ctx, []string{fx.path}, nil, nil); err == nil {
		t.Error("evalFiles() with a cancelled context succeeded")
	}
}

func TestEvalWritesFileOutputs(t *testing.T) {
	dir := t.TempDir()
	g := circuit.New()
	in := g.AddNode(gate.KindInput, circuit.Point{})
	fo := g.AddNode(gate.KindFileOutput, circuit.Point{X: 100})
	if err := g.SetProperty(fo, gate.PropPath, "bits/out.txt"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Connect(in.Output(0), fo.Input(0)); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "file-output.toml")
	if err := snapshot.WriteFile(path, snapshot.Serialize(g)); err != nil {
		t.Fatal(err)
	}

	outDir := filepath.Join(dir, "out")
	obs := &sink.FileWriter{Dir: outDir}
	if _, err := evalFiles(context.Background(), []string{path}, map[uint64]bool{uint64(in.ID()): true}, obs); err != nil {
		t.Fatalf("evalFiles: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "bits", "out.txt"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "1" {
		t.Errorf("output file = %q, want %q", data, "1")
	}
}
