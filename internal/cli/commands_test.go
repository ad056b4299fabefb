package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/logicflow/pkg/config"
	"github.com/matzehuels/logicflow/pkg/errors"
	"github.com/matzehuels/logicflow/pkg/snapshot"
)

// testEnv is a config file whose store and output directories live in a
// temporary directory.
type testEnv struct {
	dir    string
	config string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	t.Setenv(config.EnvStoreBackend, "")
	t.Setenv(config.EnvStoreDSN, "")

	dir := t.TempDir()
	cfg := fmt.Sprintf("[store]\nbackend = %q\ndir = %q\n\n[output]\ndir = %q\n",
		config.BackendDir, filepath.Join(dir, "circuits"), filepath.Join(dir, "out"))
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return testEnv{dir: dir, config: path}
}

// run executes the root command with --config set.
func (e testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(append([]string{"--config", e.config}, args...))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestStoreCommands(t *testing.T) {
	env := newTestEnv(t)
	fx := writeAnd(t, env.dir, "and.json")
	restored := filepath.Join(env.dir, "restored.yaml")

	steps := []struct {
		args []string
		want errors.Code
	}{
		{[]string{"store", "save", "and", fx.path}, ""},
		{[]string{"store", "list"}, ""},
		{[]string{"store", "load", "and", restored}, ""},
		{[]string{"store", "save", "../escape", fx.path}, errors.ErrCodeInvalidInput},
		{[]string{"store", "delete", "and"}, ""},
		{[]string{"store", "delete", "and"}, errors.ErrCodeNotFound},
		{[]string{"store", "load", "and", restored}, errors.ErrCodeNotFound},
	}
	for _, s := range steps {
		err := env.run(t, s.args...)
		if s.want == "" && err != nil {
			t.Fatalf("%v: %v", s.args, err)
		}
		if s.want != "" && !errors.Is(err, s.want) {
			t.Fatalf("%v = %v, want %s", s.args, err, s.want)
		}
	}

	doc, err := snapshot.ReadFile(restored)
	if err != nil {
		t.Fatalf("ReadFile(restored): %v", err)
	}
	if len(doc.Nodes) != 4 || len(doc.Connections) != 3 {
		t.Errorf("restored %d nodes %d connections, want 4 and 3", len(doc.Nodes), len(doc.Connections))
	}
}

func TestConvertCommand(t *testing.T) {
	env := newTestEnv(t)
	fx := writeAnd(t, env.dir, "and.json")

	for _, ext := range []string{".toml", ".yaml"} {
		out := filepath.Join(env.dir, "and"+ext)
		if err := env.run(t, "convert", fx.path, out); err != nil {
			t.Fatalf("convert to %s: %v", ext, err)
		}
		original, _ := snapshot.ReadFile(fx.path)
		converted, err := snapshot.ReadFile(out)
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", out, err)
		}
		if len(converted.Nodes) != len(original.Nodes) || len(converted.Connections) != len(original.Connections) {
			t.Errorf("%s: %d nodes %d connections, want %d and %d", ext,
				len(converted.Nodes), len(converted.Connections), len(original.Nodes), len(original.Connections))
		}
	}

	if err := env.run(t, "convert", filepath.Join(env.dir, "missing.json"), filepath.Join(env.dir, "x.json")); err == nil {
		t.Error("convert of a missing file succeeded")
	}
}

func TestRenderDOTCommand(t *testing.T) {
	env := newTestEnv(t)
	fx := writeAnd(t, env.dir, "and.json")
	out := filepath.Join(env.dir, "and.dot")

	if err := env.run(t, "render", fx.path, "-o", out, "--set", fmt.Sprintf("%d=1", fx.a)); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph circuit {") {
		t.Errorf("render output = %q", data)
	}
}

func TestRenderFormat(t *testing.T) {
	tests := []struct {
		flag, output string
		want         string
		wantErr      bool
	}{
		{"", "", formatSVG, false},
		{"", "out.dot", formatDOT, false},
		{"", "out.PNG", formatPNG, false},
		{"pdf", "out.svg", formatPDF, false},
		{"", "out.txt", "", true},
		{"gif", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.flag+"|"+tt.output, func(t *testing.T) {
			got, err := renderFormat(tt.flag, tt.output)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("renderFormat(%q, %q) = %q, %v; want %q, err %v", tt.flag, tt.output, got, err, tt.want, tt.wantErr)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	if got := outputPath("dir/adder.yaml", formatSVG); got != "dir/adder.svg" {
		t.Errorf("outputPath = %q", got)
	}
}

func TestEvalCommand(t *testing.T) {
	env := newTestEnv(t)
	fx := writeAnd(t, env.dir, "and.json")

	if err := env.run(t, "eval", fx.path, "--set", fmt.Sprintf("%d=1", fx.a), "--write"); err != nil {
		t.Fatalf("eval: %v", err)
	}
	err := env.run(t, "eval", fx.path, "--set", "oops")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("eval --set oops = %v, want INVALID_INPUT", err)
	}
}

func TestInspectCommand(t *testing.T) {
	env := newTestEnv(t)
	fx := writeAnd(t, env.dir, "and.json")
	if err := env.run(t, "inspect", fx.path); err != nil {
		t.Fatalf("inspect: %v", err)
	}
}

func TestConfigInit(t *testing.T) {
	t.Setenv(config.EnvStoreBackend, "")
	path := filepath.Join(t.TempDir(), "logicflow", "config.toml")
	root := func(args ...string) error {
		cmd := New(io.Discard, LogInfo).RootCommand()
		cmd.SetArgs(append([]string{"--config", path}, args...))
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		return cmd.ExecuteContext(context.Background())
	}

	if err := root("config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := config.Load(path); err != nil {
		t.Errorf("Load(written config): %v", err)
	}
	if err := root("config", "init"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("second config init = %v, want INVALID_INPUT", err)
	}
	if err := root("config", "init", "--force"); err != nil {
		t.Errorf("config init --force: %v", err)
	}
}

func TestBadConfig(t *testing.T) {
	env := newTestEnv(t)
	if err := os.WriteFile(env.config, []byte("[store]\nbackend = \"floppy\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := env.run(t, "store", "list"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("store list with bad backend = %v, want INVALID_INPUT", err)
	}
}
