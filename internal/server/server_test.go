package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/logicflow/pkg/editor"
	"github.com/matzehuels/logicflow/pkg/errors"
	"github.com/matzehuels/logicflow/pkg/snapshot"
	"github.com/matzehuels/logicflow/pkg/store"
)

type client struct {
	t   *testing.T
	srv *httptest.Server
}

func newClient(t *testing.T, opts ...Option) *client {
	t.Helper()
	srv := httptest.NewServer(New(editor.New(), opts...).Handler())
	t.Cleanup(srv.Close)
	return &client{t: t, srv: srv}
}

// do sends body as JSON and decodes the response into out when non-nil.
func (c *client) do(method, path string, body, out any) int {
	c.t.Helper()
	var r *bytes.Reader
	if s, ok := body.(string); ok {
		r = bytes.NewReader([]byte(s))
	} else if body != nil {
		data, _ := json.Marshal(body)
		r = bytes.NewReader(data)
	} else {
		r = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, c.srv.URL+path, r)
	if err != nil {
		c.t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func (c *client) createNode(typ string, x float64) snapshot.Node {
	c.t.Helper()
	var n snapshot.Node
	if code := c.do("POST", "/nodes", createNodeRequest{Type: typ, X: x}, &n); code != http.StatusCreated {
		c.t.Fatalf("POST /nodes %s = %d", typ, code)
	}
	return n
}

func (c *client) connect(from, to uint64, outIdx, inIdx int) (snapshot.Connection, int) {
	c.t.Helper()
	var conn snapshot.Connection
	code := c.do("POST", "/connections", createConnectionRequest{
		StartNode: from, StartSocket: outIdx, EndNode: to, EndSocket: inIdx,
	}, &conn)
	return conn, code
}

func findNode(doc snapshot.Document, id uint64) snapshot.Node {
	for _, n := range doc.Nodes {
		if n.ID == id {
			return n
		}
	}
	return snapshot.Node{}
}

func TestHealthz(t *testing.T) {
	c := newClient(t)
	var body map[string]string
	if code := c.do("GET", "/healthz", nil, &body); code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("GET /healthz = %d %v", code, body)
	}
}

func TestAndScenarioOverHTTP(t *testing.T) {
	c := newClient(t)
	a := c.createNode("Input", 0)
	b := c.createNode("Input", 0)
	and := c.createNode("And", 100)
	out := c.createNode("Output", 200)
	for _, pair := range [][3]uint64{{a.ID, and.ID, 0}, {b.ID, and.ID, 1}, {and.ID, out.ID, 0}} {
		if _, code := c.connect(pair[0], pair[1], 0, int(pair[2])); code != http.StatusCreated {
			t.Fatalf("connect %v = %d", pair, code)
		}
	}

	steps := []struct {
		id   uint64
		v    bool
		want bool
	}{
		{a.ID, true, false},
		{b.ID, true, true},
		{a.ID, false, false},
	}
	for _, s := range steps {
		var doc snapshot.Document
		if code := c.do("PUT", fmt.Sprintf("/nodes/%d/value", s.id), setValueRequest{Value: s.v}, &doc); code != http.StatusOK {
			t.Fatalf("PUT value = %d", code)
		}
		if got := findNode(doc, out.ID).Inputs[0].Value; got != s.want {
			t.Errorf("after %d=%v output = %v, want %v", s.id, s.v, got, s.want)
		}
	}
}

func TestErrorStatus(t *testing.T) {
	c := newClient(t)
	in := c.createNode("Input", 0)
	not := c.createNode("Not", 100)
	if _, code := c.connect(in.ID, not.ID, 0, 0); code != http.StatusCreated {
		t.Fatalf("connect = %d", code)
	}

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
		wantCode   errors.Code
	}{
		{"FanIn", "POST", "/connections", createConnectionRequest{StartNode: in.ID, EndNode: not.ID}, 409, errors.ErrCodeFanIn},
		{"MissingNode", "DELETE", "/nodes/99", nil, 404, errors.ErrCodeNotFound},
		{"BadID", "DELETE", "/nodes/abc", nil, 400, errors.ErrCodeInvalidInput},
		{"MissingConnection", "DELETE", "/connections/99", nil, 404, errors.ErrCodeNotFound},
		{"UnknownType", "POST", "/nodes", createNodeRequest{Type: "Flux"}, 400, errors.ErrCodeUnknownNodeType},
		{"BadBody", "POST", "/nodes", "{", 400, errors.ErrCodeInvalidInput},
		{"NotAnInput", "PUT", fmt.Sprintf("/nodes/%d/value", not.ID), setValueRequest{Value: true}, 409, errors.ErrCodeInvalidNodeKind},
		{"Malformed", "PUT", "/circuit", snapshot.Document{Nodes: []snapshot.Node{{ID: 1}}}, 400, errors.ErrCodeMalformedSnapshot},
		{"NothingToRedo", "POST", "/redo", nil, 409, errors.ErrCodeNothingToRedo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp errorResponse
			status := c.do(tt.method, tt.path, tt.body, &resp)
			if status != tt.wantStatus || resp.Code != tt.wantCode {
				t.Errorf("%s %s = %d %s, want %d %s", tt.method, tt.path, status, resp.Code, tt.wantStatus, tt.wantCode)
			}
			if resp.Message == "" {
				t.Errorf("empty message")
			}
		})
	}
}

func TestUndoRedo(t *testing.T) {
	c := newClient(t)
	n := c.createNode("Xor", 0)

	var doc snapshot.Document
	if code := c.do("POST", "/undo", nil, &doc); code != http.StatusOK || len(doc.Nodes) != 0 {
		t.Fatalf("undo = %d, %d nodes", code, len(doc.Nodes))
	}
	if code := c.do("POST", "/redo", nil, &doc); code != http.StatusOK || len(doc.Nodes) != 1 {
		t.Fatalf("redo = %d, %d nodes", code, len(doc.Nodes))
	}
	if doc.Nodes[0].ID != n.ID {
		t.Errorf("redo gave id %d, want %d", doc.Nodes[0].ID, n.ID)
	}
}

func TestMoveAndDelete(t *testing.T) {
	c := newClient(t)
	n := c.createNode("Or", 0)

	var moved snapshot.Node
	if code := c.do("PATCH", fmt.Sprintf("/nodes/%d", n.ID), moveNodeRequest{X: 7, Y: 8}, &moved); code != http.StatusOK {
		t.Fatalf("PATCH = %d", code)
	}
	if moved.PosX != 7 || moved.PosY != 8 {
		t.Errorf("moved to %v,%v", moved.PosX, moved.PosY)
	}
	if code := c.do("DELETE", fmt.Sprintf("/nodes/%d", n.ID), nil, nil); code != http.StatusNoContent {
		t.Errorf("DELETE = %d", code)
	}
}

func TestPutCircuit(t *testing.T) {
	c := newClient(t)
	doc := snapshot.Document{
		Nodes: []snapshot.Node{
			{ID: 10, Type: "Input", Value: true},
			{ID: 20, Type: "NotNode"},
			{ID: 30, Type: "Mystery"},
		},
		Connections: []snapshot.Connection{
			{ID: 40, StartNode: 10, EndNode: 20},
			{ID: 41, StartNode: 10, EndNode: 99},
		},
	}
	var resp loadResponse
	if code := c.do("PUT", "/circuit", doc, &resp); code != http.StatusOK {
		t.Fatalf("PUT /circuit = %d", code)
	}
	if resp.Nodes != 3 || len(resp.Warnings) != 2 {
		t.Errorf("load = %+v, want 3 nodes and 2 warnings", resp)
	}

	var got snapshot.Document
	c.do("GET", "/circuit", nil, &got)
	if len(got.Nodes) != 3 || len(got.Connections) != 1 {
		t.Errorf("GET /circuit = %d nodes, %d connections", len(got.Nodes), len(got.Connections))
	}
}

func TestDOT(t *testing.T) {
	c := newClient(t)
	c.createNode("And", 0)

	resp, err := http.Get(c.srv.URL + "/circuit.dot")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	if !strings.HasPrefix(buf.String(), "digraph circuit {") {
		t.Errorf("GET /circuit.dot = %q", buf.String())
	}
}

func TestStoredCircuits(t *testing.T) {
	st, err := store.NewDirStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := newClient(t, WithStore(st))
	c.createNode("Nand", 0)

	if code := c.do("PUT", "/circuits/nand", nil, nil); code != http.StatusNoContent {
		t.Fatalf("save = %d", code)
	}
	var names []string
	c.do("GET", "/circuits", nil, &names)
	if len(names) != 1 || names[0] != "nand" {
		t.Errorf("names = %v", names)
	}

	c.do("POST", "/undo", nil, nil)
	var resp loadResponse
	if code := c.do("POST", "/circuits/nand/open", nil, &resp); code != http.StatusOK || resp.Nodes != 1 {
		t.Errorf("open = %d %+v", code, resp)
	}

	var e errorResponse
	if code := c.do("POST", "/circuits/missing/open", nil, &e); code != http.StatusNotFound {
		t.Errorf("open missing = %d %+v", code, e)
	}
}

func TestStoreRoutesDisabled(t *testing.T) {
	c := newClient(t)
	if code := c.do("GET", "/circuits", nil, nil); code != http.StatusNotFound {
		t.Errorf("GET /circuits without store = %d", code)
	}
}

func TestConcurrentRequests(t *testing.T) {
	c := newClient(t)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, _ := json.Marshal(createNodeRequest{Type: "Input", X: float64(i)})
			resp, err := http.Post(c.srv.URL+"/nodes", "application/json", bytes.NewReader(body))
			if err == nil {
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	var doc snapshot.Document
	c.do("GET", "/circuit", nil, &doc)
	if len(doc.Nodes) != 20 {
		t.Errorf("nodes = %d, want 20", len(doc.Nodes))
	}
	seen := map[uint64]bool{}
	for _, n := range doc.Nodes {
		if seen[n.ID] {
			t.Errorf("duplicate id %d", n.ID)
		}
		seen[n.ID] = true
	}
}
