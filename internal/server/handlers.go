package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/logicflow/pkg/circuit"
	"github.com/matzehuels/logicflow/pkg/errors"
	"github.com/matzehuels/logicflow/pkg/render"
	"github.com/matzehuels/logicflow/pkg/snapshot"
)

type createNodeRequest struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type moveNodeRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type setValueRequest struct {
	Value bool `json:"value"`
}

type createConnectionRequest struct {
	StartNode   uint64 `json:"start_node"`
	StartSocket int    `json:"start_socket"`
	EndNode     uint64 `json:"end_node"`
	EndSocket   int    `json:"end_socket"`
}

type loadResponse struct {
	Nodes    int      `json:"nodes"`
	Warnings []string `json:"warnings"`
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// =============================================================================
// Circuit
// =============================================================================

func (s *Server) getCircuit(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.ed.Serialize(false))
}

func (s *Server) putCircuit(w http.ResponseWriter, r *http.Request) {
	var doc snapshot.Document
	if !decodeBody(w, r, &doc) {
		return
	}
	frag, err := s.ed.Load(doc)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, fragmentResponse(frag))
}

func (s *Server) getDOT(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.Write([]byte(render.ToDOT(s.ed.Graph(), render.Options{})))
}

func (s *Server) getSVG(w http.ResponseWriter, r *http.Request) {
	detailed := r.URL.Query().Get("detailed") == "true"
	svg, err := render.RenderSVG(render.ToDOT(s.ed.Graph(), render.Options{Detailed: detailed}))
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

// =============================================================================
// Nodes and connections
// =============================================================================

func (s *Server) createNode(w http.ResponseWriter, r *http.Request) {
	var req createNodeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	n, err := s.ed.CreateNode(req.Type, circuit.Point{X: req.X, Y: req.Y})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, snapshot.NodeRecord(n))
}

func (s *Server) moveNode(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req moveNodeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.ed.MoveNode(id, circuit.Point{X: req.X, Y: req.Y}); err != nil {
		respondError(w, err)
		return
	}
	n, _ := s.ed.Graph().Node(id)
	respondJSON(w, http.StatusOK, snapshot.NodeRecord(n))
}

func (s *Server) deleteNode(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := s.ed.RemoveNode(id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setValue(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req setValueRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.ed.SetInputValue(id, req.Value); err != nil {
		respondError(w, err)
		return
	}
	// Downstream values changed too, so return the whole circuit.
	respondJSON(w, http.StatusOK, s.ed.Serialize(false))
}

func (s *Server) createConnection(w http.ResponseWriter, r *http.Request) {
	var req createConnectionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := s.ed.Connect(circuit.ID(req.StartNode), req.StartSocket, circuit.ID(req.EndNode), req.EndSocket)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, snapshot.ConnectionRecord(c))
}

func (s *Server) deleteConnection(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := s.ed.Disconnect(id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) undo(w http.ResponseWriter, _ *http.Request) {
	if err := s.ed.Undo(); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.ed.Serialize(false))
}

func (s *Server) redo(w http.ResponseWriter, _ *http.Request) {
	if err := s.ed.Redo(); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.ed.Serialize(false))
}

// =============================================================================
// Stored circuits
// =============================================================================

func (s *Server) listStored(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	respondJSON(w, http.StatusOK, names)
}

func (s *Server) saveStored(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.ed.SaveTo(r.Context(), s.store, name); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) openStored(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	frag, err := s.ed.OpenFrom(r.Context(), s.store, name)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, fragmentResponse(frag))
}

// =============================================================================
// Helpers
// =============================================================================

func fragmentResponse(frag *snapshot.Fragment) loadResponse {
	resp := loadResponse{Nodes: len(frag.Nodes), Warnings: []string{}}
	for _, w := range frag.Warnings {
		resp.Warnings = append(resp.Warnings, w.Error())
	}
	return resp
}

func idParam(w http.ResponseWriter, r *http.Request) (circuit.ID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(w, errors.New(errors.ErrCodeInvalidInput, "invalid id %q", raw))
		return 0, false
	}
	return circuit.ID(id), true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 8<<20))
	if err := dec.Decode(v); err != nil {
		respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidDirection, errors.ErrCodeFanIn, errors.ErrCodeCycle,
		errors.ErrCodeInvalidNodeKind, errors.ErrCodeDuplicateID,
		errors.ErrCodeNothingToUndo, errors.ErrCodeNothingToRedo:
		return http.StatusConflict
	case errors.ErrCodeMalformedSnapshot, errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidPath, errors.ErrCodeUnknownNodeType:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func respondError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	respondJSON(w, statusFor(code), errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
