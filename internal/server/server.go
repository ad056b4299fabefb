// Package server exposes one circuit editor over HTTP.
//
// All handlers run under a single mutex, so requests see and mutate the
// circuit one at a time; propagation triggered by one request finishes
// before the next request starts.
//
// # Routes
//
//	GET    /healthz
//	GET    /circuit                 snapshot document
//	PUT    /circuit                 replace the circuit with a document
//	GET    /circuit.dot             Graphviz source
//	GET    /circuit.svg             rendered diagram
//	POST   /nodes                   {"type","x","y"}
//	PATCH  /nodes/{id}              {"x","y"}
//	DELETE /nodes/{id}
//	PUT    /nodes/{id}/value        {"value"}
//	POST   /connections             {"start_node","start_socket","end_node","end_socket"}
//	DELETE /connections/{id}
//	POST   /undo
//	POST   /redo
//
// With a store configured:
//
//	GET    /circuits                stored names
//	PUT    /circuits/{name}         save the circuit under name
//	POST   /circuits/{name}/open    replace the circuit with the stored one
//
// Errors are returned as {"code","message"} with a status derived from the
// error code.
package server

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/logicflow/pkg/editor"
	"github.com/matzehuels/logicflow/pkg/errors"
	"github.com/matzehuels/logicflow/pkg/observability"
	"github.com/matzehuels/logicflow/pkg/store"
)

// Server serves one editor.
type Server struct {
	mu     sync.Mutex
	ed     *editor.Editor
	store  store.Store
	logger *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithStore enables the /circuits routes.
func WithStore(st store.Store) Option { return func(s *Server) { s.store = st } }

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// New returns a server for ed.
func New(ed *editor.Editor, opts ...Option) *Server {
	s := &Server{ed: ed}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.serialize)

		r.Get("/circuit", s.getCircuit)
		r.Put("/circuit", s.putCircuit)
		r.Get("/circuit.dot", s.getDOT)
		r.Get("/circuit.svg", s.getSVG)

		r.Route("/nodes", func(r chi.Router) {
			r.Post("/", s.createNode)
			r.Patch("/{id}", s.moveNode)
			r.Delete("/{id}", s.deleteNode)
			r.Put("/{id}/value", s.setValue)
		})
		r.Route("/connections", func(r chi.Router) {
			r.Post("/", s.createConnection)
			r.Delete("/{id}", s.deleteConnection)
		})
		r.Post("/undo", s.undo)
		r.Post("/redo", s.redo)

		if s.store != nil {
			r.Route("/circuits", func(r chi.Router) {
				r.Get("/", s.listStored)
				r.Put("/{name}", s.saveStored)
				r.Post("/{name}/open", s.openStored)
			})
		}
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return errors.Wrap(errors.ErrCodeInternal, err, "listen on %s", addr)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Middleware
// =============================================================================

func (s *Server) serialize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", elapsed.Round(time.Microsecond),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}
