// Package store provides named circuit storage.
//
// This package defines the [Store] interface for saving and loading
// snapshot documents by name, with implementations for different backends:
//   - [DirStore]: one JSON file per circuit in a directory (default)
//   - [SQLiteStore]: a single SQLite database file, for local use
//   - [RedisStore]: a Redis hash, for shared editing servers
//   - [MongoStore]: a MongoDB collection, for shared editing servers
//
// # Usage
//
//	st, err := store.Open(ctx, cfg.Store)
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	err = st.Save(ctx, "half-adder", &doc)
//	doc, err := st.Load(ctx, "half-adder")
//
// Names are validated with errors.ValidateCircuitName. A missing circuit is
// NOT_FOUND; any backend failure is PERSISTENCE_FAILURE. Every backend
// stores the JSON encoding of the document, so circuits move between
// backends unchanged.
package store

import (
	"context"
	"time"

	"github.com/matzehuels/logicflow/pkg/config"
	"github.com/matzehuels/logicflow/pkg/errors"
	"github.com/matzehuels/logicflow/pkg/observability"
	"github.com/matzehuels/logicflow/pkg/snapshot"
)

// Store persists circuits by name.
type Store interface {
	// Save creates or replaces the named circuit.
	Save(ctx context.Context, name string, doc *snapshot.Document) error

	// Load returns the named circuit, or a NOT_FOUND error.
	Load(ctx context.Context, name string) (*snapshot.Document, error)

	// List returns all circuit names in ascending order.
	List(ctx context.Context) ([]string, error)

	// Delete removes the named circuit. Deleting a missing circuit is
	// NOT_FOUND.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close() error
}

// Open connects to the backend selected by cfg and instruments it with the
// registered store hooks.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		st  Store
		err error
	)
	switch cfg.Backend {
	case config.BackendDir, "":
		st, err = NewDirStore(cfg.Dir)
	case config.BackendSQLite:
		st, err = NewSQLiteStore(ctx, cfg.DSN)
	case config.BackendRedis:
		st, err = NewRedisStore(ctx, RedisConfig{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			Prefix:   cfg.Prefix,
		})
	case config.BackendMongo:
		st, err = NewMongoStore(ctx, MongoConfig{
			URI:        cfg.URI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
		})
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	backend := cfg.Backend
	if backend == "" {
		backend = config.BackendDir
	}
	return &instrumented{Store: st, backend: backend}, nil
}

// =============================================================================
// Instrumentation
// =============================================================================

type instrumented struct {
	Store
	backend string
}

func (s *instrumented) Save(ctx context.Context, name string, doc *snapshot.Document) error {
	start := time.Now()
	err := s.Store.Save(ctx, name, doc)
	observability.Store().OnSave(ctx, s.backend, name, time.Since(start), err)
	return err
}

func (s *instrumented) Load(ctx context.Context, name string) (*snapshot.Document, error) {
	start := time.Now()
	doc, err := s.Store.Load(ctx, name)
	observability.Store().OnLoad(ctx, s.backend, name, time.Since(start), err)
	return doc, err
}

// =============================================================================
// Helpers
// =============================================================================

func encode(name string, doc *snapshot.Document) ([]byte, error) {
	if err := errors.ValidateCircuitName(name); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "circuit %q: nil document", name)
	}
	return snapshot.Marshal(doc, snapshot.FormatJSON)
}

func decode(name string, data []byte) (*snapshot.Document, error) {
	var doc snapshot.Document
	if err := snapshot.Unmarshal(data, &doc, snapshot.FormatJSON); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedSnapshot, err, "circuit %q", name)
	}
	return &doc, nil
}

func notFound(name string) error {
	return errors.New(errors.ErrCodeNotFound, "circuit %q not found", name)
}

func persistence(err error, format string, args ...any) error {
	return errors.Wrap(errors.ErrCodePersistence, err, format, args...)
}
