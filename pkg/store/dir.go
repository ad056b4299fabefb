package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/matzehuels/logicflow/pkg/config"
	"github.com/matzehuels/logicflow/pkg/errors"
	"github.com/matzehuels/logicflow/pkg/snapshot"
)

const dirExt = ".json"

// DirStore is a file-based circuit store.
// Circuits are stored as JSON files in a directory.
type DirStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewDirStore creates a new file-based circuit store.
// If baseDir is empty, defaults to $XDG_CONFIG_HOME/logicflow/circuits/
func NewDirStore(baseDir string) (*DirStore, error) {
	if baseDir == "" {
		dir, err := config.Dir()
		if err != nil {
			return nil, err
		}
		baseDir = filepath.Join(dir, "circuits")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, persistence(err, "create circuit dir")
	}
	return &DirStore{baseDir: baseDir}, nil
}

func (s *DirStore) circuitPath(name string) string {
	return filepath.Join(s.baseDir, name+dirExt)
}

func (s *DirStore) Save(ctx context.Context, name string, doc *snapshot.Document) error {
	if err := errors.ValidateCircuitName(name); err != nil {
		return err
	}
	if doc == nil {
		return errors.New(errors.ErrCodeInvalidInput, "circuit %q: nil document", name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot.WriteFile(s.circuitPath(name), *doc)
}

func (s *DirStore) Load(ctx context.Context, name string) (*snapshot.Document, error) {
	if err := errors.ValidateCircuitName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.circuitPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(name)
		}
		return nil, persistence(err, "read circuit %q", name)
	}
	return decode(name, data)
}

func (s *DirStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, persistence(err, "read circuit dir")
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != dirExt || strings.HasPrefix(name, ".") {
			continue
		}
		names = append(names, strings.TrimSuffix(name, dirExt))
	}
	sort.Strings(names)
	return names, nil
}

func (s *DirStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateCircuitName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.circuitPath(name)); err != nil {
		if os.IsNotExist(err) {
			return notFound(name)
		}
		return persistence(err, "remove circuit %q", name)
	}
	return nil
}

func (s *DirStore) Close() error { return nil }

// Path returns the base directory for circuit files.
func (s *DirStore) Path() string {
	return s.baseDir
}

var _ Store = (*DirStore)(nil)
