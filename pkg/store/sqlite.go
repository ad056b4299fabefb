package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/logicflow/pkg/config"
	"github.com/matzehuels/logicflow/pkg/snapshot"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS circuits (
  name TEXT PRIMARY KEY,
  data TEXT NOT NULL,
  updated_at TEXT NOT NULL
)`

// SQLiteStore keeps circuits in one table of a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the database at path.
// An empty path uses $XDG_CONFIG_HOME/logicflow/circuits.db; ":memory:"
// gives a private in-memory database.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		dir, err := config.Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "circuits.db")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, persistence(err, "create database dir")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, persistence(err, "open database %s", path)
	}
	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, persistence(err, "create schema")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, name string, doc *snapshot.Document) error {
	data, err := encode(name, doc)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO circuits (name, data, updated_at) VALUES (?, ?, ?)`,
		name, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return persistence(err, "save circuit %q", name)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, name string) (*snapshot.Document, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM circuits WHERE name = ?`, name).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, persistence(err, "load circuit %q", name)
	}
	return decode(name, []byte(data))
}

func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM circuits ORDER BY name`)
	if err != nil {
		return nil, persistence(err, "list circuits")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, persistence(err, "list circuits")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence(err, "list circuits")
	}
	return names, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM circuits WHERE name = ?`, name)
	if err != nil {
		return persistence(err, "delete circuit %q", name)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound(name)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
