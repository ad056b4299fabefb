// Package config loads logicflow settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/logicflow/config.toml (see
// [DefaultPath]) unless a path is given explicitly. A missing file is not an
// error: every setting has a default.
//
//	[editor]
//	history_limit = 200
//	paste_offset_x = 20
//	paste_offset_y = 20
//
//	[output]
//	dir = "out"
//
//	[store]
//	backend = "sqlite"
//	dsn = "/home/me/.config/logicflow/circuits.db"
//
//	[server]
//	addr = ":8080"
//
// The environment variables LOGICFLOW_STORE_BACKEND and LOGICFLOW_STORE_DSN
// override the corresponding file settings.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/logicflow/pkg/errors"
)

// Store backends.
const (
	BackendDir    = "dir"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Environment overrides.
const (
	EnvStoreBackend = "LOGICFLOW_STORE_BACKEND"
	EnvStoreDSN     = "LOGICFLOW_STORE_DSN"
)

// Config is the complete configuration.
type Config struct {
	Editor EditorConfig `toml:"editor"`
	Output OutputConfig `toml:"output"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// EditorConfig tunes editing sessions.
type EditorConfig struct {
	HistoryLimit int     `toml:"history_limit"` // 0 keeps the whole history
	PasteOffsetX float64 `toml:"paste_offset_x"`
	PasteOffsetY float64 `toml:"paste_offset_y"`
}

// OutputConfig controls FileOutput nodes.
type OutputConfig struct {
	// Dir is the directory relative FileOutput paths resolve against.
	Dir string `toml:"dir"`
}

// StoreConfig selects and configures the circuit store.
type StoreConfig struct {
	Backend string `toml:"backend"`

	// dir
	Dir string `toml:"dir"`

	// sqlite
	DSN string `toml:"dsn"`

	// redis
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`

	// mongo
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: EditorConfig{PasteOffsetX: 20, PasteOffsetY: 20},
		Output: OutputConfig{Dir: "."},
		Store: StoreConfig{
			Backend:    BackendDir,
			Addr:       "localhost:6379",
			Prefix:     "logicflow",
			URI:        "mongodb://localhost:27017",
			Database:   "logicflow",
			Collection: "circuits",
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Dir returns the logicflow configuration directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "locate config dir")
	}
	return filepath.Join(base, "logicflow"), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file at path, or at [DefaultPath] when path is
// empty, and applies environment overrides. A missing default file yields
// the defaults; a missing explicit file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !os.IsNotExist(err) || explicit {
			return Default(), errors.Wrap(errors.ErrCodeInvalidInput, err, "load config %s", path)
		}
	}

	if v := os.Getenv(EnvStoreBackend); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv(EnvStoreDSN); v != "" {
		cfg.Store.DSN = v
	}
	return cfg, cfg.Validate()
}

// Validate checks settings that cannot be corrected silently.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendDir, BackendSQLite, BackendRedis, BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"unknown store backend %q (want %s, %s, %s or %s)",
			c.Store.Backend, BackendDir, BackendSQLite, BackendRedis, BackendMongo)
	}
	if c.Editor.HistoryLimit < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "history_limit must not be negative")
	}
	return nil
}

// Write saves c to path as TOML, creating parent directories.
func Write(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "create config dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "create %s", path)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "write %s", path)
	}
	return nil
}
