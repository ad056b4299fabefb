package snapshot

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/logicflow/pkg/errors"
)

// Format is a snapshot encoding.
type Format string

// Supported encodings.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

const indent = "    "

// FormatFromPath picks the encoding from a file extension. Unknown
// extensions use JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat validates a format name such as "yaml" or "yml".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json", "":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want json, toml or yaml)", name)
}

// =============================================================================
// Encoding API
// =============================================================================

// Encode writes v (a [Document] or [Clipboard]) to w.
func Encode(w io.Writer, v any, f Format) error {
	switch f {
	case FormatTOML:
		enc := toml.NewEncoder(w)
		enc.Indent = indent
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode toml")
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(len(indent))
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode yaml")
		}
		if err := enc.Close(); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode yaml")
		}
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", indent)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode json")
		}
	}
	return nil
}

// Decode reads v from r. Syntax errors are MALFORMED_SNAPSHOT.
func Decode(r io.Reader, v any, f Format) error {
	var err error
	switch f {
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(v)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(v)
	default:
		err = json.NewDecoder(r).Decode(v)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeMalformedSnapshot, err, "decode %s", f)
	}
	return nil
}

// Marshal encodes v in memory.
func Marshal(v any, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, v, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes data into v.
func Unmarshal(data []byte, v any, f Format) error {
	return Decode(bytes.NewReader(data), v, f)
}

// =============================================================================
// Files
// =============================================================================

// WriteFile saves doc to path in the encoding chosen by its extension. The
// document is written to a temporary file next to path and renamed into
// place, so a failed save never truncates an existing file. I/O failures are
// PERSISTENCE_FAILURE.
func WriteFile(path string, doc Document) error {
	data, err := Marshal(doc, FormatFromPath(path))
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "create %s", path)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodePersistence, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "write %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "chmod %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "rename %s", path)
	}
	return nil
}

// ReadFile loads a document from path in the encoding chosen by its
// extension. A file that cannot be opened is PERSISTENCE_FAILURE; one that
// does not parse or validate is MALFORMED_SNAPSHOT.
func ReadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, errors.Wrap(errors.ErrCodePersistence, err, "open %s", path)
	}
	defer f.Close()

	var doc Document
	if err := Decode(f, &doc, FormatFromPath(path)); err != nil {
		return Document{}, err
	}
	if err := Validate(doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}
