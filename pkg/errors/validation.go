package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// circuitNameRegex matches names accepted by circuit stores.
var circuitNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateCircuitName validates a stored circuit name for safety.
// Names double as file names and database keys, so the rules are
// conservative:
//   - No empty names
//   - Maximum length of 128 characters
//   - Letters, digits, dot, underscore and dash only, not starting with a dot
//   - No path traversal sequences (..)
func ValidateCircuitName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "circuit name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "circuit name too long (max 128 characters)")
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "circuit name cannot contain %q", "..")
	}

	if !circuitNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid circuit name: %q", name)
	}

	return nil
}

// ValidatePath validates a relative output path (e.g. the target file of a
// FileOutput node) before it is joined to an output directory.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
