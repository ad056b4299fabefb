package errors

import (
	"strings"
	"testing"
)

func TestValidateCircuitName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "adder", false},
		{"valid with dash", "half-adder", false},
		{"valid with underscore", "full_adder", false},
		{"valid with dot", "adder.v2", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"hidden", ".adder", true},
		{"path traversal", "a..b", true},
		{"separator", "foo/bar", true},
		{"backslash", "foo\\bar", true},
		{"space", "foo bar", true},
		{"null byte", "foo\x00bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCircuitName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCircuitName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateCircuitName(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "output.txt", false},
		{"valid nested", "out/bits/carry.txt", false},
		{"valid with dots", "v1.2.3/out.txt", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute path", "/etc/passwd", true},
		{"path traversal", "../../../etc/passwd", true},
		{"path traversal middle", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidDirection,
		ErrCodeFanIn,
		ErrCodeCycle,
		ErrCodeInvalidNodeKind,
		ErrCodeDuplicateID,
		ErrCodeNotFound,
		ErrCodeMalformedSnapshot,
		ErrCodeDanglingReference,
		ErrCodeUnknownNodeType,
		ErrCodeNothingToUndo,
		ErrCodeNothingToRedo,
		ErrCodeInvalidInput,
		ErrCodeInvalidPath,
		ErrCodePersistence,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
