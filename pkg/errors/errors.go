// Package errors provides structured error types for logicflow.
//
// Every failure the engine can report carries a machine-readable [Code], so
// callers (the CLI, the HTTP API, tests) can branch on the kind of failure
// without string matching:
//
//   - INVALID_DIRECTION, FAN_IN_VIOLATION, CYCLE_VIOLATION: rejected connects
//   - NOT_FOUND: a node or connection that is no longer part of the graph
//   - MALFORMED_SNAPSHOT: a document missing required fields
//   - DANGLING_REFERENCE, UNKNOWN_NODE_TYPE: recoverable deserialize warnings
//   - PERSISTENCE_FAILURE: storage I/O on save/load
//
// # Usage
//
//	err := errors.New(errors.ErrCodeFanIn, "input %d of node %d already connected", idx, id)
//	if errors.Is(err, errors.ErrCodeFanIn) {
//	    // remove the existing connection first
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodePersistence, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Structural edit errors
	ErrCodeInvalidDirection Code = "INVALID_DIRECTION"
	ErrCodeFanIn            Code = "FAN_IN_VIOLATION"
	ErrCodeCycle            Code = "CYCLE_VIOLATION"
	ErrCodeInvalidNodeKind  Code = "INVALID_NODE_KIND"
	ErrCodeDuplicateID      Code = "DUPLICATE_ID"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Snapshot errors
	ErrCodeMalformedSnapshot Code = "MALFORMED_SNAPSHOT"
	ErrCodeDanglingReference Code = "DANGLING_REFERENCE"
	ErrCodeUnknownNodeType   Code = "UNKNOWN_NODE_TYPE"

	// History errors
	ErrCodeNothingToUndo Code = "NOTHING_TO_UNDO"
	ErrCodeNothingToRedo Code = "NOTHING_TO_REDO"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidPath  Code = "INVALID_PATH"

	// Storage errors
	ErrCodePersistence Code = "PERSISTENCE_FAILURE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
// Only the outermost *Error in the chain is consulted, so a PersistenceFailure
// wrapping a NotFound reports PERSISTENCE_FAILURE.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Recoverable reports whether err is one of the deserialize warnings that
// are handled locally (skipped connection, substituted node type).
func Recoverable(err error) bool {
	switch GetCode(err) {
	case ErrCodeDanglingReference, ErrCodeUnknownNodeType:
		return true
	}
	return false
}
