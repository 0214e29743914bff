// Package errors provides structured error types for the figlint application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (malformed scenes, bad options)
//   - UNKNOWN_*: Lookup failures (journal standards)
//   - NOT_*: Operations that cannot be performed (non-fixable issues)
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownJournal, "unknown journal: %s", name)
//	if errors.Is(err, errors.ErrCodeUnknownJournal) {
//	    // Handle lookup error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidScene, origErr, "panel %d", idx)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidScene     Code = "INVALID_SCENE"
	ErrCodeInvalidStandard  Code = "INVALID_STANDARD"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidThreshold Code = "INVALID_THRESHOLD"

	// Lookup failures
	ErrCodeUnknownJournal Code = "UNKNOWN_JOURNAL"
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeReportNotFound Code = "REPORT_NOT_FOUND"

	// Fix application errors
	ErrCodeNotAutoFixable Code = "NOT_AUTO_FIXABLE"

	// Internal errors
	ErrCodeInternal        Code = "INTERNAL_ERROR"
	ErrCodeInternalChecker Code = "INTERNAL_CHECKER"
	ErrCodeUnsupported     Code = "UNSUPPORTED"
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
