// Package errors provides structured error types for plugindex.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across commands
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages with a readable cause chain
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND: Resource not found
//   - NETWORK_*: Network-related errors
//   - *_ERROR: Persistence, decoding and internal failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidRepoRef, "invalid repository: %s", ref)
//	if errors.Is(err, errors.ErrCodeInvalidRepoRef) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodePersistence, origErr, "read %s", path)
//
// Command-level failures are printed with [Format].
package errors

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync/atomic"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidRepoRef Code = "INVALID_REPO_REF"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Network errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Authentication errors
	ErrCodeUnauthorized       Code = "UNAUTHORIZED"
	ErrCodeMissingCredentials Code = "MISSING_CREDENTIALS"

	// Content and storage errors
	ErrCodeDecode      Code = "DECODE_ERROR"
	ErrCodePersistence Code = "PERSISTENCE_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code      // Machine-readable error code
	Message string    // Human-readable message
	Cause   error     // Underlying error (optional)
	Stack   []uintptr // Program counters captured at construction (optional)
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
		Stack:   callers(),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
		Stack:   callers(),
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

// GetCodeOr is like [GetCode] but returns fallback when err carries no code.
func GetCodeOr(err error, fallback Code) Code {
	if code := GetCode(err); code != "" {
		return code
	}
	return fallback
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

// =============================================================================
// Stack capture
// =============================================================================

var backtrace atomic.Bool

func init() {
	if v := os.Getenv("PLUGINDEX_BACKTRACE"); v != "" && v != "0" {
		backtrace.Store(true)
	}
}

// SetBacktrace enables or disables stack capture for errors created by
// [New] and [Wrap]. Capture is off unless PLUGINDEX_BACKTRACE is set.
func SetBacktrace(enabled bool) {
	backtrace.Store(enabled)
}

func callers() []uintptr {
	if !backtrace.Load() {
		return nil
	}
	pcs := make([]uintptr, 32)
	// skip runtime.Callers, callers, and New/Wrap
	n := runtime.Callers(3, pcs)
	return pcs[:n]
}

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
