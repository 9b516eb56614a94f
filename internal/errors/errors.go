// Package errors defines the error taxonomy shared by probes, parsers and
// collectors. Every failure that crosses a package boundary is a
// *StructuredError so callers can branch on its Code instead of matching
// message text.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies a failure.
type ErrorCode string

const (
	// ErrCodeToolUnavailable means the executable could not be located or started.
	ErrCodeToolUnavailable ErrorCode = "TOOL_UNAVAILABLE"
	// ErrCodeToolFailed means the executable ran and exited nonzero.
	ErrCodeToolFailed ErrorCode = "TOOL_FAILED"
	// ErrCodeParseFailed means output was read but did not have the expected shape.
	ErrCodeParseFailed ErrorCode = "PARSE_FAILED"
	// ErrCodeNotFound means a file or resource does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodePermissionDenied means a file or resource exists but cannot be read.
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	// ErrCodeTimeout means a probe exceeded its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeCollectionFailed means a whole fact could not be produced.
	ErrCodeCollectionFailed ErrorCode = "COLLECTION_FAILED"
	// ErrCodeFatalIO means the report could not be written.
	ErrCodeFatalIO ErrorCode = "FATAL_IO"
	// ErrCodeInvalidConfig means the configuration failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeUnsupportedPlatform means no capability set exists for this OS.
	ErrCodeUnsupportedPlatform ErrorCode = "UNSUPPORTED_PLATFORM"
)

// StructuredError carries a code, a human-readable message, the underlying
// cause and optional debugging context.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// NewWithContext creates a StructuredError carrying context values.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Context: context}
}

// Wrap wraps cause with a code and message.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause}
}

// WrapWithContext wraps cause with a code, message and context values.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause, Context: context}
}

// CodeOf returns the code of the outermost StructuredError in err's chain,
// or "" when there is none.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ""
}

// HasCode reports whether any StructuredError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var se *StructuredError
		if !stderrors.As(err, &se) {
			return false
		}
		if se.Code == code {
			return true
		}
		err = se.Cause
	}
	return false
}

// IsRoutine reports whether err is an expected absence: a missing tool or a
// missing file. Callers log these at debug level and move to the next probe.
func IsRoutine(err error) bool {
	return HasCode(err, ErrCodeToolUnavailable) || HasCode(err, ErrCodeNotFound)
}

// Reason returns the message of the outermost StructuredError in err's
// chain, falling back to err.Error().
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var se *StructuredError
	if stderrors.As(err, &se) {
		if se.Cause != nil {
			return se.Message + ": " + se.Cause.Error()
		}
		return se.Message
	}
	return err.Error()
}
