// Package errors provides coded errors so callers and tests can match on
// the category of a failure instead of its message.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the category of a failure.
type ErrorCode string

const (
	ErrUnknown  ErrorCode = "UNKNOWN"
	ErrInternal ErrorCode = "INTERNAL"

	// ErrConfig covers malformed blueprints, malformed override syntax and
	// unknown option values.
	ErrConfig ErrorCode = "CONFIG"

	// ErrFetch covers unreachable repositories, missing branches and
	// missing local sources.
	ErrFetch ErrorCode = "FETCH"

	// ErrResolve covers namespace conflicts and undefined references.
	ErrResolve ErrorCode = "RESOLVE"

	// ErrRender covers template syntax errors and helper failures.
	ErrRender ErrorCode = "RENDER"

	ErrIO            ErrorCode = "IO"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"
)

// RangerError is an error with a stable code and optional details.
type RangerError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func (e *RangerError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *RangerError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a RangerError with the same code.
func (e *RangerError) Is(target error) bool {
	var targetErr *RangerError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a RangerError with the given code and message.
func New(code ErrorCode, message string) *RangerError {
	return &RangerError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a RangerError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *RangerError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps err with a code and message. It returns nil if err is nil.
func Wrap(err error, code ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	return &RangerError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps err with a code and formatted message. It returns nil if
// err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail attaches a key/value detail to the error.
func (e *RangerError) WithDetail(key string, value interface{}) *RangerError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode reports whether the outermost RangerError in err's chain
// carries code, so a FETCH error re-wrapped as IO reports IO.
func IsErrorCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}

// GetErrorCode returns the code of the outermost RangerError in err's
// chain, or ErrUnknown.
func GetErrorCode(err error) ErrorCode {
	var rangerErr *RangerError
	if errors.As(err, &rangerErr) {
		return rangerErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details of the outermost RangerError, or nil.
func GetErrorDetails(err error) map[string]interface{} {
	var rangerErr *RangerError
	if errors.As(err, &rangerErr) {
		return rangerErr.Details
	}
	return nil
}
