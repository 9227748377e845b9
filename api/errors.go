// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-core.

package api

import "fmt"

// Common errors used across the library.
//
// Recoverable conditions (empty, exhausted, timed out, cancelled) are
// reported through these values or through nil-sentinel returns; contract
// violations such as a double LockForClose are programmer errors and panic
// instead.
var (
	ErrEmptyQueue       = fmt.Errorf("queue is empty")
	ErrQueueClosed      = fmt.Errorf("queue is closed")
	ErrAllocationFailed = fmt.Errorf("allocation failed")
	ErrLaneClosed       = fmt.Errorf("lane is shut down")
	ErrOperationTimeout = fmt.Errorf("operation timeout")
)

// ErrorCode classifies a wrapped error condition.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeClosed
	ErrCodeResourceExhausted
	ErrCodeTimeout
)

// Error decorates a sentinel with a code and call-site context. errors.Is
// against the wrapped sentinel keeps working through Unwrap.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if len(e.Context) == 0 {
		return msg
	}
	return fmt.Sprintf("%s (context: %+v)", msg, e.Context)
}

// Unwrap exposes the wrapped sentinel to errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WrapError decorates cause with a code and message.
func WrapError(code ErrorCode, cause error, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
