// Package domainerrors provides coded errors for domain and validation
// failures. Stores return sentinel errors for infrastructure facts
// (see pkg/platform/sentinel); services translate those into coded
// errors so callers can branch on the code without string matching.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	// CodeInvalidInput marks malformed input at a trust boundary.
	CodeInvalidInput Code = "invalid_input"
	// CodeBadRequest marks a structurally valid but unusable request.
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks a missing entity.
	CodeNotFound Code = "not_found"
	// CodeConflict marks a uniqueness or state conflict.
	CodeConflict Code = "conflict"
	// CodeInvariantViolation marks a broken model invariant.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeInvalidState marks an entity in the wrong state for an operation.
	CodeInvalidState Code = "invalid_state"
	// CodeCannotDelete marks a deletion denied by the authorship policy.
	// Not retryable: it signals a permanent policy violation.
	CodeCannotDelete Code = "cannot_delete"
	// CodeTimeout marks an aborted or timed-out operation.
	CodeTimeout Code = "timeout"
	// CodeInternal marks an unexpected infrastructure failure.
	CodeInternal Code = "internal"
)

// Error is a coded domain error. It wraps an optional cause.
type Error struct {
	code    Code
	message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *Error) Unwrap() error { return e.cause }

// Code returns the error's classification code.
func (e *Error) Code() Code { return e.code }

// New creates a coded error with a human-readable message.
func New(code Code, message string) error {
	return &Error{code: code, message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap annotates a cause with a code and message. Returns nil for a nil cause.
func Wrap(cause error, code Code, message string) error {
	if cause == nil {
		return nil
	}
	return &Error{code: code, message: message, cause: cause}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var coded *Error
	for errors.As(err, &coded) {
		if coded.code == code {
			return true
		}
		err = coded.cause
		coded = nil
	}
	return false
}

// CodeOf returns the outermost code in the chain, or CodeInternal if the
// error carries no code.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.code
	}
	return CodeInternal
}
