// Package apperr holds the error taxonomy shared by every domain package.
// Domain code wraps these sentinels with %w; the HTTP layer maps them to
// status codes with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrForbidden         = errors.New("forbidden")
	ErrGenerationFailure = errors.New("generation failure")
	ErrPersistence       = errors.New("persistence failure")
)

// Error carries an operation label and a user-facing message next to the
// wrapped cause.
type Error struct {
	Op      string
	Message string
	Kind    error
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the taxonomy sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Persistence wraps a datastore failure.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: ErrPersistence, Err: err}
}

// Generation wraps an oracle or parse failure for the named task.
func Generation(task string, err error) error {
	return &Error{Op: task, Kind: ErrGenerationFailure, Err: err}
}

// Invalid reports bad caller input.
func Invalid(format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing entity of the given kind.
func NotFound(kind string) error {
	return &Error{Kind: ErrNotFound, Message: kind + " not found"}
}

// Unauthorized reports a caller without a resolvable identity.
func Unauthorized(message string) error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

// Forbidden reports a caller acting on a record they do not own.
func Forbidden(message string) error {
	return &Error{Kind: ErrForbidden, Message: message}
}

// Message returns the user-facing message of err, or fallback.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
