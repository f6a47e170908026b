package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique constraint is violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput marks caller mistakes; use Invalid to attach a message.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized means the caller could not be authenticated.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the caller is authenticated but not allowed.
	ErrForbidden = errors.New("forbidden")
	// ErrUpstream wraps failures of third-party services (WHOIS, payment gateway).
	ErrUpstream = errors.New("upstream service failed")
)

// ValidationError carries a client-facing message and matches ErrInvalidInput.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid builds a ValidationError with a formatted message.
func Invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// StatusError attaches a client-facing message to one of the sentinels above.
type StatusError struct {
	Kind error
	Msg  string
}

func (e *StatusError) Error() string { return e.Msg }

func (e *StatusError) Unwrap() error { return e.Kind }

// Errorf builds a StatusError so that errors.Is(err, kind) holds.
func Errorf(kind error, format string, args ...any) error {
	return &StatusError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Upstream wraps err so that errors.Is(err, ErrUpstream) holds.
func Upstream(service string, err error) error {
	return fmt.Errorf("%s: %w: %w", service, ErrUpstream, err)
}

// ValidID reports whether id is a well-formed identifier.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
