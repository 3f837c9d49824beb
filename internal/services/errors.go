package services

import (
	"errors"
	"fmt"
)

// Error kinds returned by the catalog and user services. Handlers map them
// to HTTP statuses; wrapped messages are safe to show to clients.
var (
	ErrValidation   = errors.New("missing required fields")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrUnauthorized = errors.New("invalid credentials")
	ErrStorage      = errors.New("database error")
)

// StorageError wraps an unexpected database failure. It matches ErrStorage
// and unwraps to the driver error. Message, when set, replaces the generic
// text shown to clients.
type StorageError struct {
	Op      string
	Message string
	Err     error
}

// ClientMessage is the text an HTTP client sees for this failure.
func (e *StorageError) ClientMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return "Database error"
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// clientError is a sentinel wrapped with a message that replaces the
// sentinel text entirely.
type clientError struct {
	kind error
	msg  string
}

func (e *clientError) Error() string { return e.msg }

func (e *clientError) Unwrap() error { return e.kind }

// NewClientError returns an error of the given kind carrying msg verbatim.
func NewClientError(kind error, msg string) error {
	return &clientError{kind: kind, msg: msg}
}
