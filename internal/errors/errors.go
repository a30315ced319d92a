// internal/errors/errors.go
package appErrors

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindMissingInput
	KindInvalidInput
	KindNotFound
	KindConflict
)

const internalMessage = "Internal server error"

// AppError is an anticipated failure carrying the message shown to the caller.
// Err, when set, is the underlying cause and is never exposed in responses.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error kind to an HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindMissingInput, KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func NewMissingInput(message string) error {
	return &AppError{Kind: KindMissingInput, Message: message}
}

func NewInvalidInput(message string) error {
	return &AppError{Kind: KindInvalidInput, Message: message}
}

func NewNotFound(message string) error {
	return &AppError{Kind: KindNotFound, Message: message}
}

func NewConflict(message string) error {
	return &AppError{Kind: KindConflict, Message: message}
}

func NewInternal(err error) error {
	return &AppError{Kind: KindInternal, Message: internalMessage, Err: err}
}

// StatusCode returns the HTTP status for err; anything that is not an AppError is a 500.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode()
	}
	return http.StatusInternalServerError
}

// Message returns the caller-safe message for err.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return internalMessage
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
