// Package apperror defines the domain error taxonomy shared by the service
// and handler layers.
//
// Services return these errors; the HTTP layer maps them to status codes in
// exactly one place (handler.writeError). The sentinel errors below are the
// machine-checkable part of the chain — callers use errors.Is against them —
// while AppError carries the human-readable message shown to the client.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError is a domain error with a message safe to surface to clients.
type AppError struct {
	Err     error  // sentinel — drives errors.Is and the HTTP status mapping
	Message string // human-readable error message
	Field   string // optional: field causing a validation error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound returns an AppError for a missing resource.
// HTTP handlers map this to 404 Not Found.
func NotFound(message string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: message,
	}
}

// ValidationFailed returns an AppError for a rejected input field.
// HTTP handlers map this to 400 Bad Request.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Unauthorized returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: fmt.Sprintf("Unauthorized: %s", message),
	}
}
