// Package apperror provides domain-specific error types for the ecce
// archive server. These errors carry an HTTP status code and a user-safe
// message. The Echo error handler maps them to structured JSON responses
// automatically.
//
// NEVER return raw CMS or infrastructure errors to the client. Always
// wrap them in an apperror type or return a generic internal error.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the base error type for all domain errors. It carries an
// HTTP status code, a machine-readable error type, and a human-readable
// message safe to show to the client.
type AppError struct {
	// Code is the HTTP status code (e.g., 404, 400, 500).
	Code int `json:"-"`

	// Type is a machine-readable error classifier (e.g., "invalid_credential").
	Type string `json:"type"`

	// Message is a human-readable description safe for the client.
	Message string `json:"message"`

	// Internal holds the underlying error for logging. Never exposed to client.
	Internal error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Internal
}

// --- Constructors for common error types ---

// NewNotFound creates a 404 Not Found error.
func NewNotFound(message string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Type:    "not_found",
		Message: message,
	}
}

// NewBadRequest creates a 400 Bad Request error for missing or malformed
// request bodies.
func NewBadRequest(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    "bad_request",
		Message: message,
	}
}

// NewInvalidCredential creates a 401 error for a credential that matches no
// configured role. The message is deliberately generic: it must not hint at
// which roles exist.
func NewInvalidCredential() *AppError {
	return &AppError{
		Code:    http.StatusUnauthorized,
		Type:    "invalid_credential",
		Message: "Invalid password",
	}
}

// NewConfiguration creates a 500 error for when the upstream credential map
// is missing or unparseable. The real cause is stored in Internal for
// logging; the client only ever sees a generic message.
func NewConfiguration(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     "configuration_error",
		Message:  "Authentication is temporarily unavailable. Please try again.",
		Internal: err,
	}
}

// NewInternal creates a 500 Internal Server Error. The real error is stored
// in Internal for logging but the client only sees a generic message.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     "internal_error",
		Message:  "An unexpected error occurred. Please try again.",
		Internal: err,
	}
}

// SafeMessage returns the client-safe error message from an error. If the
// error is (or wraps) an AppError, returns its Message field, which is safe
// to expose. For any other error type, returns a generic message to prevent
// leaking internal details like upstream URLs, query structure, or stack
// traces.
func SafeMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "An unexpected error occurred"
}

// SafeCode returns the HTTP status code from an error that is (or wraps)
// an AppError, or 500 for any other error type.
func SafeCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
