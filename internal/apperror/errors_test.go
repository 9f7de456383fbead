package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestSafeCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", NewNotFound("garment not found"), http.StatusNotFound},
		{"bad request", NewBadRequest("count must be an integer"), http.StatusBadRequest},
		{"invalid credential", NewInvalidCredential(), http.StatusUnauthorized},
		{"configuration", NewConfiguration(errors.New("cms down")), http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("handling login: %w", NewInvalidCredential()), http.StatusUnauthorized},
		{"plain error", errors.New("redis down"), http.StatusInternalServerError},
		{"nil", nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeCode(tt.err); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestSafeMessage_ExposesOnlyCuratedMessages(t *testing.T) {
	appErr := NewConfiguration(errors.New("dial tcp cms.internal:443: timeout"))

	msg := SafeMessage(appErr)
	if msg != appErr.Message {
		t.Errorf("expected the curated message, got %q", msg)
	}

	// The underlying cause must never surface through SafeMessage.
	leaky := errors.New("dial tcp cms.internal:443: timeout")
	if got := SafeMessage(leaky); got != "An unexpected error occurred" {
		t.Errorf("expected generic message for a raw error, got %q", got)
	}
}

func TestSafeMessage_UnwrapsAppErrors(t *testing.T) {
	wrapped := fmt.Errorf("loading garments: %w", NewNotFound("garment not found"))

	if got := SafeMessage(wrapped); got != "garment not found" {
		t.Errorf("expected the wrapped AppError message, got %q", got)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("credential map is empty")
	appErr := NewConfiguration(cause)

	if !errors.Is(appErr, cause) {
		t.Error("expected errors.Is to reach the internal cause")
	}
}
