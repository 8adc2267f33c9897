package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "booking not found",
			},
			expected: "NOT_FOUND: booking not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("write conflict")
	wrapped := Internal("persistence failure", inner)

	if !errors.Is(wrapped, inner) {
		t.Error("expected errors.Is to find the wrapped error")
	}
}

func TestConflict_WithDetails(t *testing.T) {
	err := Conflict("requested slot lost to a higher-priority claim").WithDetails(map[string]any{
		"winner": "user-2",
	})

	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, err.HTTPStatus)
	}
	if err.Details["winner"] != "user-2" {
		t.Errorf("expected winner detail to survive, got %v", err.Details)
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Forbidden("not a member of this group")
	if got := AsAppError(appErr); got != appErr {
		t.Error("expected AsAppError to return the same AppError")
	}

	plain := errors.New("boom")
	converted := AsAppError(plain)
	if converted.Code != CodeInternal {
		t.Errorf("expected plain errors to convert to %s, got %s", CodeInternal, converted.Code)
	}
	if !errors.Is(converted, plain) {
		t.Error("expected converted error to wrap the original")
	}
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{NotFound("Booking"), http.StatusNotFound},
		{NotFoundWithID("Group", "abc"), http.StatusNotFound},
		{Validation("bad", nil), http.StatusUnprocessableEntity},
		{InvalidInput("bad"), http.StatusBadRequest},
		{Forbidden("no"), http.StatusForbidden},
		{Conflict("taken"), http.StatusConflict},
		{Internal("oops", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if tt.err.StatusCode() != tt.status {
			t.Errorf("%s: expected status %d, got %d", tt.err.Code, tt.status, tt.err.StatusCode())
		}
	}
}
