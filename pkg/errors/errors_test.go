package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   NotFound("Slot"),
			expected: "NOT_FOUND: Slot not found",
		},
		{
			name:     "with underlying error",
			appErr:   Internal("Failed to book slot", errors.New("disk full")),
			expected: "INTERNAL_ERROR: Failed to book slot (caused by: disk full)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_WithCause(t *testing.T) {
	sentinel := errors.New("slot already booked")
	err := SlotTaken("A").WithCause(sentinel)

	if !errors.Is(err, sentinel) {
		t.Errorf("errors.Is should find the attached cause")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("Appointment"), CodeNotFound, http.StatusNotFound},
		{"not found with id", NotFoundWithID("Availability", "d1"), CodeNotFound, http.StatusNotFound},
		{"date not available", DateNotAvailable("2025-06-11"), CodeDateNotAvailable, http.StatusNotFound},
		{"slot taken", SlotTaken("A"), CodeSlotTaken, http.StatusConflict},
		{"validation", Validation("bad", nil), CodeValidation, http.StatusBadRequest},
		{"invalid input", InvalidInput("bad json"), CodeInvalidInput, http.StatusBadRequest},
		{"unauthorized", Unauthorized("token required"), CodeUnauthorized, http.StatusUnauthorized},
		{"conflict", Conflict("taken"), CodeConflict, http.StatusConflict},
		{"internal", Internal("boom", errors.New("x")), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"too many requests", TooManyRequests("slow down"), CodeRateLimited, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.HTTPStatus != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.err.HTTPStatus)
			}
		})
	}
}

func TestDetails(t *testing.T) {
	if got := NotFoundWithID("Appointment", "a-1").Details; got["id"] != "a-1" || got["resource"] != "Appointment" {
		t.Errorf("unexpected not-found details %v", got)
	}
	if got := DateNotAvailable("2025-06-11").Details["date"]; got != "2025-06-11" {
		t.Errorf("expected date detail, got %v", got)
	}
	if got := SlotTaken("B").Details["slotId"]; got != "B" {
		t.Errorf("expected slotId detail, got %v", got)
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Appointment")
	regularErr := errors.New("regular error")

	if AsAppError(appErr) != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}
	if AsAppError(fmt.Errorf("wrapped: %w", appErr)) != appErr {
		t.Errorf("AsAppError() should unwrap to the AppError")
	}

	result := AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
}
