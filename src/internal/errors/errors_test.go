package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "error without cause",
			err:      &Error{Code: ErrCodeConfig, Message: "invalid configuration"},
			expected: "[CONFIG_ERROR] invalid configuration",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeNetwork, "failed to load settings", errors.New("connection refused")),
			expected: "[NETWORK_ERROR] failed to load settings: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, "wrapper", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestError_Is(t *testing.T) {
	err1 := &Error{Code: ErrCodeValidation, Message: "bad number"}
	err2 := &Error{Code: ErrCodeValidation, Message: "bad path"}
	err3 := &Error{Code: ErrCodeNetwork, Message: "network error"}

	if !errors.Is(err1, err2) {
		t.Errorf("Expected errors with same code to match")
	}

	if errors.Is(err1, err3) {
		t.Errorf("Expected errors with different codes to not match")
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("save: %w", NewConflictError("save already in progress"))

	if got := CodeOf(wrapped); got != ErrCodeConflict {
		t.Errorf("CodeOf() = %v, want %v", got, ErrCodeConflict)
	}
	if got := CodeOf(errors.New("plain")); got != ErrCodeInternal {
		t.Errorf("CodeOf(plain) = %v, want %v", got, ErrCodeInternal)
	}
}

func TestHasCode_LooksThroughNestedDomainErrors(t *testing.T) {
	inner := NewAuthError("token expired", nil)
	outer := NewNetworkError("request aborted", inner)

	if !HasCode(outer, ErrCodeNetwork) {
		t.Errorf("expected outer code to match")
	}
	if !HasCode(outer, ErrCodeAuth) {
		t.Errorf("expected nested code to match")
	}
	if HasCode(outer, ErrCodeValidation) {
		t.Errorf("unexpected match for validation code")
	}
}

func TestNewNetworkError(t *testing.T) {
	cause := errors.New("status 500")
	err := NewNetworkError("failed to save settings", cause)

	if err.Code != ErrCodeNetwork {
		t.Errorf("Expected code %v, got %v", ErrCodeNetwork, err.Code)
	}

	if err.Message != "failed to save settings" {
		t.Errorf("Expected message 'failed to save settings', got %v", err.Message)
	}

	if err.Cause != cause {
		t.Errorf("Expected cause to be preserved")
	}
}
