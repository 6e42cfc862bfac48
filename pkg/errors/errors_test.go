package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeFactorNotFound, "no factor named %q", "tissue")

	if err.Code != ErrCodeFactorNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeFactorNotFound)
	}

	if err.Message != `no factor named "tissue"` {
		t.Errorf("Message = %v", err.Message)
	}

	expected := `FACTOR_NOT_FOUND: no factor named "tissue"`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("wasm trap")
	err := Wrap(ErrCodeLayoutFailed, cause, "graphviz render")

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if got := err.Error(); got != "LAYOUT_FAILED: graphviz render: wasm trap" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeInvalidProject, "x"), ErrCodeInvalidProject, true},
		{"non-matching code", New(ErrCodeInvalidProject, "x"), ErrCodeRenderFailed, false},
		{"outer code wins", Wrap(ErrCodeRenderFailed, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeRenderFailed, true},
		{"fmt wrapped", fmt.Errorf("load: %w", New(ErrCodeFileNotFound, "gone")), ErrCodeFileNotFound, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeNoScene, "x")); got != ErrCodeNoScene {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeNoScene)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "friendly message")); got != "friendly message" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("raw")); got != "raw" {
		t.Errorf("UserMessage() = %q", got)
	}
}
