package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeSchemaMismatch, "no template for %s", "PxrSurface")

	if err.Code != ErrCodeSchemaMismatch {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeSchemaMismatch)
	}

	if err.Message != "no template for PxrSurface" {
		t.Errorf("Message = %v, want %v", err.Message, "no template for PxrSurface")
	}

	expected := "SCHEMA_MISMATCH: no template for PxrSurface"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeFileNotFound, cause, "failed to read")

	if err.Code != ErrCodeFileNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeFileNotFound)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeSchemaMismatch,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeSchemaMismatch, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeSchemaMismatch,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("synthesize: %w", New(ErrCodeSchemaMismatch, "inner")),
			code:     ErrCodeSchemaMismatch,
			expected: true,
		},
		{
			name:     "child attribute error",
			err:      fmt.Errorf("run: %w", &ChildAttributeError{Node: "B", Attribute: "colorR", Source: "A.outR"}),
			code:     ErrCodeChildAttribute,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "empty code never matches",
			err:      errors.New("plain error"),
			code:     "",
			expected: false,
		},
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
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeNodeNotFound, "test"),
			expected: ErrCodeNodeNotFound,
		},
		{
			name:     "child attribute",
			err:      &ChildAttributeError{},
			expected: ErrCodeChildAttribute,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestChildAttributeError(t *testing.T) {
	err := &ChildAttributeError{Node: "NWM_END", Attribute: "diffuseColorR", Source: "NWM_UP.resultR"}

	msg := err.Error()
	for _, want := range []string{"NWM_END.diffuseColorR", "NWM_UP.resultR", "parent attribute"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}

	if err.Code() != ErrCodeChildAttribute {
		t.Errorf("Code() = %v, want %v", err.Code(), ErrCodeChildAttribute)
	}

	var target *ChildAttributeError
	if !errors.As(fmt.Errorf("wrap: %w", err), &target) || target.Attribute != "diffuseColorR" {
		t.Error("errors.As should recover the ChildAttributeError")
	}
}
