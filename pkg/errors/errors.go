// Package errors provides structured error types for m2k.
//
// This package defines error codes and types that enable:
//   - Consistent handling of structural failures across the pipeline and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Structural failures abort a copy run and carry one of:
//   - SCHEMA_MISMATCH: a template (or a template parameter group) is missing
//   - CHILD_ATTRIBUTE: a connection targets a child attribute Katana cannot express
//   - NODE_NOT_FOUND: a selected or upstream node does not exist in the scene
//   - INVALID_*: malformed input (scene files, config, node names)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeSchemaMismatch, "no template for node type %q", typ)
//	if errors.Is(err, errors.ErrCodeSchemaMismatch) {
//	    // Report and abort
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "read template %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidNodeName Code = "INVALID_NODE_NAME"
	ErrCodeInvalidNodeType Code = "INVALID_NODE_TYPE"
	ErrCodeInvalidScene    Code = "INVALID_SCENE"
	ErrCodeInvalidTemplate Code = "INVALID_TEMPLATE"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeNodeNotFound Code = "NODE_NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Structural export errors
	ErrCodeSchemaMismatch Code = "SCHEMA_MISMATCH"
	ErrCodeChildAttribute Code = "CHILD_ATTRIBUTE"

	// Environment errors
	ErrCodeClipboardUnavailable Code = "CLIPBOARD_UNAVAILABLE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or *ChildAttributeError
// with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error chain holds no coded error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var ce *ChildAttributeError
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var ce *ChildAttributeError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	return err.Error()
}

// ChildAttributeError reports a connection whose plug is a child attribute
// (for example diffuseColorR). Katana ports only accept whole attributes.
type ChildAttributeError struct {
	Node      string // Node owning the destination attribute
	Attribute string // Destination attribute name
	Source    string // Source reference, "<node>.<attribute>"
}

// Error implements the error interface.
func (e *ChildAttributeError) Error() string {
	return fmt.Sprintf("child attribute connections are not supported by Katana: %s.%s <- %s (connect a parent attribute instead)",
		e.Node, e.Attribute, e.Source)
}

// Code returns the error code for this error type.
func (e *ChildAttributeError) Code() Code {
	return ErrCodeChildAttribute
}
