package errors

import (
	"errors"
	"fmt"
)

const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeReference     = "REFERENCE_ERROR"
	CodeEngineFailure = "ENGINE_FAILURE"
)

// Error represents a typed failure of a solve operation.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target carries the same code, so errors.Is works against the sentinels below.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) || e == nil || other == nil {
		return false
	}
	return e.Code == other.Code
}

// New creates a new Error instance.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

var (
	ErrValidation    = New(CodeValidation, "validation failed")
	ErrReference     = New(CodeReference, "dangling reference")
	ErrEngineFailure = New(CodeEngineFailure, "solving engine failure")
)

// Validation builds a VALIDATION_ERROR with a formatted message.
func Validation(format string, args ...any) *Error {
	return New(CodeValidation, fmt.Sprintf(format, args...))
}

// Reference builds a REFERENCE_ERROR with a formatted message.
func Reference(format string, args ...any) *Error {
	return New(CodeReference, fmt.Sprintf(format, args...))
}

// EngineFailure wraps an error raised by a solving engine.
func EngineFailure(err error, message string) *Error {
	return Wrap(err, CodeEngineFailure, message)
}

// IsValidation reports whether err rejects the input, either as malformed or as a dangling reference.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrReference)
}

// FromError normalises any error into an *Error; unknown errors are treated as engine failures.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrEngineFailure.Code, ErrEngineFailure.Message)
}
