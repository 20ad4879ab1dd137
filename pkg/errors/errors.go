package errors

import (
	"fmt"
)

// ErrorCode identifies the class of a domain error.
type ErrorCode string

const (
	ErrValidation   ErrorCode = "validation_error"
	ErrNotFound     ErrorCode = "not_found"
	ErrUnauthorized ErrorCode = "unauthorized"
	ErrInternal     ErrorCode = "internal_error"
)

// FieldError describes a single violated constraint on a request field.
// Message names the constraint only; it must never echo the submitted value.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// AppError is the typed error crossing the service/transport boundary.
// Message must be safe to return to clients: no PHI, no request data.
type AppError struct {
	Code    ErrorCode    `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
	Err     error        `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error class to its response status code.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrValidation:
		return 400
	case ErrNotFound:
		return 404
	case ErrUnauthorized:
		return 401
	default:
		return 500
	}
}

// Error constructors
func NewValidation(path, message string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: "Request validation failed",
		Details: []FieldError{{Path: path, Message: message}},
	}
}

func NewNotFound(message string) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: message,
	}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: message,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "Internal error",
		Err:     err,
	}
}

// FromError returns err as an *AppError, wrapping unknown errors as internal.
func FromError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternal(err)
}
