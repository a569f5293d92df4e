package types

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeAuthorization ErrorType = "authorization"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeInternal      ErrorType = "internal"
)

// ClinicError represents a structured error in the MedClock system.
// Authorization and not-found conditions are reported to the immediate
// caller as return values; nothing crosses the core boundary as a panic.
type ClinicError struct {
	Type    ErrorType              `json:"type"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *ClinicError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *ClinicError) Unwrap() error {
	return e.Cause
}

// Common error codes
const (
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// NewAuthorizationError creates a new authorization (denial) error
func NewAuthorizationError(message string, details map[string]interface{}) *ClinicError {
	return &ClinicError{
		Type:    ErrorTypeAuthorization,
		Code:    ErrCodeForbidden,
		Message: message,
		Details: details,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details map[string]interface{}) *ClinicError {
	return &ClinicError{
		Type:    ErrorTypeNotFound,
		Code:    ErrCodeNotFound,
		Message: message,
		Details: details,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details map[string]interface{}) *ClinicError {
	return &ClinicError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeInvalidInput,
		Message: message,
		Details: details,
	}
}

// IsDenied reports whether err is an authorization denial
func IsDenied(err error) bool {
	var ce *ClinicError
	return errors.As(err, &ce) && ce.Type == ErrorTypeAuthorization
}

// IsNotFound reports whether err is a not-found condition
func IsNotFound(err error) bool {
	var ce *ClinicError
	return errors.As(err, &ce) && ce.Type == ErrorTypeNotFound
}
