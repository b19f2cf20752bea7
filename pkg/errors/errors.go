package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Domain errors
	ErrorTypeInvalidEvent   ErrorType = "INVALID_EVENT"
	ErrorTypeFileNotIndexed ErrorType = "FILE_NOT_INDEXED"
	ErrorTypeValidation     ErrorType = "VALIDATION"
	ErrorTypeNotFound       ErrorType = "NOT_FOUND"

	// Gateway errors
	ErrorTypeGatewayTimeout   ErrorType = "GATEWAY_TIMEOUT"
	ErrorTypeMalformedInsight ErrorType = "MALFORMED_INSIGHT"
	ErrorTypeUnavailable      ErrorType = "UNAVAILABLE"

	// Infrastructure errors
	ErrorTypeInternal ErrorType = "INTERNAL"
	ErrorTypeDatabase ErrorType = "DATABASE"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// Constructor functions for common error types

// NewInvalidEventError creates an error for a rejected activity event.
// Invalid events are logged and dropped; they never reach the timeline store.
func NewInvalidEventError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidEvent,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewFileNotIndexedError creates an error for a query against a file that is
// not part of the monitored set.
func NewFileNotIndexedError(path string) *AppError {
	return &AppError{
		Type:       ErrorTypeFileNotIndexed,
		Message:    fmt.Sprintf("file %q is not indexed", path),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewGatewayTimeoutError creates an error for an intelligence backend call
// that exceeded its deadline.
func NewGatewayTimeoutError(operation string) *AppError {
	return &AppError{
		Type:       ErrorTypeGatewayTimeout,
		Message:    fmt.Sprintf("intelligence gateway timed out during %s", operation),
		HTTPStatus: http.StatusGatewayTimeout,
	}
}

// NewMalformedInsightError records an unparseable gateway response. Callers
// degrade to an empty payload; this error is for logs and metrics, not for
// propagation to clients.
func NewMalformedInsightError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeMalformedInsight,
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewUnavailableError creates an error for an unreachable dependency
func NewUnavailableError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnavailable,
		Message:    message,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewDatabaseError creates a database error
func NewDatabaseError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeDatabase,
		Message:    message,
		Cause:      cause,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Helper functions for error checking

// IsType checks whether err is an AppError of the given type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetHTTPStatus returns the HTTP status for an error, defaulting to 500
func GetHTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
