// Package errors provides application-level error types and utilities.
// Business-rule violations are returned as values tagged with an ErrorType
// so callers can branch on the kind instead of matching message strings.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation         ErrorType = "validation_error"
	ErrorTypeNotFound           ErrorType = "not_found"
	ErrorTypeConflict           ErrorType = "conflict"
	ErrorTypeFailedPrecondition ErrorType = "failed_precondition"
	ErrorTypeUpstream           ErrorType = "upstream_error"
	ErrorTypeUnauthorized       ErrorType = "unauthorized"
	ErrorTypeInternal           ErrorType = "internal_error"
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *AppError) Unwrap() error {
	return e.cause
}

func newError(errType ErrorType, code int, message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    errType,
		Message: message,
		Code:    code,
		Details: detail,
	}
}

// NewValidationError creates an invalid-argument error (bad payload, downgrade,
// non-positive amount).
func NewValidationError(message string, details ...string) *AppError {
	return newError(ErrorTypeValidation, http.StatusBadRequest, message, details...)
}

// NewNotFoundError creates a not-found error (missing plan/membership/user).
func NewNotFoundError(message string, details ...string) *AppError {
	return newError(ErrorTypeNotFound, http.StatusNotFound, message, details...)
}

// NewConflictError creates a conflict error (duplicate pending request).
func NewConflictError(message string, details ...string) *AppError {
	return newError(ErrorTypeConflict, http.StatusConflict, message, details...)
}

// NewFailedPreconditionError creates an error for a state transition requested
// against the wrong current status.
func NewFailedPreconditionError(message string, details ...string) *AppError {
	return newError(ErrorTypeFailedPrecondition, http.StatusPreconditionFailed, message, details...)
}

// NewUpstreamError creates an error for a collaborator failure or timeout.
// Saga callers must run compensation before propagating one of these.
func NewUpstreamError(message string, cause error) *AppError {
	err := newError(ErrorTypeUpstream, http.StatusBadGateway, message)
	err.cause = cause
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewUnauthorizedError creates an unauthorized error.
func NewUnauthorizedError(message string, details ...string) *AppError {
	return newError(ErrorTypeUnauthorized, http.StatusUnauthorized, message, details...)
}

// NewInternalError creates an internal error.
func NewInternalError(message string, details ...string) *AppError {
	return newError(ErrorTypeInternal, http.StatusInternalServerError, message, details...)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return IsType(err, ErrorTypeNotFound) }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return IsType(err, ErrorTypeConflict) }

// IsUpstream reports whether err is a collaborator failure.
func IsUpstream(err error) bool { return IsType(err, ErrorTypeUpstream) }
