package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types for different domains
type ErrorType string

const (
	ErrorTypeValidation            ErrorType = "VALIDATION_ERROR"
	ErrorTypeConflict              ErrorType = "CONFLICT_ERROR"
	ErrorTypeNotFound              ErrorType = "NOT_FOUND_ERROR"
	ErrorTypeAuthentication        ErrorType = "AUTHENTICATION_ERROR"
	ErrorTypeAuthorization         ErrorType = "AUTHORIZATION_ERROR"
	ErrorTypeProvisioning          ErrorType = "PROVISIONING_ERROR"
	ErrorTypeMigration             ErrorType = "MIGRATION_ERROR"
	ErrorTypeCriticalInconsistency ErrorType = "CRITICAL_INCONSISTENCY"
	ErrorTypeUpdateFailed          ErrorType = "UPDATE_FAILED"
	ErrorTypeDeletionFailed        ErrorType = "DELETION_FAILED"
	ErrorTypeStoreUnavailable      ErrorType = "STORE_UNAVAILABLE"
	ErrorTypeInternal              ErrorType = "INTERNAL_ERROR"
)

// Common application errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("resource conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStoreUnavailable   = errors.New("store unavailable")
)

// AppError represents a custom application error with context
type AppError struct {
	Type      ErrorType              `json:"type"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	HTTPCode  int                    `json:"-"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Cause     error                  `json:"-"`
	Component string                 `json:"component,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(errorType ErrorType, message string, httpCode int) *AppError {
	return &AppError{
		Type:     errorType,
		Message:  message,
		HTTPCode: httpCode,
		Details:  make(map[string]interface{}),
	}
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithCause adds the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithComponent adds the component name
func (e *AppError) WithComponent(component string) *AppError {
	e.Component = component
	return e
}

// WithDetail adds a detail field
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Common error constructors

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrorTypeValidation, message, http.StatusBadRequest)
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return NewAppError(ErrorTypeConflict, message, http.StatusConflict)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrorTypeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// NewUnauthorizedError creates an authentication error
func NewUnauthorizedError(message string) *AppError {
	return NewAppError(ErrorTypeAuthentication, message, http.StatusUnauthorized)
}

// NewForbiddenError creates an authorization error
func NewForbiddenError(message string) *AppError {
	return NewAppError(ErrorTypeAuthorization, message, http.StatusForbidden)
}

// NewProvisioningError creates an error for a failed tenant collection provisioning
func NewProvisioningError(message string) *AppError {
	return NewAppError(ErrorTypeProvisioning, message, http.StatusInternalServerError)
}

// NewMigrationError creates an error for a failed tenant data migration
func NewMigrationError(message string) *AppError {
	return NewAppError(ErrorTypeMigration, message, http.StatusInternalServerError)
}

// NewCriticalInconsistencyError creates an error for a registry/data fork.
// The registry record and the migrated collection no longer agree; this must
// stay distinguishable from ordinary failures in logs and alerts.
func NewCriticalInconsistencyError(message string) *AppError {
	return NewAppError(ErrorTypeCriticalInconsistency, message, http.StatusInternalServerError).
		WithCode("CRITICAL_INCONSISTENCY")
}

// NewUpdateFailedError creates an error for a registry update that modified nothing
func NewUpdateFailedError(message string) *AppError {
	return NewAppError(ErrorTypeUpdateFailed, message, http.StatusInternalServerError)
}

// NewDeletionFailedError creates an error for a failed registry delete
func NewDeletionFailedError(message string) *AppError {
	return NewAppError(ErrorTypeDeletionFailed, message, http.StatusInternalServerError)
}

// NewStoreUnavailableError creates an infrastructure error for a failed store call
func NewStoreUnavailableError(message string) *AppError {
	return NewAppError(ErrorTypeStoreUnavailable, message, http.StatusInternalServerError)
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	return NewAppError(ErrorTypeInternal, message, http.StatusInternalServerError)
}

// Helper functions for common error scenarios

// WrapError wraps an error with context
func WrapError(err error, message string) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeNotFound
	}
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeConflict
	}
	return errors.Is(err, ErrConflict)
}

// IsAuthentication checks if an error is an authentication error
func IsAuthentication(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeAuthentication
	}
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrTokenExpired)
}

// IsAuthorization checks if an error is an authorization error
func IsAuthorization(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeAuthorization
	}
	return errors.Is(err, ErrForbidden)
}

// IsCriticalInconsistency checks if an error reports a registry/data fork
func IsCriticalInconsistency(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeCriticalInconsistency
	}
	return false
}

// HTTPStatus returns the HTTP status code carried by an error, defaulting to 500
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.HTTPCode != 0 {
		return appErr.HTTPCode
	}
	return http.StatusInternalServerError
}
