package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error types for different domains
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound       ErrorType = "NOT_FOUND_ERROR"
	ErrorTypeUnavailable    ErrorType = "UNAVAILABLE_ERROR"
	ErrorTypeIsolation      ErrorType = "ISOLATION_ERROR"
	ErrorTypeAuthentication ErrorType = "AUTHENTICATION_ERROR"
	ErrorTypeAuthorization  ErrorType = "AUTHORIZATION_ERROR"
	ErrorTypeInternal       ErrorType = "INTERNAL_ERROR"
)

// Common application errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrBadRequest     = errors.New("bad request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")
)

// Catalog-specific errors
var (
	ErrTenantNotFound      = errors.New("tenant not found")
	ErrUnknownCategory     = errors.New("unknown category")
	ErrInvalidTenantID     = errors.New("invalid tenant ID")
	ErrInvalidFilterSpec   = errors.New("invalid filter specification")
	ErrStoreTimeout        = errors.New("document store timeout")
	ErrStoreUnavailable    = errors.New("document store unavailable")
	ErrTenantIsolation     = errors.New("pipeline is not tenant scoped")
	ErrMissingSearchTerms  = errors.New("search requires at least one term")
	ErrInvalidFieldMapping = errors.New("invalid field mapping")
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
	Retryable bool                   `json:"retryable,omitempty"`
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

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrorTypeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	return NewAppError(ErrorTypeInternal, message, http.StatusInternalServerError)
}

// NewAuthenticationError creates an authentication error
func NewAuthenticationError(message string) *AppError {
	return NewAppError(ErrorTypeAuthentication, message, http.StatusUnauthorized)
}

// NewAuthorizationError creates an authorization error
func NewAuthorizationError(message string) *AppError {
	return NewAppError(ErrorTypeAuthorization, message, http.StatusForbidden)
}

// Catalog error constructors

// NewTenantNotFoundError signals that a tenant has no catalog data at all.
// It is fatal for the request and never retried.
func NewTenantNotFoundError(tenantID string) *AppError {
	return NewAppError(ErrorTypeNotFound, "tenant not found", http.StatusNotFound).
		WithCode("TENANT_NOT_FOUND").
		WithCause(ErrTenantNotFound).
		WithDetail("tenant_id", tenantID)
}

// NewUnknownCategoryError signals a filter referencing a category absent from
// the tenant's schema. The valid category names are attached so upstream
// callers can self-correct.
func NewUnknownCategoryError(category string, validCategories []string) *AppError {
	msg := fmt.Sprintf("unknown category %q, valid categories: %s",
		category, strings.Join(validCategories, ", "))
	return NewAppError(ErrorTypeValidation, msg, http.StatusBadRequest).
		WithCode("UNKNOWN_CATEGORY").
		WithCause(ErrUnknownCategory).
		WithDetail("category", category).
		WithDetail("valid_categories", validCategories)
}

// NewStoreUnavailableError signals a transient document store failure after
// retries were exhausted. Marked retryable so the caller may degrade or retry.
func NewStoreUnavailableError(cause error) *AppError {
	appErr := NewAppError(ErrorTypeUnavailable, "document store unavailable", http.StatusServiceUnavailable).
		WithCode("STORE_UNAVAILABLE").
		WithCause(cause)
	appErr.Retryable = true
	return appErr
}

// NewStoreTimeoutError signals a timed-out document store round trip after
// retries were exhausted.
func NewStoreTimeoutError(cause error) *AppError {
	appErr := NewAppError(ErrorTypeUnavailable, "document store timeout", http.StatusGatewayTimeout).
		WithCode("STORE_TIMEOUT").
		WithCause(cause)
	appErr.Retryable = true
	return appErr
}

// NewIsolationViolationError signals a pipeline that reached the execution
// engine without tenant scoping. This is an internal invariant failure,
// never retried, and indicates a compiler bug.
func NewIsolationViolationError(collection string) *AppError {
	return NewAppError(ErrorTypeIsolation, "pipeline missing tenant scope", http.StatusInternalServerError).
		WithCode("TENANT_ISOLATION_VIOLATION").
		WithCause(ErrTenantIsolation).
		WithDetail("collection", collection)
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
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrTenantNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeValidation
	}
	return errors.Is(err, ErrUnknownCategory) || errors.Is(err, ErrInvalidFilterSpec) ||
		errors.Is(err, ErrInvalidTenantID) || errors.Is(err, ErrMissingSearchTerms)
}

// AsAppError unwraps an error into its AppError, when it carries one.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsRetryable checks if an error is safe to retry at a higher level
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Retryable
	}
	return errors.Is(err, ErrStoreTimeout) || errors.Is(err, ErrStoreUnavailable)
}

// IsIsolationViolation checks if an error is a tenant isolation failure
func IsIsolationViolation(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeIsolation
	}
	return errors.Is(err, ErrTenantIsolation)
}
