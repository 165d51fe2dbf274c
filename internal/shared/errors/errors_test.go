package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Behavior(t *testing.T) {
	err := NewValidationError("invalid input").WithCode("VAL001").WithDetail("field", "name").WithComponent("test-component")
	assert.Equal(t, ErrorTypeValidation, err.Type)
	assert.Equal(t, "invalid input", err.Message)
	assert.Equal(t, "VAL001", err.Code)
	assert.Equal(t, "test-component", err.Component)
	assert.Equal(t, "name", err.Details["field"])
	assert.Equal(t, "invalid input", err.Error())
}

func TestAppError_WithCause_Unwrap(t *testing.T) {
	cause := ErrNotFound
	err := NewNotFoundError("resource").WithCause(cause)
	assert.Equal(t, cause, err.Unwrap())
}

func TestTenantNotFoundError(t *testing.T) {
	err := NewTenantNotFoundError("tenant-1")
	assert.True(t, IsNotFound(err))
	assert.False(t, IsRetryable(err))
	assert.Equal(t, "TENANT_NOT_FOUND", err.Code)
	assert.Equal(t, "tenant-1", err.Details["tenant_id"])
}

func TestUnknownCategoryError(t *testing.T) {
	err := NewUnknownCategoryError("Funnel Phase", []string{"Funnel Stage", "Industry"})
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Message, "Funnel Phase")
	assert.Contains(t, err.Message, "Funnel Stage")
	assert.Equal(t, []string{"Funnel Stage", "Industry"}, err.Details["valid_categories"])
}

func TestStoreErrors_AreRetryable(t *testing.T) {
	timeout := NewStoreTimeoutError(fmt.Errorf("context deadline exceeded"))
	assert.True(t, IsRetryable(timeout))

	unavailable := NewStoreUnavailableError(fmt.Errorf("connection refused"))
	assert.True(t, IsRetryable(unavailable))

	// A wrapped retryable error is still recognized.
	wrapped := fmt.Errorf("executing list pipeline: %w", unavailable)
	assert.True(t, IsRetryable(wrapped))
}

func TestIsolationViolationError(t *testing.T) {
	err := NewIsolationViolationError("sitemaps")
	assert.True(t, IsIsolationViolation(err))
	assert.False(t, IsRetryable(err))
	assert.Equal(t, "sitemaps", err.Details["collection"])
}

func TestWrapError_PassesThroughAppError(t *testing.T) {
	orig := NewValidationError("bad")
	assert.Same(t, orig, WrapError(orig, "ignored"))

	wrapped := WrapError(fmt.Errorf("boom"), "something failed")
	assert.Equal(t, ErrorTypeInternal, wrapped.Type)
	assert.EqualError(t, wrapped, "something failed: boom")
}
