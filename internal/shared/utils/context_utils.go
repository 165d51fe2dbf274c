package utils

import (
	"context"
	"errors"

	"demand-genius/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrTenantIDNotFound   = errors.New("tenantID not found in context")
	ErrTenantIDNotString  = errors.New("tenantID in context is not a string")
	ErrRequestIDNotFound  = errors.New("requestID not found in context")
	ErrRequestIDNotString = errors.New("requestID in context is not a string")
)

// WithTenantID returns a child context carrying the tenant ID.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, contextkeys.TenantIDKey, tenantID)
}

// WithRequestID returns a child context carrying the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// GetTenantIDFromContext retrieves the tenant ID from the context.
// It returns the tenant ID and an error if the tenant ID is not found or is not a string.
func GetTenantIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.TenantIDKey)
	if val == nil {
		return "", ErrTenantIDNotFound
	}
	tenantID, ok := val.(string)
	if !ok {
		return "", ErrTenantIDNotString
	}
	return tenantID, nil
}

// GetRequestIDFromContext retrieves the request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.RequestIDKey)
	if val == nil {
		return "", ErrRequestIDNotFound
	}
	requestID, ok := val.(string)
	if !ok {
		return "", ErrRequestIDNotString
	}
	return requestID, nil
}
