package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetSetContextValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithTenantID(ctx, "tenant1")
	ctx = WithRequestID(ctx, "req1")

	tenantID, err := GetTenantIDFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "tenant1", tenantID)

	requestID, err := GetRequestIDFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "req1", requestID)
}

func TestGetTenantIDFromContext_Missing(t *testing.T) {
	_, err := GetTenantIDFromContext(context.Background())
	assert.ErrorIs(t, err, ErrTenantIDNotFound)
}

func TestGetRequestIDFromContext_Missing(t *testing.T) {
	_, err := GetRequestIDFromContext(context.Background())
	assert.ErrorIs(t, err, ErrRequestIDNotFound)
}
