package repository

import (
	"context"

	"demand-genius/internal/catalog/domain/model"
)

// SchemaRegistry discovers and serves per-tenant schemas. GetSchema fails
// with a tenant-not-found error when the tenant has no catalog data at all;
// it never falls back to another tenant's schema.
type SchemaRegistry interface {
	GetSchema(ctx context.Context, tenantID string) (*model.TenantSchema, error)
}

// SchemaInvalidator drops a tenant's cached schema so the next read rebuilds
// it from the store. Registries without a cache implement it as a no-op.
type SchemaInvalidator interface {
	InvalidateSchema(ctx context.Context, tenantID string) error
}

// SchemaStore persists built schemas between requests. Implementations are
// keyed by tenant and enforce a TTL on Set.
type SchemaStore interface {
	Get(ctx context.Context, tenantID string) (*model.TenantSchema, bool, error)
	Set(ctx context.Context, schema *model.TenantSchema) error
	Delete(ctx context.Context, tenantID string) error
}
