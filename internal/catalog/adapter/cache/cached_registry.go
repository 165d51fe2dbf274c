package cache

import (
	"context"

	"demand-genius/internal/catalog/domain/model"
	"demand-genius/internal/catalog/domain/repository"
	"demand-genius/internal/shared/logger"

	"golang.org/x/sync/singleflight"
)

// CachedRegistry decorates a schema registry with a schema store. Misses go
// through singleflight so one discovery serves every concurrent request for
// the same tenant.
type CachedRegistry struct {
	inner repository.SchemaRegistry
	store repository.SchemaStore
	group singleflight.Group
	log   logger.Logger
}

func NewCachedRegistry(inner repository.SchemaRegistry, store repository.SchemaStore, log logger.Logger) *CachedRegistry {
	return &CachedRegistry{inner: inner, store: store, log: log.WithComponent("schema_cache")}
}

func (r *CachedRegistry) GetSchema(ctx context.Context, tenantID string) (*model.TenantSchema, error) {
	if schema, ok, err := r.store.Get(ctx, tenantID); err == nil && ok {
		return schema, nil
	} else if err != nil {
		// A broken cache backend degrades to discovery, it never fails
		// the request.
		r.log.WithContext(ctx).WithFields(map[string]interface{}{
			"tenant_id": tenantID, "error": err.Error(),
		}).Warn("schema store read failed, falling back to discovery")
	}

	result, err, _ := r.group.Do(tenantID, func() (interface{}, error) {
		if schema, ok, err := r.store.Get(ctx, tenantID); err == nil && ok {
			return schema, nil
		}
		schema, err := r.inner.GetSchema(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if storeErr := r.store.Set(ctx, schema); storeErr != nil {
			r.log.WithContext(ctx).WithFields(map[string]interface{}{
				"tenant_id": tenantID, "error": storeErr.Error(),
			}).Warn("failed to cache tenant schema")
		}
		return schema, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.TenantSchema), nil
}

// InvalidateSchema drops the cached schema; the next read rediscovers it.
func (r *CachedRegistry) InvalidateSchema(ctx context.Context, tenantID string) error {
	r.group.Forget(tenantID)
	return r.store.Delete(ctx, tenantID)
}
