package cache

import (
	"context"
	"encoding/json"
	"time"

	"demand-genius/internal/catalog/domain/model"
	"demand-genius/internal/shared/errors"

	"github.com/redis/go-redis/v9"
)

// MemorySchemaStore keeps built schemas in process memory with a TTL. It is
// the default backend for single-instance deployments.
type MemorySchemaStore struct {
	cache *TTLCache[*model.TenantSchema]
}

func NewMemorySchemaStore(ttl time.Duration) *MemorySchemaStore {
	return &MemorySchemaStore{cache: NewTTLCache[*model.TenantSchema](ttl)}
}

func (s *MemorySchemaStore) Get(ctx context.Context, tenantID string) (*model.TenantSchema, bool, error) {
	schema, ok := s.cache.Get(tenantID)
	return schema, ok, nil
}

func (s *MemorySchemaStore) Set(ctx context.Context, schema *model.TenantSchema) error {
	if schema == nil || schema.TenantID == "" {
		return errors.ErrInvalidTenantID
	}
	s.cache.Set(schema.TenantID, schema)
	return nil
}

func (s *MemorySchemaStore) Delete(ctx context.Context, tenantID string) error {
	s.cache.Delete(tenantID)
	return nil
}

// RedisSchemaStore shares built schemas across instances through Redis, so
// one instance's discovery benefits the rest until the TTL lapses.
type RedisSchemaStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisSchemaStore(client *redis.Client, ttl time.Duration) *RedisSchemaStore {
	return &RedisSchemaStore{client: client, ttl: ttl, prefix: "catalog:schema:"}
}

func (s *RedisSchemaStore) key(tenantID string) string {
	return s.prefix + tenantID
}

func (s *RedisSchemaStore) Get(ctx context.Context, tenantID string) (*model.TenantSchema, bool, error) {
	raw, err := s.client.Get(ctx, s.key(tenantID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewStoreUnavailableError(err).WithComponent("redis_schema_store")
	}

	var schema model.TenantSchema
	if err := json.Unmarshal(raw, &schema); err != nil {
		// A corrupt entry behaves as a miss; the next Set overwrites it.
		return nil, false, nil
	}
	return &schema, true, nil
}

func (s *RedisSchemaStore) Set(ctx context.Context, schema *model.TenantSchema) error {
	if schema == nil || schema.TenantID == "" {
		return errors.ErrInvalidTenantID
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return errors.WrapError(err, "failed to encode schema").WithComponent("redis_schema_store")
	}
	if err := s.client.Set(ctx, s.key(schema.TenantID), raw, s.ttl).Err(); err != nil {
		return errors.NewStoreUnavailableError(err).WithComponent("redis_schema_store")
	}
	return nil
}

func (s *RedisSchemaStore) Delete(ctx context.Context, tenantID string) error {
	if err := s.client.Del(ctx, s.key(tenantID)).Err(); err != nil {
		return errors.NewStoreUnavailableError(err).WithComponent("redis_schema_store")
	}
	return nil
}
