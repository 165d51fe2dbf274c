package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "demand_genius", cfg.DatabaseName)
	assert.Equal(t, 5*time.Minute, cfg.SchemaCacheTTL)
	assert.Equal(t, 5*time.Minute, cfg.ResolverCacheTTL)
	assert.Equal(t, CacheBackendMemory, cfg.CacheBackend)
	assert.Equal(t, 10*time.Second, cfg.QueryTimeout)
	assert.Equal(t, uint64(3), cfg.MaxRetries)
	assert.Equal(t, "localhost:6379", cfg.Redis.GetAddr())
}

func TestLoadConfigRequiresMongoURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsUnknownCacheBackend(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CACHE_BACKEND", "memcached")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRedisBackend(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, CacheBackendRedis, cfg.CacheBackend)
	assert.Equal(t, "cache.internal:6380", cfg.Redis.GetAddr())
}

func TestLoadConfigCustomTTL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SCHEMA_CACHE_TTL", "90s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.SchemaCacheTTL)
}
