package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v6"
)

// CacheBackend selects where built schemas live between requests.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// CatalogConfig holds all configuration for the catalog module.
type CatalogConfig struct {
	MongoDBURI   string `env:"MONGODB_URI"`
	DatabaseName string `env:"MONGODB_DATABASE" envDefault:"demand_genius"`

	// SchemaCacheTTL bounds how stale a cached tenant schema may get.
	SchemaCacheTTL time.Duration `env:"SCHEMA_CACHE_TTL" envDefault:"5m"`
	// ResolverCacheTTL bounds cached value-to-id resolutions.
	ResolverCacheTTL time.Duration `env:"RESOLVER_CACHE_TTL" envDefault:"5m"`

	// CacheBackend is "memory" or "redis".
	CacheBackend string      `env:"CACHE_BACKEND" envDefault:"memory"`
	Redis        RedisConfig `json:"redis"`

	// QueryTimeout caps one store round trip, retries included.
	QueryTimeout time.Duration `env:"QUERY_TIMEOUT" envDefault:"10s"`
	// MaxRetries bounds retries of transient store failures.
	MaxRetries uint64 `env:"QUERY_MAX_RETRIES" envDefault:"3"`

	JWTSecret string `env:"JWT_SECRET"`
}

// RedisConfig configures the shared schema cache backend.
type RedisConfig struct {
	Host         string `env:"REDIS_HOST" envDefault:"localhost"`
	Port         string `env:"REDIS_PORT" envDefault:"6379"`
	Password     string `env:"REDIS_PASSWORD" envDefault:""`
	Database     int    `env:"REDIS_DATABASE" envDefault:"0"`
	PoolSize     int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	EnableTLS    bool   `env:"REDIS_ENABLE_TLS" envDefault:"false"`
}

// GetAddr returns the host:port address of the Redis server.
func (c *RedisConfig) GetAddr() string {
	return c.Host + ":" + c.Port
}

// LoadConfig loads configuration from environment variables and applies
// defaults.
func LoadConfig() (*CatalogConfig, error) {
	cfg := &CatalogConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load catalog configuration from environment: " + err.Error())
	}
	if err := env.Parse(&cfg.Redis); err != nil {
		return nil, errors.New("failed to load redis configuration from environment: " + err.Error())
	}

	if cfg.MongoDBURI == "" {
		return nil, errors.New("MONGODB_URI environment variable is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is not set")
	}
	if cfg.CacheBackend != CacheBackendMemory && cfg.CacheBackend != CacheBackendRedis {
		return nil, errors.New("CACHE_BACKEND must be \"memory\" or \"redis\"")
	}
	if cfg.SchemaCacheTTL <= 0 {
		cfg.SchemaCacheTTL = 5 * time.Minute
	}
	if cfg.ResolverCacheTTL <= 0 {
		cfg.ResolverCacheTTL = 5 * time.Minute
	}

	return cfg, nil
}

// DefaultConfig returns a configuration suitable for local development.
func DefaultConfig() *CatalogConfig {
	return &CatalogConfig{
		MongoDBURI:       "mongodb://localhost:27017",
		DatabaseName:     "demand_genius",
		SchemaCacheTTL:   5 * time.Minute,
		ResolverCacheTTL: 5 * time.Minute,
		CacheBackend:     CacheBackendMemory,
		QueryTimeout:     10 * time.Second,
		MaxRetries:       3,
		Redis: RedisConfig{
			Host:         "localhost",
			Port:         "6379",
			PoolSize:     10,
			MinIdleConns: 2,
		},
	}
}
