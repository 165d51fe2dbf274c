// Package catalog wires the schema-driven query compiler: per-tenant schema
// discovery, filter compilation into aggregation pipelines, and the HTTP
// surface exposing them.
package catalog

import (
	"demand-genius/internal/catalog/adapter/cache"
	catalogHTTP "demand-genius/internal/catalog/adapter/http"
	"demand-genius/internal/catalog/adapter/persistence/mongodb"
	"demand-genius/internal/catalog/config"
	"demand-genius/internal/catalog/domain/repository"
	"demand-genius/internal/catalog/usecase"
	"demand-genius/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Module bundles the catalog's wired components.
type Module struct {
	Config     *config.CatalogConfig
	Usecase    usecase.CatalogUsecase
	Handler    *catalogHTTP.CatalogHTTPHandler
	Middleware *catalogHTTP.TenantMiddleware
}

// NewCatalogModule wires the module from its infrastructure dependencies.
// redisClient may be nil when the configured cache backend is memory.
func NewCatalogModule(
	db *mongo.Database,
	redisClient *redis.Client,
	cfg *config.CatalogConfig,
	log logger.Logger,
	zlog *zap.Logger,
) (*Module, error) {
	var store repository.SchemaStore
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		store = cache.NewRedisSchemaStore(redisClient, cfg.SchemaCacheTTL)
	default:
		store = cache.NewMemorySchemaStore(cfg.SchemaCacheTTL)
	}

	registry := cache.NewCachedRegistry(mongodb.NewMongoSchemaRegistry(db, cfg.QueryTimeout, zlog), store, log)
	resolver := cache.NewCachedResolver(mongodb.NewMongoValueResolver(db, cfg.QueryTimeout, zlog), cfg.ResolverCacheTTL)

	opts := mongodb.DefaultExecutorOptions()
	opts.MaxRetries = cfg.MaxRetries
	opts.QueryTimeout = cfg.QueryTimeout
	executor := mongodb.NewMongoPipelineExecutor(db, opts, zlog)

	uc := usecase.NewCatalogUsecase(registry, registry, resolver, executor, log)

	return &Module{
		Config:     cfg,
		Usecase:    uc,
		Handler:    catalogHTTP.NewCatalogHTTPHandler(uc, log),
		Middleware: catalogHTTP.NewTenantMiddleware(cfg.JWTSecret, log),
	}, nil
}

// RegisterRoutes mounts the catalog endpoints under router.
func (m *Module) RegisterRoutes(router fiber.Router) {
	router.Use(m.Middleware.RequestID())
	m.Handler.RegisterRoutes(router, m.Middleware)
}
