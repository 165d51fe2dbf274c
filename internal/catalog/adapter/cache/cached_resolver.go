package cache

import (
	"context"
	"sort"
	"strings"
	"time"

	"demand-genius/internal/catalog/domain/model"
	"demand-genius/internal/catalog/domain/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CachedResolver decorates a value resolver with a TTL cache on the
// value-to-id direction, the hot path of every compilation.
type CachedResolver struct {
	inner repository.ValueResolver
	ids   *TTLCache[[]primitive.ObjectID]
}

func NewCachedResolver(inner repository.ValueResolver, ttl time.Duration) *CachedResolver {
	return &CachedResolver{
		inner: inner,
		ids:   NewTTLCache[[]primitive.ObjectID](ttl),
	}
}

func (r *CachedResolver) ResolveValuesToIDs(ctx context.Context, tenantID string, mapping model.FieldMapping, values []string) ([]primitive.ObjectID, error) {
	if len(values) == 0 {
		return []primitive.ObjectID{}, nil
	}
	key := resolverKey(tenantID, mapping, values)
	return r.ids.GetOrFill(ctx, key, func(ctx context.Context) ([]primitive.ObjectID, error) {
		return r.inner.ResolveValuesToIDs(ctx, tenantID, mapping, values)
	})
}

func (r *CachedResolver) ResolveIDsToNames(ctx context.Context, tenantID string, mapping model.FieldMapping, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	return r.inner.ResolveIDsToNames(ctx, tenantID, mapping, ids)
}

// resolverKey identifies one resolution: the tenant, the category (and its
// parent restriction), and the requested values folded and sorted so that
// value order and casing do not fragment the cache.
func resolverKey(tenantID string, mapping model.FieldMapping, values []string) string {
	folded := make([]string, len(values))
	for i, v := range values {
		folded[i] = strings.ToLower(v)
	}
	sort.Strings(folded)

	var b strings.Builder
	b.WriteString(tenantID)
	b.WriteByte('|')
	b.WriteString(mapping.CategoryName)
	b.WriteByte('|')
	if mapping.IsParentRestricted() {
		b.WriteString(mapping.CategoryFilterID.Hex())
	}
	b.WriteByte('|')
	b.WriteString(strings.Join(folded, ","))
	return b.String()
}
