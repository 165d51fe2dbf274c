package cache

import (
	"context"
	"testing"
	"time"

	"demand-genius/internal/catalog/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) ResolveValuesToIDs(ctx context.Context, tenantID string, mapping model.FieldMapping, values []string) ([]primitive.ObjectID, error) {
	args := m.Called(ctx, tenantID, mapping, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]primitive.ObjectID), args.Error(1)
}

func (m *mockResolver) ResolveIDsToNames(ctx context.Context, tenantID string, mapping model.FieldMapping, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	args := m.Called(ctx, tenantID, mapping, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[primitive.ObjectID]string), args.Error(1)
}

func contentTypeMapping() model.FieldMapping {
	return model.FieldMapping{
		CategoryName:        model.CategoryContentType,
		SourceCollection:    model.CollectionSitemaps,
		FieldPath:           model.FieldContentType,
		RequiresJoin:        true,
		ReferenceCollection: model.CollectionContentTypes,
		JoinForeignField:    model.FieldID,
	}
}

func TestCachedResolverReusesResolution(t *testing.T) {
	inner := new(mockResolver)
	id := primitive.NewObjectID()
	inner.On("ResolveValuesToIDs", mock.Anything, "tenant-a", mock.Anything, mock.Anything).
		Return([]primitive.ObjectID{id}, nil).Once()

	r := NewCachedResolver(inner, time.Minute)
	mapping := contentTypeMapping()

	first, err := r.ResolveValuesToIDs(context.Background(), "tenant-a", mapping, []string{"Blog", "Video"})
	require.NoError(t, err)

	// Order and casing differences hit the same entry.
	second, err := r.ResolveValuesToIDs(context.Background(), "tenant-a", mapping, []string{"video", "BLOG"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	inner.AssertNumberOfCalls(t, "ResolveValuesToIDs", 1)
}

func TestCachedResolverEmptyInput(t *testing.T) {
	inner := new(mockResolver)
	r := NewCachedResolver(inner, time.Minute)

	ids, err := r.ResolveValuesToIDs(context.Background(), "tenant-a", contentTypeMapping(), nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
	inner.AssertNotCalled(t, "ResolveValuesToIDs", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolverKeySeparation(t *testing.T) {
	mapping := contentTypeMapping()

	base := resolverKey("tenant-a", mapping, []string{"Blog"})
	assert.Equal(t, base, resolverKey("tenant-a", mapping, []string{"blog"}))
	assert.NotEqual(t, base, resolverKey("tenant-b", mapping, []string{"Blog"}))
	assert.NotEqual(t, base, resolverKey("tenant-a", mapping, []string{"Video"}))

	restricted := mapping
	restricted.CategoryFilterID = primitive.NewObjectID()
	assert.NotEqual(t, base, resolverKey("tenant-a", restricted, []string{"Blog"}))

	other := mapping
	other.CategoryName = model.CategoryTopics
	assert.NotEqual(t, base, resolverKey("tenant-a", other, []string{"Blog"}))
}
