package usecase

import (
	"context"

	"demand-genius/internal/catalog/domain/model"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// mockSchemaRegistry is a shared mock for repository.SchemaRegistry and
// repository.SchemaInvalidator.
type mockSchemaRegistry struct {
	mock.Mock
}

func (m *mockSchemaRegistry) GetSchema(ctx context.Context, tenantID string) (*model.TenantSchema, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TenantSchema), args.Error(1)
}

func (m *mockSchemaRegistry) InvalidateSchema(ctx context.Context, tenantID string) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

type mockValueResolver struct {
	mock.Mock
}

func (m *mockValueResolver) ResolveValuesToIDs(ctx context.Context, tenantID string, mapping model.FieldMapping, values []string) ([]primitive.ObjectID, error) {
	args := m.Called(ctx, tenantID, mapping, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]primitive.ObjectID), args.Error(1)
}

func (m *mockValueResolver) ResolveIDsToNames(ctx context.Context, tenantID string, mapping model.FieldMapping, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	args := m.Called(ctx, tenantID, mapping, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[primitive.ObjectID]string), args.Error(1)
}

type mockPipelineExecutor struct {
	mock.Mock
}

func (m *mockPipelineExecutor) Execute(ctx context.Context, pipeline model.CompiledPipeline) ([]bson.M, error) {
	args := m.Called(ctx, pipeline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bson.M), args.Error(1)
}

func (m *mockPipelineExecutor) Count(ctx context.Context, pipeline model.CompiledPipeline) (int64, error) {
	args := m.Called(ctx, pipeline)
	return args.Get(0).(int64), args.Error(1)
}
