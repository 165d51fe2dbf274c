package http_test

import (
	"context"

	"demand-genius/internal/catalog/domain/model"

	"github.com/stretchr/testify/mock"
)

// mockCatalogUsecase is a shared mock for usecase.CatalogUsecase.
type mockCatalogUsecase struct {
	mock.Mock
}

func (m *mockCatalogUsecase) GetSchema(ctx context.Context, tenantID string) (*model.TenantSchema, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TenantSchema), args.Error(1)
}

func (m *mockCatalogUsecase) InvalidateSchema(ctx context.Context, tenantID string) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func (m *mockCatalogUsecase) ListContent(ctx context.Context, tenantID string, spec model.FilterSpec) (model.QueryResult, error) {
	args := m.Called(ctx, tenantID, spec)
	return args.Get(0).(model.QueryResult), args.Error(1)
}

func (m *mockCatalogUsecase) CountContent(ctx context.Context, tenantID string, spec model.FilterSpec) (int64, error) {
	args := m.Called(ctx, tenantID, spec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCatalogUsecase) SearchContent(ctx context.Context, tenantID string, spec model.FilterSpec) (model.SearchResult, error) {
	args := m.Called(ctx, tenantID, spec)
	return args.Get(0).(model.SearchResult), args.Error(1)
}

func (m *mockCatalogUsecase) CategoryDistribution(ctx context.Context, tenantID, category string, values []string, spec model.FilterSpec) (model.DistributionResult, error) {
	args := m.Called(ctx, tenantID, category, values, spec)
	return args.Get(0).(model.DistributionResult), args.Error(1)
}

func (m *mockCatalogUsecase) GapAnalysis(ctx context.Context, tenantID, category string, spec model.FilterSpec) (model.GapAnalysis, error) {
	args := m.Called(ctx, tenantID, category, spec)
	return args.Get(0).(model.GapAnalysis), args.Error(1)
}
