package usecase

import (
	"context"
	"fmt"

	"demand-genius/internal/catalog/domain/model"
	"demand-genius/internal/catalog/domain/repository"
	"demand-genius/internal/shared/errors"
	"demand-genius/internal/shared/logger"
)

// CatalogUsecase is the query compiler's operation surface: schema serving,
// the three query shapes, and the gap analysis built on top of them.
type CatalogUsecase interface {
	GetSchema(ctx context.Context, tenantID string) (*model.TenantSchema, error)
	InvalidateSchema(ctx context.Context, tenantID string) error
	ListContent(ctx context.Context, tenantID string, spec model.FilterSpec) (model.QueryResult, error)
	CountContent(ctx context.Context, tenantID string, spec model.FilterSpec) (int64, error)
	SearchContent(ctx context.Context, tenantID string, spec model.FilterSpec) (model.SearchResult, error)
	CategoryDistribution(ctx context.Context, tenantID, category string, values []string, spec model.FilterSpec) (model.DistributionResult, error)
	GapAnalysis(ctx context.Context, tenantID, category string, spec model.FilterSpec) (model.GapAnalysis, error)
}

type catalogUsecase struct {
	registry    repository.SchemaRegistry
	invalidator repository.SchemaInvalidator
	builder     *PredicateBuilder
	assembler   *PipelineAssembler
	executor    repository.PipelineExecutor
	log         logger.Logger
}

func NewCatalogUsecase(
	registry repository.SchemaRegistry,
	invalidator repository.SchemaInvalidator,
	resolver repository.ValueResolver,
	executor repository.PipelineExecutor,
	log logger.Logger,
) CatalogUsecase {
	return &catalogUsecase{
		registry:    registry,
		invalidator: invalidator,
		builder:     NewPredicateBuilder(resolver, log),
		assembler:   NewPipelineAssembler(),
		executor:    executor,
		log:         log.WithComponent("catalog_usecase"),
	}
}

func (uc *catalogUsecase) GetSchema(ctx context.Context, tenantID string) (*model.TenantSchema, error) {
	if tenantID == "" {
		return nil, errors.ErrInvalidTenantID
	}
	return uc.registry.GetSchema(ctx, tenantID)
}

func (uc *catalogUsecase) InvalidateSchema(ctx context.Context, tenantID string) error {
	if tenantID == "" {
		return errors.ErrInvalidTenantID
	}
	uc.log.WithContext(ctx).WithFields(map[string]interface{}{"tenant_id": tenantID}).
		Info("invalidating tenant schema")
	return uc.invalidator.InvalidateSchema(ctx, tenantID)
}

func (uc *catalogUsecase) ListContent(ctx context.Context, tenantID string, spec model.FilterSpec) (model.QueryResult, error) {
	schema, predicate, normalized, err := uc.compile(ctx, tenantID, spec)
	if err != nil {
		return model.QueryResult{}, err
	}

	total, err := uc.executor.Count(ctx, uc.assembler.CountPipeline(schema, predicate))
	if err != nil {
		return model.QueryResult{}, err
	}

	if normalized.Page.CountOnly() {
		return model.NewQueryResult(nil, total, normalized.Page), nil
	}

	pipeline := uc.assembler.ListPipeline(schema, predicate, normalized.Page)
	rows, err := uc.executor.Execute(ctx, pipeline)
	if err != nil {
		return model.QueryResult{}, err
	}

	records := mapRecords(rows)
	if pipeline.ReverseResults {
		reverseRecords(records)
	}
	return model.NewQueryResult(records, total, normalized.Page), nil
}

func (uc *catalogUsecase) CountContent(ctx context.Context, tenantID string, spec model.FilterSpec) (int64, error) {
	schema, predicate, _, err := uc.compile(ctx, tenantID, spec)
	if err != nil {
		return 0, err
	}
	return uc.executor.Count(ctx, uc.assembler.CountPipeline(schema, predicate))
}

func (uc *catalogUsecase) SearchContent(ctx context.Context, tenantID string, spec model.FilterSpec) (model.SearchResult, error) {
	if len(spec.FreeTextTerms) == 0 {
		return model.SearchResult{}, errors.ErrMissingSearchTerms
	}

	schema, predicate, _, err := uc.compile(ctx, tenantID, spec)
	if err != nil {
		return model.SearchResult{}, err
	}

	// The term disjunction narrows the compiled filter, it never replaces it.
	predicate = model.And(predicate, SearchTermsPredicate(spec.FreeTextTerms))
	pipeline := uc.assembler.SearchPipeline(schema, predicate, spec.Page.Limit)
	rows, err := uc.executor.Execute(ctx, pipeline)
	if err != nil {
		return model.SearchResult{}, err
	}

	records := mapRecords(rows)
	return model.SearchResult{Records: records, Count: len(records)}, nil
}

func (uc *catalogUsecase) CategoryDistribution(ctx context.Context, tenantID, category string, values []string, spec model.FilterSpec) (model.DistributionResult, error) {
	schema, predicate, _, err := uc.compile(ctx, tenantID, spec)
	if err != nil {
		return model.DistributionResult{}, err
	}

	mapping, ok := schema.Mapping(category)
	if !ok {
		return model.DistributionResult{}, errors.NewUnknownCategoryError(category, schema.CategoryNames())
	}

	rows, err := uc.executor.Execute(ctx, uc.assembler.DistributionPipeline(schema, mapping, predicate, values))
	if err != nil {
		return model.DistributionResult{}, err
	}

	return model.NewDistributionResult(category, mapValueCounts(rows)), nil
}

func (uc *catalogUsecase) GapAnalysis(ctx context.Context, tenantID, category string, spec model.FilterSpec) (model.GapAnalysis, error) {
	distribution, err := uc.CategoryDistribution(ctx, tenantID, category, nil, spec)
	if err != nil {
		return model.GapAnalysis{}, err
	}

	schema, err := uc.GetSchema(ctx, tenantID)
	if err != nil {
		return model.GapAnalysis{}, err
	}

	present := make(map[string]struct{}, len(distribution.Buckets))
	analysis := model.GapAnalysis{Category: category, Distribution: distribution}
	for _, b := range distribution.Buckets {
		present[b.Value] = struct{}{}
		if b.Percentage < model.UnderrepresentedThreshold {
			analysis.Underrepresented = append(analysis.Underrepresented, b)
		}
	}

	for _, value := range schema.Categories[category] {
		if _, ok := present[value]; !ok {
			analysis.MissingValues = append(analysis.MissingValues, value)
		}
	}

	for _, value := range analysis.MissingValues {
		analysis.Recommendations = append(analysis.Recommendations,
			fmt.Sprintf("no content tagged %q under %s; create content for it", value, category))
	}
	for _, b := range analysis.Underrepresented {
		analysis.Recommendations = append(analysis.Recommendations,
			fmt.Sprintf("%q covers only %.2f%% of %s content; consider expanding it", b.Value, b.Percentage, category))
	}
	return analysis, nil
}

// compile is the shared front half of every filtered operation: fetch the
// tenant schema, normalize the filter, log resolved ambiguities, and build the
// predicate tree.
func (uc *catalogUsecase) compile(ctx context.Context, tenantID string, spec model.FilterSpec) (*model.TenantSchema, model.Predicate, model.FilterSpec, error) {
	schema, err := uc.GetSchema(ctx, tenantID)
	if err != nil {
		return nil, model.Predicate{}, model.FilterSpec{}, err
	}

	normalized, ambiguities := spec.Normalize()
	for _, a := range ambiguities {
		uc.log.WithContext(ctx).WithFields(map[string]interface{}{
			"tenant_id": tenantID,
			"category":  a.Category,
			"values":    a.Values,
		}).Warn("filter values present in both include and exclude, exclusion wins")
	}

	predicate, err := uc.builder.Build(ctx, schema, normalized)
	if err != nil {
		return nil, model.Predicate{}, model.FilterSpec{}, err
	}
	return schema, predicate, normalized, nil
}

func reverseRecords(records []model.ContentRecord) {
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
}
