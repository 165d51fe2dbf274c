package usecase

import (
	"demand-genius/internal/catalog/domain/model"
)

// PipelineAssembler lays out compiled pipelines for the three query shapes.
// Every pipeline it emits opens with the tenant-scoped match stage, so the
// executor's isolation check holds by construction.
type PipelineAssembler struct{}

func NewPipelineAssembler() *PipelineAssembler {
	return &PipelineAssembler{}
}

// ListPipeline produces the paginated listing: match, display-name lookups,
// newest-first sort, then the pagination window. The last-window sentinel
// inverts the sort and flags the result for post-execution reversal.
func (a *PipelineAssembler) ListPipeline(schema *model.TenantSchema, predicate model.Predicate, page model.Pagination) model.CompiledPipeline {
	stages := []model.Stage{model.MatchStage(predicate)}
	stages = append(stages, lookupStages(schema)...)

	p := model.CompiledPipeline{
		TenantID:   schema.TenantID,
		Collection: model.CollectionSitemaps,
	}

	if page.LastN() {
		stages = append(stages,
			model.SortStage(model.SortSpec{Field: model.FieldCreatedAt, Descending: false}),
			model.LimitStage(int64(page.Limit)),
		)
		p.ReverseResults = true
	} else {
		stages = append(stages,
			model.SortStage(model.SortSpec{Field: model.FieldCreatedAt, Descending: true}),
		)
		if page.Skip > 0 {
			stages = append(stages, model.SkipStage(int64(page.Skip)))
		}
		stages = append(stages, model.LimitStage(int64(page.Limit)))
	}

	p.Stages = append(stages, model.ProjectStage(displayProjection(schema)))
	return p
}

// CountPipeline produces the sibling count of a listing: the same match
// without lookups or pagination, terminated by a count stage.
func (a *PipelineAssembler) CountPipeline(schema *model.TenantSchema, predicate model.Predicate) model.CompiledPipeline {
	return model.CompiledPipeline{
		TenantID:   schema.TenantID,
		Collection: model.CollectionSitemaps,
		Stages: []model.Stage{
			model.MatchStage(predicate),
			model.CountStage(countAlias),
		},
	}
}

// SearchPipeline produces the capped keyword search: match, lookups,
// newest-first sort, hard limit, display projection.
func (a *PipelineAssembler) SearchPipeline(schema *model.TenantSchema, predicate model.Predicate, limit int) model.CompiledPipeline {
	if limit <= 0 || limit > model.SearchResultCap {
		limit = model.SearchResultCap
	}
	stages := []model.Stage{model.MatchStage(predicate)}
	stages = append(stages, lookupStages(schema)...)
	stages = append(stages,
		model.SortStage(model.SortSpec{Field: model.FieldCreatedAt, Descending: true}),
		model.LimitStage(int64(limit)),
		model.ProjectStage(displayProjection(schema)),
	)
	return model.CompiledPipeline{
		TenantID:   schema.TenantID,
		Collection: model.CollectionSitemaps,
		Stages:     stages,
	}
}

// DistributionPipeline buckets the matching documents by one category's
// values. Reference-backed categories group on the joined display name;
// shared reference collections are narrowed to the owning parent category
// after the unwind. Direct scalar categories group on the field itself. A
// non-empty value set restricts the buckets to those values, matched
// case-insensitively.
func (a *PipelineAssembler) DistributionPipeline(schema *model.TenantSchema, mapping model.FieldMapping, predicate model.Predicate, values []string) model.CompiledPipeline {
	stages := []model.Stage{model.MatchStage(predicate)}

	groupField := mapping.FieldPath
	if mapping.RequiresJoin {
		alias := mapping.LookupAlias()
		stages = append(stages,
			model.LookupStage(model.LookupSpec{
				From:         mapping.ReferenceCollection,
				LocalField:   mapping.FieldPath,
				ForeignField: mapping.JoinForeignField,
				As:           alias,
			}),
			model.UnwindStage(alias),
		)
		if mapping.IsParentRestricted() {
			stages = append(stages, model.MatchStage(
				model.Eq(alias+"."+model.FieldAttributeCategory, mapping.CategoryFilterID),
			))
		}
		groupField = alias + "." + model.FieldName
	}

	if len(values) > 0 {
		stages = append(stages, model.MatchStage(model.InFold(groupField, values)))
	}

	stages = append(stages,
		model.GroupStage(model.GroupSpec{ByField: groupField, CountAlias: countAlias}),
		model.SortStage(model.SortSpec{Field: countAlias, Descending: true}),
	)

	return model.CompiledPipeline{
		TenantID:   schema.TenantID,
		Collection: model.CollectionSitemaps,
		Stages:     stages,
	}
}

// countAlias names the count field in count and group stages.
const countAlias = "count"

// displayFields are the primary-collection fields record mapping reads.
var displayFields = []string{
	model.FieldTenant,
	model.FieldName,
	"url",
	"description",
	"summary",
	model.FieldGeoFocus,
	"readerBenefit",
	"confidence",
	"explanation",
	model.FieldIsMarketingContent,
	model.FieldCreatedAt,
}

// displayProjection keeps only the fields the record mapper consumes, plus
// the lookup aliases carrying joined display names. Everything else stays in
// the store instead of crossing the wire.
func displayProjection(schema *model.TenantSchema) map[string]bool {
	projection := make(map[string]bool, len(displayFields)+len(schema.FieldMappings))
	for _, field := range displayFields {
		projection[field] = true
	}
	for _, m := range schema.JoinMappings() {
		projection[m.LookupAlias()+"."+model.FieldName] = true
	}
	return projection
}

// lookupStages emits one join per distinct reference field path, so result
// rows carry the display names for every reference-backed category.
func lookupStages(schema *model.TenantSchema) []model.Stage {
	joins := schema.JoinMappings()
	stages := make([]model.Stage, 0, len(joins))
	for _, m := range joins {
		stages = append(stages, model.LookupStage(model.LookupSpec{
			From:         m.ReferenceCollection,
			LocalField:   m.FieldPath,
			ForeignField: m.JoinForeignField,
			As:           m.LookupAlias(),
		}))
	}
	return stages
}
