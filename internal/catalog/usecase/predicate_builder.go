package usecase

import (
	"context"
	"regexp"
	"sort"

	"demand-genius/internal/catalog/domain/model"
	"demand-genius/internal/catalog/domain/repository"
	"demand-genius/internal/shared/errors"
	"demand-genius/internal/shared/logger"
)

// PredicateBuilder turns a normalized filter spec into a storage-neutral
// predicate tree, resolving display values to reference ids along the way.
type PredicateBuilder struct {
	resolver repository.ValueResolver
	log      logger.Logger
}

func NewPredicateBuilder(resolver repository.ValueResolver, log logger.Logger) *PredicateBuilder {
	return &PredicateBuilder{resolver: resolver, log: log.WithComponent("predicate_builder")}
}

// Build compiles the filter's category selections, date range, and boolean
// flags into one conjunction rooted at the tenant constraint. The filter must
// already be normalized: empty entries dropped and exclude-wins applied.
func (b *PredicateBuilder) Build(ctx context.Context, schema *model.TenantSchema, spec model.FilterSpec) (model.Predicate, error) {
	tenantOID, err := model.ParseTenantID(schema.TenantID)
	if err != nil {
		return model.Predicate{}, err
	}
	conjuncts := []model.Predicate{model.Eq(model.FieldTenant, tenantOID)}

	for _, category := range sortedKeys(spec.Categories) {
		filter := spec.Categories[category]
		mapping, ok := schema.Mapping(category)
		if !ok {
			return model.Predicate{}, errors.NewUnknownCategoryError(category, schema.CategoryNames())
		}

		p, err := b.buildCategoryPredicate(ctx, schema.TenantID, mapping, filter)
		if err != nil {
			return model.Predicate{}, err
		}
		conjuncts = append(conjuncts, p)
	}

	if spec.DateRange != nil && !spec.DateRange.Empty() {
		if spec.DateRange.Start != nil {
			conjuncts = append(conjuncts, model.Gte(model.FieldCreatedAt, *spec.DateRange.Start))
		}
		if spec.DateRange.End != nil {
			conjuncts = append(conjuncts, model.Lte(model.FieldCreatedAt, *spec.DateRange.End))
		}
	}

	for _, field := range sortedKeys(spec.BooleanFlags) {
		conjuncts = append(conjuncts, model.Eq(field, spec.BooleanFlags[field]))
	}

	return model.And(conjuncts...), nil
}

// buildCategoryPredicate produces the include/exclude constraints for one
// category. Reference-backed categories go through value resolution; direct
// scalar categories match their values case-insensitively in place.
func (b *PredicateBuilder) buildCategoryPredicate(ctx context.Context, tenantID string, mapping model.FieldMapping, filter model.CategoryFilter) (model.Predicate, error) {
	if !mapping.RequiresJoin {
		return b.buildScalarPredicate(mapping, filter), nil
	}

	var parts []model.Predicate

	if len(filter.Include) > 0 {
		ids, err := b.resolver.ResolveValuesToIDs(ctx, tenantID, mapping, filter.Include)
		if err != nil {
			return model.Predicate{}, err
		}
		if len(ids) == 0 {
			b.log.WithContext(ctx).WithFields(map[string]interface{}{
				"category": mapping.CategoryName,
				"values":   filter.Include,
			}).Debug("no include values resolved, filter matches nothing")
		}
		// An empty id set is kept: the filter then matches no document,
		// which is the contract when every requested value is unknown.
		parts = append(parts, model.In(mapping.FieldPath, objectIDValues(ids)))
	}

	if len(filter.Exclude) > 0 {
		ids, err := b.resolver.ResolveValuesToIDs(ctx, tenantID, mapping, filter.Exclude)
		if err != nil {
			return model.Predicate{}, err
		}
		// Unresolvable exclusions constrain nothing.
		if len(ids) > 0 {
			if mapping.IsArray {
				parts = append(parts, model.Nor(model.In(mapping.FieldPath, objectIDValues(ids))))
			} else {
				parts = append(parts, model.Nin(mapping.FieldPath, objectIDValues(ids)))
			}
		}
	}

	return model.And(parts...), nil
}

func (b *PredicateBuilder) buildScalarPredicate(mapping model.FieldMapping, filter model.CategoryFilter) model.Predicate {
	var parts []model.Predicate
	if len(filter.Include) > 0 {
		parts = append(parts, model.InFold(mapping.FieldPath, filter.Include))
	}
	if len(filter.Exclude) > 0 {
		parts = append(parts, model.Nor(model.InFold(mapping.FieldPath, filter.Exclude)))
	}
	return model.And(parts...)
}

// searchFields are the text fields keyword search scans.
var searchFields = []string{"name", "description", "summary"}

// SearchTermsPredicate matches any search term against any of the text
// fields, case-insensitively. Terms are treated as literals, not patterns.
// Callers AND the result with the compiled filter predicate, which carries
// the tenant constraint.
func SearchTermsPredicate(terms []string) model.Predicate {
	var alternatives []model.Predicate
	for _, term := range terms {
		quoted := regexp.QuoteMeta(term)
		for _, field := range searchFields {
			alternatives = append(alternatives, model.Regex(field, quoted))
		}
	}
	return model.Or(alternatives...)
}

func objectIDValues[T any](ids []T) []interface{} {
	out := make([]interface{}, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
