package model

import (
	"time"
)

// Pagination limits and sentinels.
const (
	// MaxPageSize caps the limit of any list query.
	MaxPageSize = 200
	// DefaultPageSize applies when the caller supplies no limit.
	DefaultPageSize = 30
	// SearchResultCap bounds keyword search results; search carries no
	// pagination metadata beyond what is returned.
	SearchResultCap = 50

	// SkipLastN is the sentinel skip meaning "return the last page of the
	// result set" (the limit still bounds how many records come back).
	SkipLastN = -1
	// SkipCountOnly is the sentinel skip meaning "run only the count
	// pipeline and return no records".
	SkipCountOnly = -2
)

// CategoryFilter holds the included and excluded values for one category.
type CategoryFilter struct {
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
}

// Ambiguous returns the values present on both sides of the filter.
func (f CategoryFilter) Ambiguous() []string {
	if len(f.Include) == 0 || len(f.Exclude) == 0 {
		return nil
	}
	excluded := make(map[string]struct{}, len(f.Exclude))
	for _, v := range f.Exclude {
		excluded[v] = struct{}{}
	}
	var both []string
	for _, v := range f.Include {
		if _, ok := excluded[v]; ok {
			both = append(both, v)
		}
	}
	return both
}

// Resolve applies the exclude-wins contract: values present on both sides are
// dropped from the include list and kept in the exclude list. The returned
// filter is a copy; the ambiguous values are reported for observability.
func (f CategoryFilter) Resolve() (CategoryFilter, []string) {
	ambiguous := f.Ambiguous()
	if len(ambiguous) == 0 {
		return f, nil
	}
	dropped := make(map[string]struct{}, len(ambiguous))
	for _, v := range ambiguous {
		dropped[v] = struct{}{}
	}
	resolved := CategoryFilter{Exclude: f.Exclude}
	for _, v := range f.Include {
		if _, ok := dropped[v]; !ok {
			resolved.Include = append(resolved.Include, v)
		}
	}
	return resolved, ambiguous
}

// Empty reports whether the filter constrains nothing.
func (f CategoryFilter) Empty() bool {
	return len(f.Include) == 0 && len(f.Exclude) == 0
}

// DateRange narrows the primary timestamp field with inclusive bounds.
// A nil bound imposes no constraint on that side.
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Empty reports whether neither bound is set.
func (r DateRange) Empty() bool {
	return r.Start == nil && r.End == nil
}

// Pagination carries the skip/limit window of a list query. Skip supports
// the SkipLastN and SkipCountOnly sentinels.
type Pagination struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// Normalize clamps the limit to [1, MaxPageSize] (zero falls back to the
// default page size) and floors non-sentinel skips at zero.
func (p Pagination) Normalize() Pagination {
	out := p
	if out.Limit <= 0 {
		out.Limit = DefaultPageSize
	}
	if out.Limit > MaxPageSize {
		out.Limit = MaxPageSize
	}
	if out.Skip < 0 && out.Skip != SkipLastN && out.Skip != SkipCountOnly {
		out.Skip = 0
	}
	return out
}

// CountOnly reports whether only the sibling count pipeline should run.
func (p Pagination) CountOnly() bool { return p.Skip == SkipCountOnly }

// LastN reports whether the final window of the result set was requested.
func (p Pagination) LastN() bool { return p.Skip == SkipLastN }

// Page returns the 1-based page number of a normalized pagination window.
func (p Pagination) Page() int {
	if p.Limit <= 0 || p.Skip <= 0 {
		return 1
	}
	return p.Skip/p.Limit + 1
}

// PageToSkip converts a 1-based page number into a skip offset.
func PageToSkip(page, pageSize int) int {
	if page <= 1 {
		return 0
	}
	return (page - 1) * pageSize
}

// FilterSpec is the compiler's input unit: per-category include/exclude
// values plus the orthogonal date range, boolean flags, free-text terms, and
// pagination window. A spec is created per request and never mutated after
// compilation.
type FilterSpec struct {
	Categories    map[string]CategoryFilter `json:"categories,omitempty"`
	DateRange     *DateRange                `json:"dateRange,omitempty"`
	BooleanFlags  map[string]bool           `json:"booleanFlags,omitempty"`
	FreeTextTerms []string                  `json:"freeTextTerms,omitempty"`
	Page          Pagination                `json:"pagination"`
}

// AmbiguousCategory reports one category whose filter carried values on both
// sides before exclude-wins resolution.
type AmbiguousCategory struct {
	Category string
	Values   []string
}

// Normalize returns a copy with pagination clamped, empty category filters
// dropped, and the exclude-wins rule applied, together with the list of
// ambiguous categories for diagnostic logging.
func (s FilterSpec) Normalize() (FilterSpec, []AmbiguousCategory) {
	out := s
	out.Page = s.Page.Normalize()

	var ambiguities []AmbiguousCategory
	if len(s.Categories) > 0 {
		out.Categories = make(map[string]CategoryFilter, len(s.Categories))
		for name, f := range s.Categories {
			if f.Empty() {
				continue
			}
			resolved, ambiguous := f.Resolve()
			if len(ambiguous) > 0 {
				ambiguities = append(ambiguities, AmbiguousCategory{Category: name, Values: ambiguous})
			}
			out.Categories[name] = resolved
		}
	}
	return out, ambiguities
}
