package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryFilterResolveExcludeWins(t *testing.T) {
	f := CategoryFilter{
		Include: []string{"TOFU", "MOFU"},
		Exclude: []string{"MOFU", "BOFU"},
	}

	resolved, ambiguous := f.Resolve()
	assert.Equal(t, []string{"MOFU"}, ambiguous)
	assert.Equal(t, []string{"TOFU"}, resolved.Include)
	assert.Equal(t, []string{"MOFU", "BOFU"}, resolved.Exclude)
}

func TestCategoryFilterResolveFullyAmbiguous(t *testing.T) {
	f := CategoryFilter{
		Include: []string{"Blog"},
		Exclude: []string{"Blog"},
	}

	resolved, ambiguous := f.Resolve()
	assert.Equal(t, []string{"Blog"}, ambiguous)
	assert.Empty(t, resolved.Include)
	assert.Equal(t, []string{"Blog"}, resolved.Exclude)
}

func TestCategoryFilterResolveNoOverlap(t *testing.T) {
	f := CategoryFilter{Include: []string{"Blog"}, Exclude: []string{"Video"}}

	resolved, ambiguous := f.Resolve()
	assert.Nil(t, ambiguous)
	assert.Equal(t, f, resolved)
}

func TestPaginationNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Pagination
		want Pagination
	}{
		{"defaults", Pagination{}, Pagination{Skip: 0, Limit: DefaultPageSize}},
		{"clamped to max", Pagination{Limit: 1000}, Pagination{Skip: 0, Limit: MaxPageSize}},
		{"negative skip floored", Pagination{Skip: -7, Limit: 10}, Pagination{Skip: 0, Limit: 10}},
		{"last-window sentinel kept", Pagination{Skip: SkipLastN, Limit: 5}, Pagination{Skip: SkipLastN, Limit: 5}},
		{"count-only sentinel kept", Pagination{Skip: SkipCountOnly, Limit: 5}, Pagination{Skip: SkipCountOnly, Limit: 5}},
		{"negative limit replaced", Pagination{Limit: -1}, Pagination{Skip: 0, Limit: DefaultPageSize}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestPaginationSentinels(t *testing.T) {
	assert.True(t, Pagination{Skip: SkipCountOnly}.CountOnly())
	assert.True(t, Pagination{Skip: SkipLastN}.LastN())
	assert.False(t, Pagination{Skip: 0}.CountOnly())
	assert.False(t, Pagination{Skip: 0}.LastN())
}

func TestPaginationPage(t *testing.T) {
	assert.Equal(t, 1, Pagination{Skip: 0, Limit: 30}.Page())
	assert.Equal(t, 2, Pagination{Skip: 30, Limit: 30}.Page())
	assert.Equal(t, 4, Pagination{Skip: 90, Limit: 30}.Page())
	assert.Equal(t, 0, PageToSkip(1, 30))
	assert.Equal(t, 60, PageToSkip(3, 30))
}

func TestFilterSpecNormalize(t *testing.T) {
	spec := FilterSpec{
		Categories: map[string]CategoryFilter{
			"Funnel Stage":      {Include: []string{"TOFU", "MOFU"}, Exclude: []string{"MOFU"}},
			CategoryContentType: {Include: []string{"Blog"}},
			"Persona":           {},
		},
		Page: Pagination{Limit: 500},
	}

	normalized, ambiguities := spec.Normalize()

	assert.Equal(t, MaxPageSize, normalized.Page.Limit)
	assert.NotContains(t, normalized.Categories, "Persona")

	funnel := normalized.Categories["Funnel Stage"]
	assert.Equal(t, []string{"TOFU"}, funnel.Include)
	assert.Equal(t, []string{"MOFU"}, funnel.Exclude)

	require.Len(t, ambiguities, 1)
	assert.Equal(t, "Funnel Stage", ambiguities[0].Category)
	assert.Equal(t, []string{"MOFU"}, ambiguities[0].Values)
}

func TestFilterSpecNormalizeLeavesInputUntouched(t *testing.T) {
	spec := FilterSpec{
		Categories: map[string]CategoryFilter{
			"Funnel Stage": {Include: []string{"TOFU"}, Exclude: []string{"TOFU"}},
		},
	}

	_, _ = spec.Normalize()

	assert.Equal(t, []string{"TOFU"}, spec.Categories["Funnel Stage"].Include)
}

func TestDateRangeEmpty(t *testing.T) {
	assert.True(t, DateRange{}.Empty())

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, DateRange{Start: &start}.Empty())
}
