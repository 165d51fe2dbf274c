package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StageKind enumerates the pipeline stage types the compiler emits.
type StageKind string

const (
	StageMatch   StageKind = "match"
	StageLookup  StageKind = "lookup"
	StageUnwind  StageKind = "unwind"
	StageGroup   StageKind = "group"
	StageSort    StageKind = "sort"
	StageSkip    StageKind = "skip"
	StageLimit   StageKind = "limit"
	StageProject StageKind = "project"
	StageCount   StageKind = "count"
)

// LookupSpec joins a reference collection onto the working set.
type LookupSpec struct {
	From         string `json:"from"`
	LocalField   string `json:"localField"`
	ForeignField string `json:"foreignField"`
	As           string `json:"as"`
}

// SortSpec orders the working set by one field.
type SortSpec struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// GroupSpec buckets the working set by a field path and counts each bucket.
type GroupSpec struct {
	ByField    string `json:"byField"`
	CountAlias string `json:"countAlias"`
}

// Stage is one pipeline step: a tagged union over the stage kinds, with
// exactly the field for its kind populated.
type Stage struct {
	Kind    StageKind       `json:"kind"`
	Match   *Predicate      `json:"match,omitempty"`
	Lookup  *LookupSpec     `json:"lookup,omitempty"`
	Unwind  string          `json:"unwind,omitempty"`
	Group   *GroupSpec      `json:"group,omitempty"`
	Sort    []SortSpec      `json:"sort,omitempty"`
	Skip    int64           `json:"skip,omitempty"`
	Limit   int64           `json:"limit,omitempty"`
	Project map[string]bool `json:"project,omitempty"`
	Count   string          `json:"count,omitempty"`
}

func MatchStage(p Predicate) Stage     { return Stage{Kind: StageMatch, Match: &p} }
func LookupStage(l LookupSpec) Stage   { return Stage{Kind: StageLookup, Lookup: &l} }
func UnwindStage(path string) Stage    { return Stage{Kind: StageUnwind, Unwind: path} }
func GroupStage(g GroupSpec) Stage     { return Stage{Kind: StageGroup, Group: &g} }
func SortStage(s ...SortSpec) Stage    { return Stage{Kind: StageSort, Sort: s} }
func SkipStage(n int64) Stage          { return Stage{Kind: StageSkip, Skip: n} }
func LimitStage(n int64) Stage         { return Stage{Kind: StageLimit, Limit: n} }
func CountStage(alias string) Stage    { return Stage{Kind: StageCount, Count: alias} }
func ProjectStage(p map[string]bool) Stage {
	return Stage{Kind: StageProject, Project: p}
}

// CompiledPipeline is the executable artifact of a compilation: a stage list
// bound to one collection and one tenant. ReverseResults flags the
// last-window trick where the pipeline sorts ascending and the caller
// restores descending order after execution.
type CompiledPipeline struct {
	TenantID       string  `json:"tenantId"`
	Collection     string  `json:"collection"`
	Stages         []Stage `json:"stages"`
	ReverseResults bool    `json:"reverseResults,omitempty"`
}

// TenantScoped reports whether the pipeline opens with a match stage that
// pins the tenant field to the pipeline's own tenant. The executor refuses
// any pipeline for which this does not hold.
func (p CompiledPipeline) TenantScoped() bool {
	if p.TenantID == "" || len(p.Stages) == 0 {
		return false
	}
	first := p.Stages[0]
	if first.Kind != StageMatch || first.Match == nil {
		return false
	}
	return predicatePinsTenant(*first.Match, p.TenantID)
}

// predicatePinsTenant walks conjunction nodes looking for an equality on the
// tenant field with the expected id. The value must be the stored ObjectID
// form: a hex string compares unequal against every document, so it does not
// count as scoping. Disjunctions do not count either: a tenant constraint
// inside an $or is not a guarantee.
func predicatePinsTenant(p Predicate, tenantID string) bool {
	if p.Op == OpEq && p.Field == FieldTenant {
		oid, ok := p.Value.(primitive.ObjectID)
		return ok && oid.Hex() == tenantID
	}
	if p.Op == OpAnd {
		for _, c := range p.Children {
			if predicatePinsTenant(c, tenantID) {
				return true
			}
		}
	}
	return false
}
