package model

import (
	"math"
	"time"
)

// ContentRecord is one catalog entry as returned to callers, with reference
// ids already resolved to display names.
type ContentRecord struct {
	ID                 string    `json:"id"`
	TenantID           string    `json:"tenantId"`
	Name               string    `json:"name"`
	URL                string    `json:"url,omitempty"`
	Description        string    `json:"description,omitempty"`
	Summary            string    `json:"summary,omitempty"`
	ContentType        string    `json:"contentType,omitempty"`
	Topic              string    `json:"topic,omitempty"`
	Tags               []string  `json:"tags,omitempty"`
	CategoryAttributes []string  `json:"categoryAttributes,omitempty"`
	GeoFocus           string    `json:"geoFocus,omitempty"`
	IsMarketingContent bool      `json:"isMarketingContent"`
	ReaderBenefit      string    `json:"readerBenefit,omitempty"`
	Confidence         string    `json:"confidence,omitempty"`
	Explanation        string    `json:"explanation,omitempty"`
	CreatedAt          time.Time `json:"createdAt,omitempty"`
}

// QueryResult packages a page of records with its sibling-count metadata.
type QueryResult struct {
	Records    []ContentRecord `json:"records"`
	TotalCount int64           `json:"totalCount"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
	HasNext    bool            `json:"hasNext"`
	HasPrev    bool            `json:"hasPrev"`
}

// NewQueryResult derives the paging metadata from the total sibling count
// and the normalized pagination window that produced the records. The
// last-window sentinel reports the final page, not the first.
func NewQueryResult(records []ContentRecord, totalCount int64, page Pagination) QueryResult {
	if records == nil {
		records = []ContentRecord{}
	}
	r := QueryResult{
		Records:    records,
		TotalCount: totalCount,
		Page:       page.Page(),
		PageSize:   page.Limit,
	}
	if page.Limit > 0 {
		r.TotalPages = int((totalCount + int64(page.Limit) - 1) / int64(page.Limit))
	}
	if page.LastN() && r.TotalPages > 0 {
		r.Page = r.TotalPages
	}
	r.HasNext = r.Page < r.TotalPages
	r.HasPrev = r.Page > 1
	return r
}

// SearchResult holds keyword search hits. Search is capped rather than
// paginated, so it carries only the hit count.
type SearchResult struct {
	Records []ContentRecord `json:"records"`
	Count   int             `json:"count"`
}

// ValueCount is one raw distribution bucket as produced by the store.
type ValueCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// DistributionBucket is one category value with its share of the total.
type DistributionBucket struct {
	Value      string  `json:"value"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DistributionResult reports how a category's values are spread across the
// matching records, largest bucket first.
type DistributionResult struct {
	Category string               `json:"category"`
	Total    int64                `json:"total"`
	Buckets  []DistributionBucket `json:"buckets"`
}

// NewDistributionResult computes bucket percentages to two decimal places.
// A zero total yields zero percentages rather than a division error.
func NewDistributionResult(category string, counts []ValueCount) DistributionResult {
	var total int64
	for _, c := range counts {
		total += c.Count
	}
	buckets := make([]DistributionBucket, 0, len(counts))
	for _, c := range counts {
		b := DistributionBucket{Value: c.Value, Count: c.Count}
		if total > 0 {
			b.Percentage = math.Round(float64(c.Count)/float64(total)*10000) / 100
		}
		buckets = append(buckets, b)
	}
	return DistributionResult{Category: category, Total: total, Buckets: buckets}
}

// UnderrepresentedThreshold is the share below which a present value counts
// as underrepresented in a gap analysis.
const UnderrepresentedThreshold = 10.0

// GapAnalysis contrasts a category's configured values with their actual
// spread in the catalog.
type GapAnalysis struct {
	Category         string               `json:"category"`
	Distribution     DistributionResult   `json:"distribution"`
	MissingValues    []string             `json:"missingValues"`
	Underrepresented []DistributionBucket `json:"underrepresented"`
	Recommendations  []string             `json:"recommendations"`
}
