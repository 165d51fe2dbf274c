package usecase

import (
	"time"

	"demand-genius/internal/catalog/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// mapRecords turns raw pipeline rows into content records, flattening the
// joined reference documents into display names.
func mapRecords(rows []bson.M) []model.ContentRecord {
	records := make([]model.ContentRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, mapRecord(row))
	}
	return records
}

func mapRecord(row bson.M) model.ContentRecord {
	r := model.ContentRecord{
		ID:                 hexID(row[model.FieldID]),
		TenantID:           hexID(row[model.FieldTenant]),
		Name:               stringField(row, model.FieldName),
		URL:                stringField(row, "url"),
		Description:        stringField(row, "description"),
		Summary:            stringField(row, "summary"),
		GeoFocus:           stringField(row, model.FieldGeoFocus),
		ReaderBenefit:      stringField(row, "readerBenefit"),
		Confidence:         stringField(row, "confidence"),
		Explanation:        stringField(row, "explanation"),
		IsMarketingContent: boolField(row, model.FieldIsMarketingContent),
		CreatedAt:          timeField(row, model.FieldCreatedAt),
	}

	if names := joinedNames(row, model.FieldContentType+"Info"); len(names) > 0 {
		r.ContentType = names[0]
	}
	if names := joinedNames(row, model.FieldTopic+"Info"); len(names) > 0 {
		r.Topic = names[0]
	}
	r.Tags = joinedNames(row, model.FieldTag+"Info")
	r.CategoryAttributes = joinedNames(row, model.FieldCategoryAttribute+"Info")
	return r
}

// joinedNames extracts the display names from a lookup result array. The
// alias may be missing, a bare document (after an unwind), or an array.
func joinedNames(row bson.M, alias string) []string {
	raw, ok := row[alias]
	if !ok || raw == nil {
		return nil
	}

	var docs []bson.M
	switch v := raw.(type) {
	case primitive.A:
		for _, item := range v {
			if doc, ok := asDocument(item); ok {
				docs = append(docs, doc)
			}
		}
	case []bson.M:
		docs = v
	default:
		if doc, ok := asDocument(v); ok {
			docs = []bson.M{doc}
		}
	}

	var names []string
	for _, doc := range docs {
		if name := stringField(doc, model.FieldName); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func asDocument(v interface{}) (bson.M, bool) {
	switch doc := v.(type) {
	case bson.M:
		return doc, true
	case bson.D:
		return doc.Map(), true
	default:
		return nil, false
	}
}

func hexID(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return ""
	}
}

func stringField(doc bson.M, key string) string {
	if s, ok := doc[key].(string); ok {
		return s
	}
	return ""
}

func boolField(doc bson.M, key string) bool {
	if b, ok := doc[key].(bool); ok {
		return b
	}
	return false
}

func timeField(doc bson.M, key string) time.Time {
	switch v := doc[key].(type) {
	case primitive.DateTime:
		return v.Time().UTC()
	case time.Time:
		return v.UTC()
	default:
		return time.Time{}
	}
}

// mapValueCounts decodes grouped distribution rows into value counts. Rows
// whose bucket value is null or missing are skipped: they represent
// documents without the category rather than a real value.
func mapValueCounts(rows []bson.M) []model.ValueCount {
	counts := make([]model.ValueCount, 0, len(rows))
	for _, row := range rows {
		value, ok := row[model.FieldID].(string)
		if !ok || value == "" {
			continue
		}
		counts = append(counts, model.ValueCount{Value: value, Count: int64Field(row, countAlias)})
	}
	return counts
}

func int64Field(doc bson.M, key string) int64 {
	switch v := doc[key].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}
