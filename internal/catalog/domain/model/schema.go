package model

import (
	"sort"
	"time"

	"demand-genius/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names of the content catalog. The primary collection holds one
// document per crawled page; the reference collections hold tenant-scoped
// enumerations resolved by id.
const (
	CollectionSitemaps           = "sitemaps"
	CollectionCategories         = "categories"
	CollectionCategoryAttributes = "category_attributes"
	CollectionContentTypes       = "content_types"
	CollectionTopics             = "topics"
	CollectionCustomTags         = "custom_tags"
)

// Well-known field names shared by every collection.
const (
	FieldID     = "_id"
	FieldTenant = "tenant"
	FieldName   = "name"

	// Sitemap fields referenced by mappings and pipelines.
	FieldCategoryAttribute  = "categoryAttribute"
	FieldContentType        = "contentType"
	FieldTopic              = "topic"
	FieldTag                = "tag"
	FieldGeoFocus           = "geoFocus"
	// FieldAttributeCategory points an attribute document at its owning
	// parent category.
	FieldAttributeCategory = "category"
	FieldCreatedAt          = "createdAt"
	FieldIsMarketingContent = "isMarketingContent"
)

// Built-in category names that do not come from the categories collection.
const (
	CategoryContentType = "Content Type"
	CategoryTopics      = "Topics"
	CategoryCustomTags  = "Custom Tags"
	CategoryLanguage    = "Language"
)

// ParseTenantID converts the hex tenant id carried by the API surface into
// the ObjectID every store read filters on. Documents keep the tenant as an
// ObjectID, so a raw hex string in a filter can never match.
func ParseTenantID(tenantID string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(tenantID)
	if err != nil {
		return primitive.NilObjectID, errors.NewValidationError("tenant id is not a valid object id").
			WithCause(errors.ErrInvalidTenantID).
			WithDetail("tenant_id", tenantID)
	}
	return oid, nil
}

// FieldMapping describes how one category is physically stored: either a
// direct scalar field on the primary collection, or a reference (scalar or
// array) resolved through a join against a reference collection. When one
// reference collection holds values for several categories, CategoryFilterID
// restricts the join to the owning parent category.
type FieldMapping struct {
	CategoryName        string             `json:"categoryName" bson:"categoryName"`
	SourceCollection    string             `json:"sourceCollection" bson:"sourceCollection"`
	FieldPath           string             `json:"fieldPath" bson:"fieldPath"`
	IsArray             bool               `json:"isArray" bson:"isArray"`
	RequiresJoin        bool               `json:"requiresJoin" bson:"requiresJoin"`
	ReferenceCollection string             `json:"referenceCollection,omitempty" bson:"referenceCollection,omitempty"`
	JoinForeignField    string             `json:"joinForeignField,omitempty" bson:"joinForeignField,omitempty"`
	CategoryFilterID    primitive.ObjectID `json:"categoryFilterId,omitempty" bson:"categoryFilterId,omitempty"`
}

// Validate enforces the mapping invariant: a join mapping must name the
// reference collection and the foreign key it joins on.
func (m FieldMapping) Validate() error {
	if m.CategoryName == "" {
		return errors.NewValidationError("field mapping requires a category name").
			WithCause(errors.ErrInvalidFieldMapping)
	}
	if m.FieldPath == "" {
		return errors.NewValidationError("field mapping requires a field path").
			WithCause(errors.ErrInvalidFieldMapping).
			WithDetail("category", m.CategoryName)
	}
	if m.RequiresJoin && (m.ReferenceCollection == "" || m.JoinForeignField == "") {
		return errors.NewValidationError("join mapping requires a reference collection and join key").
			WithCause(errors.ErrInvalidFieldMapping).
			WithDetail("category", m.CategoryName)
	}
	return nil
}

// IsParentRestricted reports whether the reference collection is shared
// across categories and the join must be narrowed to this category's id.
func (m FieldMapping) IsParentRestricted() bool {
	return m.RequiresJoin && !m.CategoryFilterID.IsZero()
}

// LookupAlias is the pipeline alias under which joined reference documents
// for this mapping appear on a result row.
func (m FieldMapping) LookupAlias() string {
	return m.FieldPath + "Info"
}

// CollectionInfo describes the id, display-name, and tenant-scoping fields of
// one collection.
type CollectionInfo struct {
	Name        string `json:"name" bson:"name"`
	IDField     string `json:"idField" bson:"idField"`
	NameField   string `json:"nameField" bson:"nameField"`
	TenantField string `json:"tenantField" bson:"tenantField"`
}

// TenantSchema is the per-tenant catalog of categories, their legal values,
// and the field mappings describing their physical representation. Instances
// are built per tenant, cached with a TTL, and never shared across tenants.
type TenantSchema struct {
	TenantID      string                    `json:"tenantId" bson:"tenantId"`
	Categories    map[string][]string       `json:"categories" bson:"categories"`
	FieldMappings map[string]FieldMapping   `json:"fieldMappings" bson:"fieldMappings"`
	Collections   map[string]CollectionInfo `json:"collections" bson:"collections"`
	BuiltAt       time.Time                 `json:"builtAt" bson:"builtAt"`
}

// Mapping returns the field mapping for a category, if the category exists.
func (s *TenantSchema) Mapping(category string) (FieldMapping, bool) {
	m, ok := s.FieldMappings[category]
	return m, ok
}

// HasCategory reports whether the category is part of the tenant's taxonomy.
func (s *TenantSchema) HasCategory(category string) bool {
	_, ok := s.FieldMappings[category]
	return ok
}

// CategoryNames returns the tenant's category names in sorted order.
func (s *TenantSchema) CategoryNames() []string {
	names := make([]string, 0, len(s.FieldMappings))
	for name := range s.FieldMappings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// JoinMappings returns the mappings that require a join, deduplicated by
// field path and sorted by it, so pipeline assembly emits each lookup once
// and in a deterministic order.
func (s *TenantSchema) JoinMappings() []FieldMapping {
	byPath := make(map[string]FieldMapping)
	for _, m := range s.FieldMappings {
		if !m.RequiresJoin {
			continue
		}
		if _, seen := byPath[m.FieldPath]; !seen {
			byPath[m.FieldPath] = m
		}
	}
	paths := make([]string, 0, len(byPath))
	for p := range byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	mappings := make([]FieldMapping, 0, len(paths))
	for _, p := range paths {
		mappings = append(mappings, byPath[p])
	}
	return mappings
}

// CategoryNameForAttribute returns the category a category_attributes parent
// id belongs to, used when flattening joined attribute documents onto output
// records.
func (s *TenantSchema) CategoryNameForAttribute(parentID primitive.ObjectID) (string, bool) {
	if parentID.IsZero() {
		return "", false
	}
	for name, m := range s.FieldMappings {
		if m.CategoryFilterID == parentID {
			return name, true
		}
	}
	return "", false
}

// DefaultCollections returns the collection metadata shared by all tenants.
func DefaultCollections() map[string]CollectionInfo {
	info := func(name string) CollectionInfo {
		return CollectionInfo{Name: name, IDField: FieldID, NameField: FieldName, TenantField: FieldTenant}
	}
	return map[string]CollectionInfo{
		CollectionSitemaps:           info(CollectionSitemaps),
		CollectionCategories:         info(CollectionCategories),
		CollectionCategoryAttributes: info(CollectionCategoryAttributes),
		CollectionContentTypes:       info(CollectionContentTypes),
		CollectionTopics:             info(CollectionTopics),
		CollectionCustomTags:         info(CollectionCustomTags),
	}
}
