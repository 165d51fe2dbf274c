package mongodb

import (
	"context"
	"time"

	"demand-genius/internal/catalog/domain/model"
	"demand-genius/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoSchemaRegistry discovers a tenant's schema from its reference
// collections. Every read is tenant-filtered; a tenant with no catalog data
// in any collection does not exist.
type MongoSchemaRegistry struct {
	db      *mongo.Database
	timeout time.Duration
	logger  *zap.Logger
}

func NewMongoSchemaRegistry(db *mongo.Database, timeout time.Duration, logger *zap.Logger) *MongoSchemaRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MongoSchemaRegistry{db: db, timeout: timeout, logger: logger}
}

// GetSchema builds the tenant's schema from scratch. Callers wanting reuse
// between requests wrap the registry in the caching decorator.
func (r *MongoSchemaRegistry) GetSchema(ctx context.Context, tenantID string) (*model.TenantSchema, error) {
	if tenantID == "" {
		return nil, errors.ErrInvalidTenantID
	}
	tenant, err := model.ParseTenantID(tenantID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withQueryTimeout(ctx, r.timeout)
	defer cancel()

	exists, err := r.tenantExists(ctx, tenant)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.NewTenantNotFoundError(tenantID)
	}

	schema := &model.TenantSchema{
		TenantID:      tenantID,
		Categories:    make(map[string][]string),
		FieldMappings: make(map[string]model.FieldMapping),
		Collections:   model.DefaultCollections(),
		BuiltAt:       time.Now().UTC(),
	}

	if err := r.discoverParentCategories(ctx, tenant, schema); err != nil {
		return nil, err
	}
	if err := r.discoverReferenceCategory(ctx, tenant, schema, model.CategoryContentType, model.CollectionContentTypes, model.FieldContentType, false); err != nil {
		return nil, err
	}
	if err := r.discoverReferenceCategory(ctx, tenant, schema, model.CategoryTopics, model.CollectionTopics, model.FieldTopic, false); err != nil {
		return nil, err
	}
	if err := r.discoverReferenceCategory(ctx, tenant, schema, model.CategoryCustomTags, model.CollectionCustomTags, model.FieldTag, true); err != nil {
		return nil, err
	}
	if err := r.discoverLanguages(ctx, tenant, schema); err != nil {
		return nil, err
	}

	r.logger.Info("tenant schema built",
		zap.String("tenant_id", tenantID),
		zap.Int("categories", len(schema.FieldMappings)))
	return schema, nil
}

// tenantExists probes the primary and the category collections with a
// limit-1 count. Any data under the tenant id counts as existence.
func (r *MongoSchemaRegistry) tenantExists(ctx context.Context, tenant primitive.ObjectID) (bool, error) {
	opts := options.Count().SetLimit(1)
	for _, collection := range []string{model.CollectionSitemaps, model.CollectionCategories} {
		n, err := r.db.Collection(collection).CountDocuments(ctx, bson.M{model.FieldTenant: tenant}, opts)
		if err != nil {
			return false, classifyStoreError(err)
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

// discoverParentCategories maps each tenant-defined category onto the shared
// attribute collection, restricted by the parent category id, and collects
// the attribute names as its legal values.
func (r *MongoSchemaRegistry) discoverParentCategories(ctx context.Context, tenant primitive.ObjectID, schema *model.TenantSchema) error {
	cursor, err := r.db.Collection(model.CollectionCategories).Find(ctx,
		bson.M{model.FieldTenant: tenant},
		options.Find().SetSort(bson.D{{Key: model.FieldName, Value: 1}}))
	if err != nil {
		return classifyStoreError(err)
	}
	defer cursor.Close(ctx)

	var categories []struct {
		ID   primitive.ObjectID `bson:"_id"`
		Name string             `bson:"name"`
	}
	if err := cursor.All(ctx, &categories); err != nil {
		return classifyStoreError(err)
	}

	for _, category := range categories {
		if category.Name == "" {
			continue
		}
		values, err := r.referenceNames(ctx, model.CollectionCategoryAttributes, bson.M{
			model.FieldTenant:            tenant,
			model.FieldAttributeCategory: category.ID,
		})
		if err != nil {
			return err
		}

		schema.Categories[category.Name] = values
		schema.FieldMappings[category.Name] = model.FieldMapping{
			CategoryName:        category.Name,
			SourceCollection:    model.CollectionSitemaps,
			FieldPath:           model.FieldCategoryAttribute,
			IsArray:             true,
			RequiresJoin:        true,
			ReferenceCollection: model.CollectionCategoryAttributes,
			JoinForeignField:    model.FieldID,
			CategoryFilterID:    category.ID,
		}
	}
	return nil
}

// discoverReferenceCategory registers a built-in category backed by its own
// reference collection. Empty collections still yield the mapping so filters
// on the category compile, they just resolve to nothing.
func (r *MongoSchemaRegistry) discoverReferenceCategory(ctx context.Context, tenant primitive.ObjectID, schema *model.TenantSchema, categoryName, collection, fieldPath string, isArray bool) error {
	values, err := r.referenceNames(ctx, collection, bson.M{model.FieldTenant: tenant})
	if err != nil {
		return err
	}

	schema.Categories[categoryName] = values
	schema.FieldMappings[categoryName] = model.FieldMapping{
		CategoryName:        categoryName,
		SourceCollection:    model.CollectionSitemaps,
		FieldPath:           fieldPath,
		IsArray:             isArray,
		RequiresJoin:        true,
		ReferenceCollection: collection,
		JoinForeignField:    model.FieldID,
	}
	return nil
}

// discoverLanguages registers the direct scalar category over the distinct
// geo focus values present on the tenant's content.
func (r *MongoSchemaRegistry) discoverLanguages(ctx context.Context, tenant primitive.ObjectID, schema *model.TenantSchema) error {
	raw, err := r.db.Collection(model.CollectionSitemaps).Distinct(ctx, model.FieldGeoFocus, bson.M{
		model.FieldTenant:   tenant,
		model.FieldGeoFocus: bson.M{"$nin": bson.A{nil, ""}},
	})
	if err != nil {
		return classifyStoreError(err)
	}

	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			values = append(values, s)
		}
	}

	schema.Categories[model.CategoryLanguage] = values
	schema.FieldMappings[model.CategoryLanguage] = model.FieldMapping{
		CategoryName:     model.CategoryLanguage,
		SourceCollection: model.CollectionSitemaps,
		FieldPath:        model.FieldGeoFocus,
	}
	return nil
}

// referenceNames returns the display names in a reference collection
// matching the filter, sorted for stable schema output.
func (r *MongoSchemaRegistry) referenceNames(ctx context.Context, collection string, filter bson.M) ([]string, error) {
	cursor, err := r.db.Collection(collection).Find(ctx, filter,
		options.Find().
			SetSort(bson.D{{Key: model.FieldName, Value: 1}}).
			SetProjection(bson.M{model.FieldName: 1}))
	if err != nil {
		return nil, classifyStoreError(err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		Name string `bson:"name"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, classifyStoreError(err)
	}

	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.Name != "" {
			names = append(names, doc.Name)
		}
	}
	return names, nil
}
