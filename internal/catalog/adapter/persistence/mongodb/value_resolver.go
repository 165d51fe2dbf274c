package mongodb

import (
	"context"
	"strings"
	"time"

	"demand-genius/internal/catalog/domain/model"
	"demand-genius/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoValueResolver resolves display values against reference collections.
// Matching is case-insensitive; values with no counterpart in the store are
// simply absent from the result.
type MongoValueResolver struct {
	db      *mongo.Database
	timeout time.Duration
	logger  *zap.Logger
}

func NewMongoValueResolver(db *mongo.Database, timeout time.Duration, logger *zap.Logger) *MongoValueResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MongoValueResolver{db: db, timeout: timeout, logger: logger}
}

func (r *MongoValueResolver) ResolveValuesToIDs(ctx context.Context, tenantID string, mapping model.FieldMapping, values []string) ([]primitive.ObjectID, error) {
	tenant, err := model.ParseTenantID(tenantID)
	if err != nil {
		return nil, err
	}
	if !mapping.RequiresJoin {
		return nil, errors.NewValidationError("category is not reference backed").
			WithCause(errors.ErrInvalidFieldMapping).
			WithDetail("category", mapping.CategoryName)
	}
	if len(values) == 0 {
		return []primitive.ObjectID{}, nil
	}

	ctx, cancel := withQueryTimeout(ctx, r.timeout)
	defer cancel()

	lowered := make([]string, 0, len(values))
	for _, v := range values {
		lowered = append(lowered, strings.ToLower(v))
	}

	filter := bson.M{
		model.FieldTenant: tenant,
		"$expr": bson.M{"$in": bson.A{
			bson.M{"$toLower": "$" + model.FieldName},
			lowered,
		}},
	}
	if mapping.IsParentRestricted() {
		filter[model.FieldAttributeCategory] = mapping.CategoryFilterID
	}

	cursor, err := r.db.Collection(mapping.ReferenceCollection).Find(ctx, filter,
		options.Find().SetProjection(bson.M{model.FieldID: 1}))
	if err != nil {
		return nil, classifyStoreError(err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, classifyStoreError(err)
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}

	if len(ids) < len(values) {
		r.logger.Debug("some filter values did not resolve",
			zap.String("tenant_id", tenantID),
			zap.String("category", mapping.CategoryName),
			zap.Int("requested", len(values)),
			zap.Int("resolved", len(ids)))
	}
	return ids, nil
}

func (r *MongoValueResolver) ResolveIDsToNames(ctx context.Context, tenantID string, mapping model.FieldMapping, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	tenant, err := model.ParseTenantID(tenantID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return map[primitive.ObjectID]string{}, nil
	}

	ctx, cancel := withQueryTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{
		model.FieldTenant: tenant,
		model.FieldID:     bson.M{"$in": ids},
	}
	cursor, err := r.db.Collection(mapping.ReferenceCollection).Find(ctx, filter,
		options.Find().SetProjection(bson.M{model.FieldName: 1}))
	if err != nil {
		return nil, classifyStoreError(err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID   primitive.ObjectID `bson:"_id"`
		Name string             `bson:"name"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, classifyStoreError(err)
	}

	names := make(map[primitive.ObjectID]string, len(docs))
	for _, doc := range docs {
		names[doc.ID] = doc.Name
	}
	return names, nil
}
