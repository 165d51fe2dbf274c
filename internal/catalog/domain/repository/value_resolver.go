package repository

import (
	"context"

	"demand-genius/internal/catalog/domain/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValueResolver maps human-readable category values to the reference ids
// stored on catalog documents, and back. Matching is case-insensitive on the
// value side; unmatched values are dropped, never guessed.
type ValueResolver interface {
	// ResolveValuesToIDs returns the ids of the reference documents whose
	// display name matches one of the given values, scoped to the tenant
	// and, for shared reference collections, to the mapping's parent
	// category. The result may be shorter than the input.
	ResolveValuesToIDs(ctx context.Context, tenantID string, mapping model.FieldMapping, values []string) ([]primitive.ObjectID, error)

	// ResolveIDsToNames returns the display name for each id that exists
	// under the tenant. Unknown ids are omitted.
	ResolveIDsToNames(ctx context.Context, tenantID string, mapping model.FieldMapping, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}
