package repository

import (
	"context"

	"demand-genius/internal/catalog/domain/model"

	"go.mongodb.org/mongo-driver/bson"
)

// PipelineExecutor runs compiled pipelines against the store. Executors are
// the last line of tenant isolation: any pipeline that is not scoped to its
// own tenant is refused with an isolation error before touching the store.
type PipelineExecutor interface {
	// Execute runs the pipeline and returns the raw result rows.
	Execute(ctx context.Context, pipeline model.CompiledPipeline) ([]bson.M, error)

	// Count runs the pipeline with a terminal count stage and returns the
	// number of matching documents.
	Count(ctx context.Context, pipeline model.CompiledPipeline) (int64, error)
}
