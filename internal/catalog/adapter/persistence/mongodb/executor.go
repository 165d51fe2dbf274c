package mongodb

import (
	"context"
	stderrors "errors"
	"time"

	"demand-genius/internal/catalog/domain/model"
	"demand-genius/internal/shared/errors"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ExecutorOptions tunes the retry and deadline behavior of the pipeline
// executor.
type ExecutorOptions struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// QueryTimeout bounds one Execute call, retries included. Zero means
	// the caller's context rules alone.
	QueryTimeout time.Duration
}

func DefaultExecutorOptions() ExecutorOptions {
	return ExecutorOptions{
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		QueryTimeout:    10 * time.Second,
	}
}

// withQueryTimeout narrows the context to the store round-trip budget. A
// non-positive budget leaves the caller's context untouched.
func withQueryTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// MongoPipelineExecutor runs compiled pipelines against MongoDB with bounded
// retries for transient store failures. It refuses any pipeline that is not
// scoped to its own tenant before the store is touched.
type MongoPipelineExecutor struct {
	db     *mongo.Database
	opts   ExecutorOptions
	logger *zap.Logger
}

func NewMongoPipelineExecutor(db *mongo.Database, opts ExecutorOptions, logger *zap.Logger) *MongoPipelineExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxRetries == 0 {
		opts = DefaultExecutorOptions()
	}
	return &MongoPipelineExecutor{db: db, opts: opts, logger: logger}
}

// Execute runs the pipeline and returns the raw result rows.
func (e *MongoPipelineExecutor) Execute(ctx context.Context, pipeline model.CompiledPipeline) ([]bson.M, error) {
	if err := e.guard(pipeline); err != nil {
		return nil, err
	}

	ctx, cancel := withQueryTimeout(ctx, e.opts.QueryTimeout)
	defer cancel()

	stages := translateStages(pipeline.Stages)
	var rows []bson.M
	err := e.withRetries(ctx, pipeline, func() error {
		cursor, err := e.db.Collection(pipeline.Collection).Aggregate(ctx, stages)
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)

		rows = rows[:0]
		return cursor.All(ctx, &rows)
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("pipeline executed",
		zap.String("tenant_id", pipeline.TenantID),
		zap.String("collection", pipeline.Collection),
		zap.Int("stages", len(pipeline.Stages)),
		zap.Int("rows", len(rows)))
	return rows, nil
}

// Count runs a pipeline whose terminal stage is a count and decodes it. An
// empty result means no document matched.
func (e *MongoPipelineExecutor) Count(ctx context.Context, pipeline model.CompiledPipeline) (int64, error) {
	alias := countStageAlias(pipeline)
	if alias == "" {
		return 0, errors.NewInternalError("count pipeline missing terminal count stage").
			WithComponent("pipeline_executor")
	}

	rows, err := e.Execute(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	switch v := rows[0][alias].(type) {
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	default:
		return 0, errors.NewInternalError("count stage returned a non-numeric value").
			WithComponent("pipeline_executor")
	}
}

// guard enforces the isolation contract: a pipeline that does not open by
// pinning its own tenant never reaches the store.
func (e *MongoPipelineExecutor) guard(pipeline model.CompiledPipeline) error {
	if pipeline.TenantScoped() {
		return nil
	}
	e.logger.Error("refusing pipeline without tenant scope",
		zap.String("tenant_id", pipeline.TenantID),
		zap.String("collection", pipeline.Collection))
	return errors.NewIsolationViolationError(pipeline.Collection)
}

// withRetries runs op with exponential backoff, retrying only transient
// store failures, and wraps the terminal error into the store taxonomy.
func (e *MongoPipelineExecutor) withRetries(ctx context.Context, pipeline model.CompiledPipeline, op func() error) error {
	attempt := 0
	wrapped := func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return backoff.Permanent(err)
		}
		e.logger.Warn("transient store failure, will retry",
			zap.String("tenant_id", pipeline.TenantID),
			zap.String("collection", pipeline.Collection),
			zap.Int("attempt", attempt),
			zap.Error(err))
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = e.opts.InitialInterval
	bo.MaxInterval = e.opts.MaxInterval

	err := backoff.Retry(wrapped, backoff.WithContext(backoff.WithMaxRetries(bo, e.opts.MaxRetries), ctx))
	if err == nil {
		return nil
	}
	return classifyStoreError(err)
}

func isTransient(err error) bool {
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return true
	}
	return stderrors.Is(err, context.DeadlineExceeded)
}

func classifyStoreError(err error) error {
	if mongo.IsTimeout(err) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewStoreTimeoutError(err)
	}
	if mongo.IsNetworkError(err) {
		return errors.NewStoreUnavailableError(err)
	}
	return errors.WrapError(err, "pipeline execution failed").WithComponent("pipeline_executor")
}

func countStageAlias(pipeline model.CompiledPipeline) string {
	if len(pipeline.Stages) == 0 {
		return ""
	}
	last := pipeline.Stages[len(pipeline.Stages)-1]
	if last.Kind != model.StageCount {
		return ""
	}
	return last.Count
}
