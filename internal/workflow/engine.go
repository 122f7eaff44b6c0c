// Package workflow implements the durable step engine: named ordered
// steps per triggering event, per-step memoization, and bounded retries
// that distinguish retriable from permanent failures.
package workflow

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/observability"
)

// HandlerFunc is the body of a workflow: it drives its steps in order
// through run.Step.
type HandlerFunc func(ctx context.Context, run *Run) error

// Definition names a workflow, binds it to its triggering event, and sets
// its retry limit.
type Definition struct {
	ID      string
	Event   events.EventType
	Retries int
	Handler HandlerFunc
}

// Result is the structured terminal outcome of a run.
type Result struct {
	RunID      string
	WorkflowID string
	Status     RunStatus
	Attempts   int
	Err        error
}

// Success reports whether the run completed.
func (r Result) Success() bool {
	return r.Status == RunStatusCompleted
}

// Engine executes workflow definitions against incoming events. Runs for
// different events may execute concurrently; steps within a run are
// strictly sequential.
type Engine struct {
	defs    []*Definition
	cfg     config.WorkflowConfig
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewEngine constructs the engine.
func NewEngine(cfg config.WorkflowConfig, logger *zap.Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// Register adds a workflow definition.
func (e *Engine) Register(def *Definition) {
	e.defs = append(e.defs, def)
}

// Definitions returns the registered workflows.
func (e *Engine) Definitions() []*Definition {
	return e.defs
}

// Execute runs def for event to a terminal state. The whole run is retried
// on retriable failure, honoring memoized steps, up to def.Retries extra
// attempts; a non-retriable failure terminates immediately.
func (e *Engine) Execute(ctx context.Context, def *Definition, event events.Event) Result {
	run := &Run{
		ID:          uuid.NewString(),
		WorkflowID:  def.ID,
		Event:       event,
		status:      RunStatusPending,
		results:     make(map[string]any),
		stepTimeout: e.cfg.StepTimeout(),
		logger:      e.logger,
		metrics:     e.metrics,
	}

	logger := e.logger.With(
		zap.String("workflow_id", def.ID),
		zap.String("run_id", run.ID),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
	logger.Info("starting workflow run")

	var lastErr error
	for attempt := 0; attempt <= def.Retries; attempt++ {
		run.status = RunStatusRunning
		run.attempts++

		lastErr = def.Handler(ctx, run)
		if lastErr == nil {
			run.status = RunStatusCompleted
			e.metrics.RecordRun(def.ID, string(RunStatusCompleted))
			logger.Info("workflow run completed", zap.Int("attempts", run.attempts))
			return e.result(run, nil)
		}

		if IsNonRetriable(lastErr) {
			logger.Error("workflow run failed permanently", zap.Error(lastErr))
			break
		}
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			logger.Warn("workflow run aborted, context done", zap.Error(lastErr))
			break
		}
		logger.Warn("workflow attempt failed, retrying",
			zap.Int("attempt", run.attempts),
			zap.Int("max_attempts", def.Retries+1),
			zap.Error(lastErr))
	}

	run.status = RunStatusFailed
	e.metrics.RecordRun(def.ID, string(RunStatusFailed))
	logger.Error("workflow run failed", zap.Int("attempts", run.attempts), zap.Error(lastErr))
	return e.result(run, lastErr)
}

func (e *Engine) result(run *Run, err error) Result {
	return Result{
		RunID:      run.ID,
		WorkflowID: run.WorkflowID,
		Status:     run.status,
		Attempts:   run.attempts,
		Err:        err,
	}
}
