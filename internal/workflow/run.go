package workflow

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/observability"
)

// RunStatus is the lifecycle state of one workflow run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "PENDING"
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
)

// Run carries the state of one workflow execution across its retry
// attempts: the triggering event and the per-step memo of completed
// results.
type Run struct {
	ID         string
	WorkflowID string
	Event      events.Event

	status      RunStatus
	attempts    int
	results     map[string]any
	stepTimeout time.Duration
	logger      *zap.Logger
	metrics     *observability.Metrics
}

// Status returns the current lifecycle state.
func (r *Run) Status() RunStatus {
	return r.status
}

// Attempts returns how many times the handler has been entered.
func (r *Run) Attempts() int {
	return r.attempts
}

// Step executes fn under name with per-step memoization: if a prior
// attempt already completed this step, its recorded result is returned and
// fn is not re-executed. This is what makes retrying a whole run safe even
// though steps have side effects.
//
// fn runs under a bounded context; a hanging step surfaces as a retriable
// deadline error.
func (r *Run) Step(ctx context.Context, name string, fn func(context.Context) (any, error)) (any, error) {
	if result, ok := r.results[name]; ok {
		r.metrics.RecordStep(r.WorkflowID, name, true)
		r.logger.Debug("step memoized, skipping",
			zap.String("workflow_id", r.WorkflowID),
			zap.String("step", name))
		return result, nil
	}

	stepCtx := ctx
	if r.stepTimeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, r.stepTimeout)
		defer cancel()
	}

	result, err := fn(stepCtx)
	if err != nil {
		return nil, err
	}

	r.results[name] = result
	r.metrics.RecordStep(r.WorkflowID, name, false)
	return result, nil
}
