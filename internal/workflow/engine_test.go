package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/observability"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := config.WorkflowConfig{Retries: 2, StepTimeoutSeconds: 5}
	return NewEngine(cfg, zap.NewNop(), observability.NewMetrics())
}

func testEvent(eventType events.EventType, payload any) events.Event {
	return events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

func TestExecuteCompletesWithoutErrors(t *testing.T) {
	engine := newTestEngine(t)

	var order []string
	def := &Definition{
		ID:      "wf",
		Event:   "test/event",
		Retries: 2,
		Handler: func(ctx context.Context, run *Run) error {
			for _, name := range []string{"one", "two", "three"} {
				name := name
				if _, err := run.Step(ctx, name, func(context.Context) (any, error) {
					order = append(order, name)
					return name, nil
				}); err != nil {
					return err
				}
			}
			return nil
		},
	}

	result := engine.Execute(context.Background(), def, testEvent("test/event", nil))

	require.True(t, result.Success())
	assert.Equal(t, RunStatusCompleted, result.Status)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, []string{"one", "two", "three"}, order)
}

func TestExecuteMemoizesCompletedSteps(t *testing.T) {
	engine := newTestEngine(t)

	stepOneRuns := 0
	stepTwoRuns := 0
	def := &Definition{
		ID:      "wf",
		Event:   "test/event",
		Retries: 2,
		Handler: func(ctx context.Context, run *Run) error {
			if _, err := run.Step(ctx, "one", func(context.Context) (any, error) {
				stepOneRuns++
				return "done", nil
			}); err != nil {
				return err
			}
			_, err := run.Step(ctx, "two", func(context.Context) (any, error) {
				stepTwoRuns++
				if stepTwoRuns < 3 {
					return nil, errors.New("transient failure")
				}
				return "done", nil
			})
			return err
		},
	}

	result := engine.Execute(context.Background(), def, testEvent("test/event", nil))

	require.True(t, result.Success())
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 1, stepOneRuns, "completed step must not re-execute on retry")
	assert.Equal(t, 3, stepTwoRuns)
}

func TestExecuteMemoizedResultIsReturnedOnRetry(t *testing.T) {
	engine := newTestEngine(t)

	var seen []string
	failedOnce := false
	def := &Definition{
		ID:      "wf",
		Event:   "test/event",
		Retries: 1,
		Handler: func(ctx context.Context, run *Run) error {
			value, err := run.Step(ctx, "produce", func(context.Context) (any, error) {
				return "first-attempt-value", nil
			})
			if err != nil {
				return err
			}
			seen = append(seen, value.(string))

			_, err = run.Step(ctx, "flaky", func(context.Context) (any, error) {
				if !failedOnce {
					failedOnce = true
					return nil, errors.New("boom")
				}
				return true, nil
			})
			return err
		},
	}

	result := engine.Execute(context.Background(), def, testEvent("test/event", nil))

	require.True(t, result.Success())
	assert.Equal(t, []string{"first-attempt-value", "first-attempt-value"}, seen)
}

func TestExecuteNonRetriableFailsImmediately(t *testing.T) {
	engine := newTestEngine(t)

	attempts := 0
	def := &Definition{
		ID:      "wf",
		Event:   "test/event",
		Retries: 2,
		Handler: func(ctx context.Context, run *Run) error {
			attempts++
			_, err := run.Step(ctx, "missing", func(context.Context) (any, error) {
				return nil, NonRetriablef("entity not found")
			})
			return err
		},
	}

	result := engine.Execute(context.Background(), def, testEvent("test/event", nil))

	require.False(t, result.Success())
	assert.Equal(t, RunStatusFailed, result.Status)
	assert.Equal(t, 1, attempts, "non-retriable failure must not be retried")
	assert.True(t, IsNonRetriable(result.Err))
}

func TestExecuteExhaustsRetries(t *testing.T) {
	engine := newTestEngine(t)

	attempts := 0
	def := &Definition{
		ID:      "wf",
		Event:   "test/event",
		Retries: 2,
		Handler: func(ctx context.Context, run *Run) error {
			attempts++
			return errors.New("always transient")
		},
	}

	result := engine.Execute(context.Background(), def, testEvent("test/event", nil))

	require.False(t, result.Success())
	assert.Equal(t, RunStatusFailed, result.Status)
	assert.Equal(t, 3, attempts, "initial attempt plus two retries")
	assert.EqualError(t, result.Err, "always transient")
}

func TestExecuteStepTimeoutIsRetriable(t *testing.T) {
	cfg := config.WorkflowConfig{Retries: 1, StepTimeoutSeconds: 1}
	engine := NewEngine(cfg, zap.NewNop(), observability.NewMetrics())

	attempts := 0
	def := &Definition{
		ID:      "wf",
		Event:   "test/event",
		Retries: 1,
		Handler: func(ctx context.Context, run *Run) error {
			attempts++
			_, err := run.Step(ctx, "hang", func(stepCtx context.Context) (any, error) {
				<-stepCtx.Done()
				return nil, stepCtx.Err()
			})
			return err
		},
	}

	result := engine.Execute(context.Background(), def, testEvent("test/event", nil))

	require.False(t, result.Success())
	assert.Equal(t, 2, attempts, "a timed-out step is retried")
	assert.ErrorIs(t, result.Err, context.DeadlineExceeded)
}

func TestNonRetriableErrorChain(t *testing.T) {
	base := errors.New("gone")
	wrapped := NonRetriable(base)

	assert.True(t, IsNonRetriable(wrapped))
	assert.ErrorIs(t, wrapped, base)
	assert.False(t, IsNonRetriable(base))
	assert.Nil(t, NonRetriable(nil))
}
