// Package worker connects the workflow engine to the event bus.
package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/workflow"
)

// StartWorkflowWorker subscribes every registered workflow to its
// triggering event. Each delivery becomes one engine run; the guard skips
// events that already reached a terminal state.
func StartWorkflowWorker(dispatcher events.Dispatcher, engine *workflow.Engine, guard *DeliveryGuard, logger *zap.Logger) {
	if dispatcher == nil || engine == nil {
		return
	}

	for _, def := range engine.Definitions() {
		def := def
		dispatcher.Subscribe(def.Event, func(ctx context.Context, event events.Event) error {
			if guard.Seen(ctx, def.ID, event.ID) {
				logger.Info("event already processed, skipping",
					zap.String("workflow_id", def.ID),
					zap.String("event_id", event.ID))
				return nil
			}

			result := engine.Execute(ctx, def, event)
			if result.Status == workflow.RunStatusCompleted || result.Status == workflow.RunStatusFailed {
				guard.Mark(ctx, def.ID, event.ID)
			}
			return result.Err
		})
		logger.Info("workflow subscribed",
			zap.String("workflow_id", def.ID),
			zap.String("event_type", string(def.Event)))
	}
}
