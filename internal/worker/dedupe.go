package worker

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DeliveryGuard remembers which (workflow, event) pairs already reached a
// terminal state, so a redelivered event is not processed twice. Delivery
// stays at-least-once: when Redis is unreachable the guard votes to
// process, and step memoization keeps re-processing harmless.
type DeliveryGuard struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewDeliveryGuard builds the guard; a nil client disables it.
func NewDeliveryGuard(client *redis.Client, ttl time.Duration, logger *zap.Logger) *DeliveryGuard {
	return &DeliveryGuard{client: client, ttl: ttl, logger: logger}
}

func (g *DeliveryGuard) key(workflowID, eventID string) string {
	return "workflow:delivered:" + workflowID + ":" + eventID
}

// Seen reports whether this event was already processed by this workflow.
func (g *DeliveryGuard) Seen(ctx context.Context, workflowID, eventID string) bool {
	if g == nil || g.client == nil {
		return false
	}
	n, err := g.client.Exists(ctx, g.key(workflowID, eventID)).Result()
	if err != nil {
		g.logger.Warn("delivery guard lookup failed", zap.Error(err))
		return false
	}
	return n > 0
}

// Mark records a terminal outcome for this (workflow, event) pair.
func (g *DeliveryGuard) Mark(ctx context.Context, workflowID, eventID string) {
	if g == nil || g.client == nil {
		return
	}
	if err := g.client.Set(ctx, g.key(workflowID, eventID), 1, g.ttl).Err(); err != nil {
		g.logger.Warn("delivery guard mark failed", zap.Error(err))
	}
}
