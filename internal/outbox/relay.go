// Package outbox delivers events stored by the unit of work to the configured broker.
// Delivery is at-least-once: an event is marked published only after the publisher
// accepted it, so a crash in between redelivers it.
package outbox

import (
	"context"
	"time"

	"catalog-stock/internal/events"
	"catalog-stock/internal/metrics"
	"catalog-stock/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Relay struct {
	store     repository.OutboxStore
	publisher events.Publisher
	interval  time.Duration
	batch     int
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewRelay(store repository.OutboxStore, publisher events.Publisher, interval time.Duration, batch int, m *metrics.Metrics, logger *zap.Logger) *Relay {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if batch <= 0 {
		batch = 100
	}
	return &Relay{
		store:     store,
		publisher: publisher,
		interval:  interval,
		batch:     batch,
		metrics:   m,
		logger:    logger,
	}
}

// Run polls the outbox until ctx is cancelled
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("Outbox relay started", zap.Duration("interval", r.interval), zap.Int("batch", r.batch))

	for {
		if _, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
			r.logger.Error("Outbox flush failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			r.logger.Info("Outbox relay stopped")
			return
		case <-ticker.C:
		}
	}
}

// Flush publishes one batch of pending events in order and returns how many were
// delivered. A failed event is counted against its attempts and left pending.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	pending, err := r.store.FetchPending(ctx, r.batch)
	if err != nil {
		return 0, err
	}

	published := make([]uuid.UUID, 0, len(pending))
	for _, msg := range pending {
		if ctx.Err() != nil {
			break
		}

		if err := r.publisher.Publish(ctx, msg); err != nil {
			r.logger.Warn("Failed to publish outbox event",
				zap.String("event_id", msg.ID.String()),
				zap.String("event", msg.Name),
				zap.Error(err),
			)
			if r.metrics != nil {
				r.metrics.OutboxFailed.Inc()
			}
			if err := r.store.MarkFailed(ctx, msg.ID); err != nil {
				r.logger.Error("Failed to record outbox attempt", zap.String("event_id", msg.ID.String()), zap.Error(err))
			}
			continue
		}
		published = append(published, msg.ID)
	}

	if err := r.store.MarkPublished(ctx, published); err != nil {
		return 0, err
	}

	if r.metrics != nil {
		r.metrics.OutboxPublished.Add(float64(len(published)))
	}
	if len(published) > 0 {
		r.logger.Debug("Outbox events published", zap.Int("count", len(published)))
	}

	return len(published), nil
}
