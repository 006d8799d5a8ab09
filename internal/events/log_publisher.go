package events

import (
	"context"

	"go.uber.org/zap"
)

// LogPublisher writes messages to the structured log. It is the default broker in
// development.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, msg Message) error {
	p.logger.Info("Domain event published",
		zap.String("event_id", msg.ID.String()),
		zap.String("event", msg.Name),
		zap.String("aggregate_id", msg.AggregateID.String()),
		zap.Time("occurred_at", msg.OccurredAt),
		zap.ByteString("payload", msg.Payload),
	)
	return nil
}
