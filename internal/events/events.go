// Package events moves domain events from the catalog to the rest of the system.
//
// The stock service talks to a Notifier. In production the Notifier is the outbox
// writer from the repository package, so events are stored in the same transaction as
// the change they describe. The outbox relay later hands stored events to a Publisher
// (Redis, Kafka or the log).
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-stock/internal/domain"

	"github.com/google/uuid"
)

// Notifier accepts domain events raised by the domain service
type Notifier interface {
	PublishEvent(ctx context.Context, event domain.Event) error
}

// Publisher delivers encoded messages to subscribers
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// Message is the broker-neutral envelope of a domain event
type Message struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	AggregateID uuid.UUID       `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

// NewMessage encodes event into a Message with a fresh id
func NewMessage(event domain.Event) (Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return Message{}, fmt.Errorf("failed to encode %s event: %w", event.EventName(), err)
	}

	return Message{
		ID:          uuid.New(),
		Name:        event.EventName(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt(),
		Payload:     payload,
	}, nil
}

// StockLowPayload is the payload of a product.stock_low message
type StockLowPayload struct {
	QuantityLeft int `json:"quantity_left"`
}

// DecodeStockLow reads the payload of a product.stock_low message
func DecodeStockLow(msg Message) (StockLowPayload, error) {
	var payload StockLowPayload
	if msg.Name != domain.EventProductStockLow {
		return payload, fmt.Errorf("unexpected event %q", msg.Name)
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("failed to decode %s payload: %w", msg.Name, err)
	}
	return payload, nil
}

// DirectNotifier encodes events and hands them straight to a Publisher. Events are
// delivered before the surrounding transaction commits, so it is only meant for tests
// and tools that run without the outbox.
type DirectNotifier struct {
	publisher Publisher
}

func NewDirectNotifier(publisher Publisher) *DirectNotifier {
	return &DirectNotifier{publisher: publisher}
}

func (n *DirectNotifier) PublishEvent(ctx context.Context, event domain.Event) error {
	msg, err := NewMessage(event)
	if err != nil {
		return err
	}
	return n.publisher.Publish(ctx, msg)
}
