package repository

import (
	"context"
	"database/sql"
	"fmt"

	"catalog-stock/internal/domain"
	"catalog-stock/internal/events"

	"github.com/google/uuid"
)

// EventRecorder queues an encoded event for the next commit
type EventRecorder interface {
	RecordEvent(msg events.Message)
}

// OutboxNotifier is the production events.Notifier. It writes events into the outbox
// within the unit of work's transaction, so an event exists only if its change does.
type OutboxNotifier struct {
	recorder EventRecorder
}

func NewOutboxNotifier(recorder EventRecorder) *OutboxNotifier {
	return &OutboxNotifier{recorder: recorder}
}

func (n *OutboxNotifier) PublishEvent(_ context.Context, event domain.Event) error {
	msg, err := events.NewMessage(event)
	if err != nil {
		return err
	}
	n.recorder.RecordEvent(msg)
	return nil
}

// OutboxStore reads and acknowledges stored events for the relay
type OutboxStore interface {
	FetchPending(ctx context.Context, limit int) ([]events.Message, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
}

type outboxStore struct {
	db *sql.DB
}

func NewOutboxStore(db *sql.DB) OutboxStore {
	return &outboxStore{db: db}
}

// MaxDeliveryAttempts is how many failed publishes an event gets before the relay stops
// picking it up
const MaxDeliveryAttempts = 10

// FetchPending returns the oldest unpublished events that still have attempts left
func (s *outboxStore) FetchPending(ctx context.Context, limit int) ([]events.Message, error) {
	query := `
		SELECT id, aggregate_id, event_name, payload, occurred_at
		FROM outbox_events
		WHERE published_at IS NULL AND attempts < $2
		ORDER BY occurred_at ASC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit, MaxDeliveryAttempts)
	if err != nil {
		return nil, persistenceError("fetch outbox", err)
	}
	defer rows.Close()

	messages := []events.Message{}
	for rows.Next() {
		var (
			msg     events.Message
			payload []byte
		)
		if err := rows.Scan(&msg.ID, &msg.AggregateID, &msg.Name, &payload, &msg.OccurredAt); err != nil {
			return nil, persistenceError("fetch outbox", fmt.Errorf("failed to scan outbox event: %w", err))
		}
		msg.Payload = payload
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceError("fetch outbox", err)
	}

	return messages, nil
}

func (s *outboxStore) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	query := `UPDATE outbox_events SET published_at = NOW() WHERE id = ANY($1::uuid[])`

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	if _, err := s.db.ExecContext(ctx, query, keys); err != nil {
		return persistenceError("mark outbox published", err)
	}
	return nil
}

func (s *outboxStore) MarkFailed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE outbox_events SET attempts = attempts + 1 WHERE id = $1`

	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return persistenceError("mark outbox failed", err)
	}
	return nil
}
