package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"catalog-stock/internal/events"

	"github.com/google/uuid"
)

// change is one pending write. apply returns the number of rows it affected.
type change interface {
	apply(ctx context.Context, tx *sql.Tx) (int64, error)
}

// keyedChange replaces an earlier pending change with the same key
type keyedChange interface {
	change
	key() string
}

// SQLUnitOfWork collects pending changes in registration order and applies them in a
// single transaction. Registering an update for an aggregate that already has one
// pending replaces the earlier entry.
type SQLUnitOfWork struct {
	db      *sql.DB
	mu      sync.Mutex
	pending []change
}

func NewUnitOfWork(db *sql.DB) *SQLUnitOfWork {
	return &SQLUnitOfWork{db: db}
}

func (u *SQLUnitOfWork) register(c change) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if kc, ok := c.(keyedChange); ok {
		for i, p := range u.pending {
			if pk, ok := p.(keyedChange); ok && pk.key() == kc.key() {
				u.pending[i] = c
				return
			}
		}
	}
	u.pending = append(u.pending, c)
}

// RecordEvent stores msg in the outbox as part of the next commit
func (u *SQLUnitOfWork) RecordEvent(msg events.Message) {
	u.register(outboxInsert{msg: msg})
}

func (u *SQLUnitOfWork) Commit(ctx context.Context) (bool, error) {
	u.mu.Lock()
	pending := u.pending
	u.pending = nil
	u.mu.Unlock()

	if len(pending) == 0 {
		return false, nil
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return false, persistenceError("begin", err)
	}
	defer tx.Rollback()

	var affected int64
	for _, c := range pending {
		n, err := c.apply(ctx, tx)
		if err != nil {
			return false, persistenceError("commit", err)
		}
		affected += n
	}

	if err := tx.Commit(); err != nil {
		return false, persistenceError("commit", err)
	}

	return affected > 0, nil
}

type outboxInsert struct {
	msg events.Message
}

func (c outboxInsert) apply(ctx context.Context, tx *sql.Tx) (int64, error) {
	query := `
		INSERT INTO outbox_events (id, aggregate_id, event_name, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	id := c.msg.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	result, err := tx.ExecContext(ctx, query, id, c.msg.AggregateID, c.msg.Name, []byte(c.msg.Payload), c.msg.OccurredAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return result.RowsAffected()
}
