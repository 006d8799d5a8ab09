package repository

import (
	"context"
	"testing"

	"catalog-stock/internal/domain"
	"catalog-stock/internal/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingFor(t *testing.T, store OutboxStore, aggregateID uuid.UUID) []events.Message {
	t.Helper()
	pending, err := store.FetchPending(context.Background(), 1000)
	require.NoError(t, err)

	var out []events.Message
	for _, msg := range pending {
		if msg.AggregateID == aggregateID {
			out = append(out, msg)
		}
	}
	return out
}

func TestOutboxStoresEventWithTheChange(t *testing.T) {
	ctx := context.Background()
	product := seedProduct(t, seedCategory(t), 12)

	uow := NewUnitOfWork(testDB)
	repo := NewProductRepository(testDB, uow)
	notifier := NewOutboxNotifier(uow)

	loaded, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	require.NoError(t, loaded.ReduceStock(3))
	require.NoError(t, notifier.PublishEvent(ctx, domain.NewProductStockLowEvent(product.ID, 9)))
	repo.Update(loaded)

	persisted, err := uow.Commit(ctx)
	require.NoError(t, err)
	require.True(t, persisted)

	store := NewOutboxStore(testDB)
	pending := pendingFor(t, store, product.ID)
	require.Len(t, pending, 1)
	assert.Equal(t, domain.EventProductStockLow, pending[0].Name)

	payload, err := events.DecodeStockLow(pending[0])
	require.NoError(t, err)
	assert.Equal(t, 9, payload.QuantityLeft)
}

func TestMarkPublishedRemovesEventsFromPending(t *testing.T) {
	ctx := context.Background()
	product := seedProduct(t, seedCategory(t), 5)

	uow := NewUnitOfWork(testDB)
	notifier := NewOutboxNotifier(uow)
	require.NoError(t, notifier.PublishEvent(ctx, domain.NewProductStockLowEvent(product.ID, 5)))
	require.NoError(t, notifier.PublishEvent(ctx, domain.NewProductStockLowEvent(product.ID, 4)))
	_, err := uow.Commit(ctx)
	require.NoError(t, err)

	store := NewOutboxStore(testDB)
	pending := pendingFor(t, store, product.ID)
	require.Len(t, pending, 2)

	require.NoError(t, store.MarkPublished(ctx, []uuid.UUID{pending[0].ID}))
	remaining := pendingFor(t, store, product.ID)
	require.Len(t, remaining, 1)
	assert.Equal(t, pending[1].ID, remaining[0].ID)

	require.NoError(t, store.MarkPublished(ctx, nil))
}

func TestMarkFailedStopsDeliveryAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	product := seedProduct(t, seedCategory(t), 1)

	uow := NewUnitOfWork(testDB)
	require.NoError(t, NewOutboxNotifier(uow).PublishEvent(ctx, domain.NewProductStockLowEvent(product.ID, 1)))
	_, err := uow.Commit(ctx)
	require.NoError(t, err)

	store := NewOutboxStore(testDB)
	pending := pendingFor(t, store, product.ID)
	require.Len(t, pending, 1)

	for i := 0; i < MaxDeliveryAttempts; i++ {
		require.NoError(t, store.MarkFailed(ctx, pending[0].ID))
	}

	assert.Empty(t, pendingFor(t, store, product.ID))
}
