package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stocksync/backend/internal/domain/shared"
	"github.com/stocksync/backend/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrderTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&trade.Order{}, &trade.OrderItem{})
	require.NoError(t, err)

	return db
}

func newPersistedOrder(t *testing.T, repo *GormOrderRepository, tenantID uuid.UUID, seq int64) *trade.Order {
	t.Helper()
	order, err := trade.NewOrder(tenantID, trade.FormatOrderNumber(tenantID, seq))
	require.NoError(t, err)
	require.NoError(t, order.UpsertItem(uuid.New(), 2, decimal.NewFromInt(10)))
	require.NoError(t, repo.Save(context.Background(), order))
	return order
}

func TestOrderRepositorySave(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("round-trips an order with its items", func(t *testing.T) {
		order := newPersistedOrder(t, repo, tenantID, 1)

		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.OrderNumber, found.OrderNumber)
		assert.Equal(t, trade.OrderStatusPending, found.Status)
		require.Len(t, found.Items, 1)
		assert.EqualValues(t, 2, found.Items[0].Quantity)
		assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(20)))
	})

	t.Run("stored items mirror the cart after a line is removed", func(t *testing.T) {
		order := newPersistedOrder(t, repo, tenantID, 2)
		productID := uuid.New()
		require.NoError(t, order.UpsertItem(productID, 1, decimal.NewFromInt(5)))
		require.NoError(t, repo.Save(ctx, order))

		require.NoError(t, order.UpsertItem(productID, -1, decimal.NewFromInt(5)))
		require.NoError(t, repo.Save(ctx, order))

		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, found.Items, 1)
		assert.NotEqual(t, productID, found.Items[0].ProductID)
	})

	t.Run("unknown id reads as not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestOrderRepositoryFindByOrderNumber(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	order := newPersistedOrder(t, repo, tenantID, 1)

	found, err := repo.FindByOrderNumber(ctx, order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = repo.FindByOrderNumber(ctx, "ORD-00000000-000099")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOrderRepositoryFindPendingCart(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("no open cart reads as not found", func(t *testing.T) {
		_, err := repo.FindPendingCart(ctx)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("returns the open pending order", func(t *testing.T) {
		order := newPersistedOrder(t, repo, tenantID, 1)

		cart, err := repo.FindPendingCart(ctx)
		require.NoError(t, err)
		assert.Equal(t, order.ID, cart.ID)
		require.Len(t, cart.Items, 1)
	})

	t.Run("completed orders are not carts", func(t *testing.T) {
		order, err := repo.FindPendingCart(ctx)
		require.NoError(t, err)
		require.NoError(t, order.Complete(order.TotalAmount))
		require.NoError(t, repo.SaveWithLock(ctx, order))

		_, err = repo.FindPendingCart(ctx)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestOrderRepositorySaveWithLock(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("persists a version bump", func(t *testing.T) {
		order := newPersistedOrder(t, repo, tenantID, 1)
		require.NoError(t, order.Complete(order.TotalAmount))

		require.NoError(t, repo.SaveWithLock(ctx, order))

		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.OrderStatusCompleted, found.Status)
		assert.Equal(t, order.Version, found.Version)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		order := newPersistedOrder(t, repo, tenantID, 2)
		require.NoError(t, order.Complete(order.TotalAmount))
		require.NoError(t, repo.SaveWithLock(ctx, order))

		// replay the same write; the stored version has already moved on
		err := repo.SaveWithLock(ctx, order)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}
