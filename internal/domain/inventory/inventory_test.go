package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInventory(t *testing.T) *Inventory {
	t.Helper()
	inv, err := NewInventory(uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	return inv
}

func TestNewInventory(t *testing.T) {
	t.Run("creates empty row", func(t *testing.T) {
		inv := newTestInventory(t)
		assert.EqualValues(t, 0, inv.Quantity)
		assert.EqualValues(t, 0, inv.ReorderThreshold)
		assert.Equal(t, 1, inv.Version)
	})

	t.Run("fails without tenant", func(t *testing.T) {
		_, err := NewInventory(uuid.Nil, uuid.New(), uuid.New())
		require.Error(t, err)
	})

	t.Run("fails without product", func(t *testing.T) {
		_, err := NewInventory(uuid.New(), uuid.Nil, uuid.New())
		require.Error(t, err)
	})
}

func TestInventoryAddStock(t *testing.T) {
	t.Run("increases quantity and records movement", func(t *testing.T) {
		inv := newTestInventory(t)

		m, err := inv.AddStock(10, MovementTypeAddition, "PO-1", nil)
		require.NoError(t, err)
		require.NotNil(t, m)

		assert.EqualValues(t, 10, inv.Quantity)
		assert.EqualValues(t, 10, m.Quantity)
		assert.EqualValues(t, 10, m.QuantityAfter)
		assert.Equal(t, MovementTypeAddition, m.Type)
		assert.Equal(t, "PO-1", m.Reference)
		assert.Equal(t, inv.TenantID, m.TenantID)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		inv := newTestInventory(t)
		_, err := inv.AddStock(0, MovementTypeAddition, "", nil)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
		_, err = inv.AddStock(-5, MovementTypeAddition, "", nil)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})

	t.Run("rejects outbound movement type", func(t *testing.T) {
		inv := newTestInventory(t)
		_, err := inv.AddStock(5, MovementTypeSale, "", nil)
		require.Error(t, err)
		assert.EqualValues(t, 0, inv.Quantity)
	})
}

func TestInventoryRemoveStock(t *testing.T) {
	t.Run("decreases quantity and records negative delta", func(t *testing.T) {
		inv := newTestInventory(t)
		_, err := inv.AddStock(10, MovementTypeAddition, "", nil)
		require.NoError(t, err)

		m, err := inv.RemoveStock(3, MovementTypeSale, "ORD-1", nil)
		require.NoError(t, err)

		assert.EqualValues(t, 7, inv.Quantity)
		assert.EqualValues(t, -3, m.Quantity)
		assert.EqualValues(t, 7, m.QuantityAfter)
		assert.Equal(t, MovementTypeSale, m.Type)
	})

	t.Run("oversized removal fails before any state change", func(t *testing.T) {
		inv := newTestInventory(t)
		_, err := inv.AddStock(5, MovementTypeAddition, "", nil)
		require.NoError(t, err)
		versionBefore := inv.Version

		_, err = inv.RemoveStock(6, MovementTypeRemoval, "", nil)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.EqualValues(t, 5, inv.Quantity)
		assert.Equal(t, versionBefore, inv.Version)
	})

	t.Run("removal to exactly zero succeeds", func(t *testing.T) {
		inv := newTestInventory(t)
		_, err := inv.AddStock(5, MovementTypeAddition, "", nil)
		require.NoError(t, err)

		_, err = inv.RemoveStock(5, MovementTypeRemoval, "", nil)
		require.NoError(t, err)
		assert.EqualValues(t, 0, inv.Quantity)
	})
}

func TestInventoryAdjustStock(t *testing.T) {
	t.Run("records signed delta", func(t *testing.T) {
		inv := newTestInventory(t)
		_, err := inv.AddStock(10, MovementTypeAddition, "", nil)
		require.NoError(t, err)

		m, err := inv.AdjustStock(4, "stocktake", nil)
		require.NoError(t, err)
		assert.EqualValues(t, 4, inv.Quantity)
		assert.EqualValues(t, -6, m.Quantity)
		assert.Equal(t, MovementTypeAdjustment, m.Type)
	})

	t.Run("zero delta records nothing", func(t *testing.T) {
		inv := newTestInventory(t)
		_, err := inv.AddStock(10, MovementTypeAddition, "", nil)
		require.NoError(t, err)

		m, err := inv.AdjustStock(10, "", nil)
		require.NoError(t, err)
		assert.Nil(t, m)
	})

	t.Run("rejects negative target", func(t *testing.T) {
		inv := newTestInventory(t)
		_, err := inv.AdjustStock(-1, "", nil)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})
}

func TestLedgerReplay(t *testing.T) {
	// Replaying movement deltas from zero must reproduce the final quantity.
	inv := newTestInventory(t)

	var movements []*Movement
	record := func(m *Movement, err error) {
		require.NoError(t, err)
		if m != nil {
			movements = append(movements, m)
		}
	}

	record(inv.AddStock(10, MovementTypeAddition, "", nil))
	record(inv.RemoveStock(3, MovementTypeSale, "", nil))
	record(inv.AdjustStock(12, "", nil))
	record(inv.RemoveStock(2, MovementTypeRemoval, "", nil))
	record(inv.AddStock(1, MovementTypePurchase, "", nil))

	var replayed int64
	for _, m := range movements {
		replayed += m.Quantity
	}
	assert.Equal(t, inv.Quantity, replayed)
	assert.EqualValues(t, inv.Quantity, movements[len(movements)-1].QuantityAfter)
}

func TestReorderThresholdAlerts(t *testing.T) {
	t.Run("alert fires at threshold", func(t *testing.T) {
		inv := newTestInventory(t)
		_, err := inv.AddStock(6, MovementTypeAddition, "", nil)
		require.NoError(t, err)
		require.NoError(t, inv.SetReorderThreshold(5))
		inv.ClearDomainEvents()

		_, err = inv.RemoveStock(1, MovementTypeRemoval, "", nil)
		require.NoError(t, err)

		events := inv.GetDomainEvents()
		require.Len(t, events, 1)
		ev, ok := events[0].(*StockBelowThresholdEvent)
		require.True(t, ok)
		assert.EqualValues(t, 5, ev.Quantity)
		assert.EqualValues(t, 5, ev.ReorderThreshold)
	})

	t.Run("every outbound movement below threshold alerts again", func(t *testing.T) {
		inv := newTestInventory(t)
		_, err := inv.AddStock(5, MovementTypeAddition, "", nil)
		require.NoError(t, err)
		require.NoError(t, inv.SetReorderThreshold(5))
		inv.ClearDomainEvents()

		_, err = inv.RemoveStock(1, MovementTypeRemoval, "", nil)
		require.NoError(t, err)
		_, err = inv.RemoveStock(1, MovementTypeRemoval, "", nil)
		require.NoError(t, err)

		assert.Len(t, inv.GetDomainEvents(), 2)
	})

	t.Run("no alert when threshold unset", func(t *testing.T) {
		inv := newTestInventory(t)
		_, err := inv.AddStock(2, MovementTypeAddition, "", nil)
		require.NoError(t, err)
		inv.ClearDomainEvents()

		_, err = inv.RemoveStock(2, MovementTypeRemoval, "", nil)
		require.NoError(t, err)
		assert.Empty(t, inv.GetDomainEvents())
	})

	t.Run("inbound movements alert while still below threshold", func(t *testing.T) {
		inv := newTestInventory(t)
		require.NoError(t, inv.SetReorderThreshold(10))
		inv.ClearDomainEvents()

		_, err := inv.AddStock(3, MovementTypeAddition, "", nil)
		require.NoError(t, err)
		assert.Len(t, inv.GetDomainEvents(), 1)
	})

	t.Run("inbound movement past the threshold stops alerting", func(t *testing.T) {
		inv := newTestInventory(t)
		require.NoError(t, inv.SetReorderThreshold(10))
		inv.ClearDomainEvents()

		_, err := inv.AddStock(20, MovementTypeAddition, "", nil)
		require.NoError(t, err)
		assert.Empty(t, inv.GetDomainEvents())
	})

	t.Run("upward adjustment below the threshold alerts", func(t *testing.T) {
		inv := newTestInventory(t)
		require.NoError(t, inv.SetReorderThreshold(10))
		inv.ClearDomainEvents()

		_, err := inv.AdjustStock(4, "stocktake", nil)
		require.NoError(t, err)
		assert.Len(t, inv.GetDomainEvents(), 1)
	})
}

func TestSetStockLevels(t *testing.T) {
	t.Run("sets threshold and ceiling together", func(t *testing.T) {
		inv := newTestInventory(t)
		require.NoError(t, inv.SetStockLevels(5, 100))
		assert.EqualValues(t, 5, inv.ReorderThreshold)
		assert.EqualValues(t, 100, inv.MaxStockLevel)
	})

	t.Run("zero ceiling means uncapped", func(t *testing.T) {
		inv := newTestInventory(t)
		require.NoError(t, inv.SetStockLevels(5, 0))
		assert.EqualValues(t, 0, inv.MaxStockLevel)
	})

	t.Run("rejects negative levels", func(t *testing.T) {
		inv := newTestInventory(t)
		require.Error(t, inv.SetStockLevels(-1, 0))
		require.Error(t, inv.SetStockLevels(0, -1))
	})

	t.Run("rejects a ceiling below the threshold", func(t *testing.T) {
		inv := newTestInventory(t)
		require.Error(t, inv.SetStockLevels(10, 5))
	})

	t.Run("SetReorderThreshold keeps the ceiling", func(t *testing.T) {
		inv := newTestInventory(t)
		require.NoError(t, inv.SetStockLevels(5, 100))
		require.NoError(t, inv.SetReorderThreshold(8))
		assert.EqualValues(t, 8, inv.ReorderThreshold)
		assert.EqualValues(t, 100, inv.MaxStockLevel)
	})
}

func TestMovementTypeDirections(t *testing.T) {
	assert.True(t, MovementTypeAddition.IsInbound())
	assert.True(t, MovementTypePurchase.IsInbound())
	assert.True(t, MovementTypeRemoval.IsOutbound())
	assert.True(t, MovementTypeSale.IsOutbound())
	assert.False(t, MovementTypeSale.IsInbound())
	assert.False(t, MovementTypeAddition.IsOutbound())
}
