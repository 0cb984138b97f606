package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/inventory"
)

// StockMutationRequest describes one stock change against a product at a
// location
type StockMutationRequest struct {
	ProductID  uuid.UUID `json:"product_id" binding:"required"`
	LocationID uuid.UUID `json:"location_id" binding:"required"`
	Quantity   int64     `json:"quantity" binding:"required"`
	Reference  string    `json:"reference"`
}

// AdjustStockRequest sets an absolute quantity
type AdjustStockRequest struct {
	ProductID   uuid.UUID `json:"product_id" binding:"required"`
	LocationID  uuid.UUID `json:"location_id" binding:"required"`
	NewQuantity int64     `json:"new_quantity"`
	Reference   string    `json:"reference"`
}

// SetThresholdRequest changes the stock levels of an inventory row. A zero
// max stock level leaves the row uncapped.
type SetThresholdRequest struct {
	ProductID     uuid.UUID `json:"product_id" binding:"required"`
	LocationID    uuid.UUID `json:"location_id" binding:"required"`
	Threshold     int64     `json:"threshold"`
	MaxStockLevel int64     `json:"max_stock_level"`
}

// InventoryDTO is the read model for an inventory row
type InventoryDTO struct {
	ID               uuid.UUID `json:"id"`
	ProductID        uuid.UUID `json:"product_id"`
	LocationID       uuid.UUID `json:"location_id"`
	Quantity         int64     `json:"quantity"`
	ReorderThreshold int64     `json:"reorder_threshold"`
	MaxStockLevel    int64     `json:"max_stock_level"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// MovementDTO is the read model for one ledger entry
type MovementDTO struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"product_id"`
	LocationID    uuid.UUID `json:"location_id"`
	Type          string    `json:"type"`
	Quantity      int64     `json:"quantity"`
	QuantityAfter int64     `json:"quantity_after"`
	Reference     string    `json:"reference,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// MutationResult reports the outcome of a stock mutation
type MutationResult struct {
	Inventory InventoryDTO `json:"inventory"`
	Movement  *MovementDTO `json:"movement,omitempty"`
}

func toInventoryDTO(inv *inventory.Inventory) InventoryDTO {
	return InventoryDTO{
		ID:               inv.ID,
		ProductID:        inv.ProductID,
		LocationID:       inv.LocationID,
		Quantity:         inv.Quantity,
		ReorderThreshold: inv.ReorderThreshold,
		MaxStockLevel:    inv.MaxStockLevel,
		UpdatedAt:        inv.UpdatedAt,
	}
}

func toMovementDTO(m *inventory.Movement) *MovementDTO {
	if m == nil {
		return nil
	}
	return &MovementDTO{
		ID:            m.ID,
		ProductID:     m.ProductID,
		LocationID:    m.LocationID,
		Type:          string(m.Type),
		Quantity:      m.Quantity,
		QuantityAfter: m.QuantityAfter,
		Reference:     m.Reference,
		CreatedAt:     m.CreatedAt,
	}
}
