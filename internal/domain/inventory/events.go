package inventory

import (
	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/shared"
)

// Event types for the inventory bounded context
const (
	EventTypeStockBelowThreshold = "inventory.stock_below_threshold"
)

// StockBelowThresholdEvent is emitted every time a movement leaves the
// quantity at or below the reorder threshold. Handlers fan the alert out to
// the tenant's admin and manager users.
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	ProductID        uuid.UUID `json:"product_id"`
	LocationID       uuid.UUID `json:"location_id"`
	Quantity         int64     `json:"quantity"`
	ReorderThreshold int64     `json:"reorder_threshold"`
}

// NewStockBelowThresholdEvent creates a new StockBelowThresholdEvent
func NewStockBelowThresholdEvent(inv *Inventory) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, "Inventory", inv.ID, inv.TenantID),
		ProductID:        inv.ProductID,
		LocationID:       inv.LocationID,
		Quantity:         inv.Quantity,
		ReorderThreshold: inv.ReorderThreshold,
	}
}
