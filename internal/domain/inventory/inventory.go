package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/shared"
)

// Inventory tracks the on-hand quantity of one product at one location.
// Quantity never changes except through a recorded movement; replaying the
// movement ledger from zero always reproduces the current quantity.
type Inventory struct {
	shared.TenantAggregateRoot
	ProductID        uuid.UUID `gorm:"type:uuid;not null;index:idx_inventories_product_location"`
	LocationID       uuid.UUID `gorm:"type:uuid;not null;index:idx_inventories_product_location"`
	Quantity         int64     `gorm:"not null;default:0"`
	ReorderThreshold int64     `gorm:"not null;default:0"`
	MaxStockLevel    int64     `gorm:"not null;default:0"` // 0 means uncapped
}

// TableName returns the table name for GORM
func (Inventory) TableName() string {
	return "inventories"
}

// NewInventory creates an empty inventory row for a product at a location
func NewInventory(tenantID, productID, locationID uuid.UUID) (*Inventory, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID is required")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID is required")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID is required")
	}

	return &Inventory{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		LocationID:          locationID,
		Quantity:            0,
		ReorderThreshold:    0,
	}, nil
}

// AddStock increases the quantity and records a movement of the given type.
// Only inbound movement types are accepted.
func (i *Inventory) AddStock(quantity int64, movementType MovementType, reference string, performedBy *uuid.UUID) (*Movement, error) {
	if quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}
	if !movementType.IsInbound() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Movement type does not add stock")
	}

	i.Quantity += quantity
	i.touch()

	movement := i.newMovement(movementType, quantity, reference, performedBy)
	i.checkReorderThreshold()
	return movement, nil
}

// RemoveStock decreases the quantity and records a movement of the given
// type. The quantity never goes negative; an oversized removal fails before
// any state changes.
func (i *Inventory) RemoveStock(quantity int64, movementType MovementType, reference string, performedBy *uuid.UUID) (*Movement, error) {
	if quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}
	if !movementType.IsOutbound() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Movement type does not remove stock")
	}
	if i.Quantity < quantity {
		return nil, shared.ErrInsufficientStock
	}

	i.Quantity -= quantity
	i.touch()

	movement := i.newMovement(movementType, -quantity, reference, performedBy)
	i.checkReorderThreshold()
	return movement, nil
}

// AdjustStock sets the quantity to an absolute value and records the signed
// difference as an adjustment movement. Adjusting to the current quantity
// records nothing.
func (i *Inventory) AdjustStock(newQuantity int64, reference string, performedBy *uuid.UUID) (*Movement, error) {
	if newQuantity < 0 {
		return nil, shared.ErrInvalidQuantity
	}

	delta := newQuantity - i.Quantity
	if delta == 0 {
		return nil, nil
	}

	i.Quantity = newQuantity
	i.touch()

	movement := i.newMovement(MovementTypeAdjustment, delta, reference, performedBy)
	i.checkReorderThreshold()
	return movement, nil
}

// SetReorderThreshold changes the low-stock alert threshold
func (i *Inventory) SetReorderThreshold(threshold int64) error {
	return i.SetStockLevels(threshold, i.MaxStockLevel)
}

// SetStockLevels changes the low-stock alert threshold and the stock ceiling
// in one step. A zero ceiling means uncapped.
func (i *Inventory) SetStockLevels(threshold, max int64) error {
	if threshold < 0 {
		return shared.NewDomainError("INVALID_THRESHOLD", "Reorder threshold cannot be negative")
	}
	if max < 0 {
		return shared.NewDomainError("INVALID_MAX_STOCK", "Max stock level cannot be negative")
	}
	if max > 0 && max < threshold {
		return shared.NewDomainError("INVALID_MAX_STOCK", "Max stock level cannot be below the reorder threshold")
	}
	i.ReorderThreshold = threshold
	i.MaxStockLevel = max
	i.touch()
	return nil
}

// IsBelowThreshold reports whether the quantity is at or below the threshold
func (i *Inventory) IsBelowThreshold() bool {
	return i.ReorderThreshold > 0 && i.Quantity <= i.ReorderThreshold
}

func (i *Inventory) newMovement(movementType MovementType, delta int64, reference string, performedBy *uuid.UUID) *Movement {
	return NewMovement(i, movementType, delta, reference, performedBy)
}

// checkReorderThreshold emits a low-stock event whenever the quantity sits at
// or below the threshold after a recorded movement, inbound ones included.
// Repeated low-stock movements each emit again; there is no deduplication.
func (i *Inventory) checkReorderThreshold() {
	if i.IsBelowThreshold() {
		i.AddDomainEvent(NewStockBelowThresholdEvent(i))
	}
}

func (i *Inventory) touch() {
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}
