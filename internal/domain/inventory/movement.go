package inventory

import (
	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/shared"
)

// MovementType classifies why stock changed
type MovementType string

const (
	MovementTypeAddition   MovementType = "addition"
	MovementTypeRemoval    MovementType = "removal"
	MovementTypeAdjustment MovementType = "adjustment"
	MovementTypeTransfer   MovementType = "transfer"
	MovementTypeSale       MovementType = "sale"
	MovementTypePurchase   MovementType = "purchase"
)

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeAddition, MovementTypeRemoval, MovementTypeAdjustment,
		MovementTypeTransfer, MovementTypeSale, MovementTypePurchase:
		return true
	}
	return false
}

// IsInbound returns true for types that increase stock
func (t MovementType) IsInbound() bool {
	return t == MovementTypeAddition || t == MovementTypePurchase || t == MovementTypeTransfer
}

// IsOutbound returns true for types that decrease stock
func (t MovementType) IsOutbound() bool {
	return t == MovementTypeRemoval || t == MovementTypeSale || t == MovementTypeTransfer
}

// Movement is one append-only ledger entry. Quantity is the signed delta
// applied to the inventory row; QuantityAfter is the resulting quantity.
// Movements are never updated or deleted.
type Movement struct {
	shared.BaseEntity
	TenantID      uuid.UUID    `gorm:"type:uuid;not null;index"`
	InventoryID   uuid.UUID    `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID    `gorm:"type:uuid;not null;index"`
	LocationID    uuid.UUID    `gorm:"type:uuid;not null;index"`
	Type          MovementType `gorm:"type:varchar(20);not null;index"`
	Quantity      int64        `gorm:"not null"`
	QuantityAfter int64        `gorm:"not null"`
	Reference     string       `gorm:"type:varchar(100);index"`
	PerformedBy   *uuid.UUID   `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "stock_movements"
}

// NewMovement records a stock change against an inventory row. The caller
// must have already applied the delta to the row; QuantityAfter captures the
// post-movement quantity.
func NewMovement(inv *Inventory, movementType MovementType, delta int64, reference string, performedBy *uuid.UUID) *Movement {
	return &Movement{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      inv.TenantID,
		InventoryID:   inv.ID,
		ProductID:     inv.ProductID,
		LocationID:    inv.LocationID,
		Type:          movementType,
		Quantity:      delta,
		QuantityAfter: inv.Quantity,
		Reference:     reference,
		PerformedBy:   performedBy,
	}
}
