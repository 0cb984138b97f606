package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stocksync/backend/internal/domain/shared"
)

// OrderStatus represents the order lifecycle state
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCanceled   OrderStatus = "canceled"
)

// IsValid returns true if the order status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCompleted, OrderStatusCanceled:
		return true
	}
	return false
}

// IsTerminal returns true for states the order cannot leave
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCanceled
}

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentStatusUnpaid            PaymentStatus = "unpaid"
	PaymentStatusPaid              PaymentStatus = "paid"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
)

// FormatOrderNumber renders a tenant-scoped order number. The tenant prefix
// is the first segment of the organization UUID, enough to keep numbers
// readable while staying unique together with the sequence.
func FormatOrderNumber(tenantID uuid.UUID, seq int64) string {
	return fmt.Sprintf("ORD-%s-%06d", tenantID.String()[:8], seq)
}

// OrderItem is one line of an order. UnitPrice is captured at add time and
// does not follow later product price changes.
type OrderItem struct {
	shared.BaseEntity
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int64           `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal returns quantity times unit price
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// Order is the cart-then-order aggregate owned by the buying organization.
// It starts life as a pending cart on the first item add and is assigned its
// order number at first persistence.
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber   string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	BuyerID       *uuid.UUID      `gorm:"type:uuid;index"` // supplier-side buyer record, when known
	Status        OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(20);not null;default:'unpaid'"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID"`
	CompletedAt   *time.Time
	CanceledAt    *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates an empty pending order. The order number must already be
// allocated by the per-tenant sequencer.
func NewOrder(tenantID uuid.UUID, orderNumber string) (*Order, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID is required")
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number is required")
	}

	order := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		Status:              OrderStatusPending,
		PaymentStatus:       PaymentStatusUnpaid,
		TotalAmount:         decimal.Zero,
		Items:               make([]OrderItem, 0),
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// UpsertItem adds the signed quantity delta to the product's line, creating
// the line if absent. A resulting quantity of zero or less deletes the line
// instead of persisting a non-positive quantity. The order total is
// recomputed after every mutation.
func (o *Order) UpsertItem(productID uuid.UUID, quantityDelta int64, unitPrice decimal.Decimal) error {
	if !o.IsMutable() {
		return shared.ErrInvalidState
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID is required")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	idx := o.itemIndex(productID)
	if idx < 0 {
		if quantityDelta <= 0 {
			// decrement of a line that does not exist is a no-op
			return nil
		}
		item := OrderItem{
			BaseEntity: shared.NewBaseEntity(),
			TenantID:   o.TenantID,
			OrderID:    o.ID,
			ProductID:  productID,
			Quantity:   quantityDelta,
			UnitPrice:  unitPrice,
		}
		o.Items = append(o.Items, item)
	} else {
		newQty := o.Items[idx].Quantity + quantityDelta
		if newQty <= 0 {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
		} else {
			o.Items[idx].Quantity = newQty
			o.Items[idx].UpdatedAt = time.Now()
		}
	}

	o.recomputeTotal()
	o.touch()
	return nil
}

// RemoveItem deletes the product's line outright
func (o *Order) RemoveItem(productID uuid.UUID) error {
	if !o.IsMutable() {
		return shared.ErrInvalidState
	}
	idx := o.itemIndex(productID)
	if idx < 0 {
		return shared.ErrNotFound
	}
	o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
	o.recomputeTotal()
	o.touch()
	return nil
}

// Complete validates the caller's reported total against the recomputed
// authoritative total and transitions the order to completed. A mismatch
// fails with no state change. Stock settlement is driven by the application
// layer inside the same transaction.
func (o *Order) Complete(reportedTotal decimal.Decimal) error {
	if o.Status != OrderStatusPending {
		return shared.ErrInvalidState
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Order has no items")
	}

	o.recomputeTotal()
	if !o.TotalAmount.Equal(reportedTotal) {
		return shared.ErrTotalMismatch
	}

	now := time.Now()
	o.Status = OrderStatusCompleted
	o.PaymentStatus = PaymentStatusPaid
	o.CompletedAt = &now
	o.touch()

	o.AddDomainEvent(NewOrderCompletedEvent(o))

	return nil
}

// Cancel transitions the order to canceled. Canceling a completed order is
// allowed; reversal of its settled stock happens through new compensating
// movements, never by editing ledger history.
func (o *Order) Cancel() error {
	if o.Status == OrderStatusCanceled {
		return shared.ErrInvalidState
	}

	now := time.Now()
	wasCompleted := o.Status == OrderStatusCompleted
	o.Status = OrderStatusCanceled
	o.CanceledAt = &now
	o.touch()

	o.AddDomainEvent(NewOrderCanceledEvent(o, wasCompleted))

	return nil
}

// IsMutable returns true while the cart can still be edited
func (o *Order) IsMutable() bool {
	return o.Status == OrderStatusPending
}

// recomputeTotal derives the total from the current item set. It runs after
// every item mutation; skipping it desynchronizes checkout total comparison.
func (o *Order) recomputeTotal() {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Subtotal())
	}
	o.TotalAmount = total
}

func (o *Order) itemIndex(productID uuid.UUID) int {
	for i := range o.Items {
		if o.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}
