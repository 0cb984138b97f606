package trade

import (
	"github.com/shopspring/decimal"
	"github.com/stocksync/backend/internal/domain/shared"
)

// Event types for the trade bounded context
const (
	EventTypeOrderCreated   = "trade.order_created"
	EventTypeOrderCompleted = "trade.order_completed"
	EventTypeOrderCanceled  = "trade.order_canceled"
)

// OrderCreatedEvent is emitted when a new pending cart is opened
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, "Order", order.ID, order.TenantID),
		OrderNumber:     order.OrderNumber,
	}
}

// OrderCompletedEvent is emitted after checkout settles
type OrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
}

// NewOrderCompletedEvent creates a new OrderCompletedEvent
func NewOrderCompletedEvent(order *Order) *OrderCompletedEvent {
	return &OrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCompleted, "Order", order.ID, order.TenantID),
		OrderNumber:     order.OrderNumber,
		TotalAmount:     order.TotalAmount,
		ItemCount:       len(order.Items),
	}
}

// OrderCanceledEvent is emitted when an order is canceled. WasCompleted tells
// handlers whether compensating stock movements are required.
type OrderCanceledEvent struct {
	shared.BaseDomainEvent
	OrderNumber  string `json:"order_number"`
	WasCompleted bool   `json:"was_completed"`
}

// NewOrderCanceledEvent creates a new OrderCanceledEvent
func NewOrderCanceledEvent(order *Order, wasCompleted bool) *OrderCanceledEvent {
	return &OrderCanceledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCanceled, "Order", order.ID, order.TenantID),
		OrderNumber:     order.OrderNumber,
		WasCompleted:    wasCompleted,
	}
}
