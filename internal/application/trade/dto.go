package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stocksync/backend/internal/domain/trade"
)

// UpdateCartRequest adds a signed quantity delta for a product to the
// tenant's open cart
type UpdateCartRequest struct {
	ProductID     uuid.UUID `json:"product_id" binding:"required"`
	QuantityDelta int64     `json:"quantity_delta" binding:"required"`
}

// CompleteOrderRequest finalizes an order against the total the caller
// believed it was paying
type CompleteOrderRequest struct {
	OrderID       uuid.UUID       `json:"order_id" binding:"required"`
	ReportedTotal decimal.Decimal `json:"reported_total" binding:"required"`
}

// OrderItemDTO is the read model for one order line
type OrderItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderDTO is the read model for an order
type OrderDTO struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Items         []OrderItemDTO  `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	CanceledAt    *time.Time      `json:"canceled_at,omitempty"`
}

func toOrderDTO(order *trade.Order) *OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		items = append(items, OrderItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal(),
		})
	}
	return &OrderDTO{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		TotalAmount:   order.TotalAmount,
		Items:         items,
		CreatedAt:     order.CreatedAt,
		CompletedAt:   order.CompletedAt,
		CanceledAt:    order.CanceledAt,
	}
}
