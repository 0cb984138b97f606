package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/shared"
	"github.com/stocksync/backend/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &order, nil
}

// FindByOrderNumber finds an order by its number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &order, nil
}

// FindPendingCart finds the tenant's open pending order
func (r *GormOrderRepository) FindPendingCart(ctx context.Context) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ?", trade.OrderStatusPending).
		Order("created_at DESC").
		First(&order).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &order, nil
}

// FindAll lists orders of the current tenant
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, int64, error) {
	var orders []trade.Order
	var count int64

	base := r.db.WithContext(ctx).Model(&trade.Order{})
	for key, value := range filter.Filters {
		switch key {
		case "status", "payment_status", "buyer_id":
			base = base.Where(key+" = ?", value)
		}
	}

	if err := base.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	query := applyPagination(base, filter).Preload("Items")
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

// NextOrderNumber allocates the next order number for a tenant. Concurrent
// allocations for the same tenant serialize on a row lock against the
// organizations table, so two orders never receive the same sequence. Must
// run inside a transaction; the lock is held until commit.
func (r *GormOrderRepository) NextOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	// per-tenant serialization point
	var lockedID uuid.UUID
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Table("organizations").
		Select("id").
		Where("id = ?", tenantID).
		Scan(&lockedID).Error; err != nil {
		return "", err
	}

	seq, err := r.lastSequence(ctx, tenantID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		// fall back to the first sequence rather than leaving the order
		// without a number
		return trade.FormatOrderNumber(tenantID, 1), nil
	}

	return trade.FormatOrderNumber(tenantID, seq+1), nil
}

// lastSequence parses the highest assigned sequence for a tenant. Returns 0
// when the tenant has no orders yet. Numbers past 999999 outgrow the zero
// padding, so ordering goes by length first; within one length the padded
// suffix sorts numerically.
func (r *GormOrderRepository) lastSequence(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var lastNumber string
	err := r.db.WithContext(ctx).
		Model(&trade.Order{}).
		Select("order_number").
		Where("tenant_id = ?", tenantID).
		Order("LENGTH(order_number) DESC, order_number DESC").
		Limit(1).
		Scan(&lastNumber).Error
	if err != nil {
		return 0, err
	}
	if lastNumber == "" {
		return 0, nil
	}

	parts := strings.Split(lastNumber, "-")
	var seq int64
	if _, err := fmt.Sscanf(parts[len(parts)-1], "%d", &seq); err != nil {
		return 0, err
	}
	return seq, nil
}

// Save creates or updates an order and its items. Items removed from the
// aggregate are deleted so the stored item set always mirrors the cart.
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(order.Items))
		for i := range order.Items {
			keep = append(keep, order.Items[i].ID)
		}
		q := tx.Where("order_id = ?", order.ID)
		if len(keep) > 0 {
			q = q.Where("id NOT IN ?", keep)
		}
		return q.Delete(&trade.OrderItem{}).Error
	})
}

// SaveWithLock updates an order with optimistic locking
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *trade.Order) error {
	result := r.db.WithContext(ctx).
		Model(order).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(map[string]interface{}{
			"status":         order.Status,
			"payment_status": order.PaymentStatus,
			"total_amount":   order.TotalAmount,
			"completed_at":   order.CompletedAt,
			"canceled_at":    order.CanceledAt,
			"version":        order.Version,
			"updated_at":     order.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)
