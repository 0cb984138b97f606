package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/identity"
	"github.com/stocksync/backend/internal/domain/inventory"
	"github.com/stocksync/backend/internal/domain/shared"
	"github.com/stocksync/backend/internal/infrastructure/persistence/tenant"
	"go.uber.org/zap"
)

// LowStockAlert carries the data handed to the notification sink
type LowStockAlert struct {
	TenantID         uuid.UUID
	InventoryID      uuid.UUID
	ProductID        uuid.UUID
	LocationID       uuid.UUID
	Quantity         int64
	ReorderThreshold int64
}

// LowStockNotifier delivers low-stock alerts to a set of users.
// Implementations are fire-and-forget; a delivery failure is logged and
// never unwinds the stock mutation that raised the alert.
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, alert LowStockAlert, recipients []uuid.UUID) error
}

// StockBelowThresholdHandler fans low-stock events out to the tenant's
// active admin and manager users. Every event produces a fresh fan-out;
// repeated alerts for the same row are not deduplicated.
type StockBelowThresholdHandler struct {
	userRepo identity.UserRepository
	notifier LowStockNotifier
	logger   *zap.Logger
}

// NewStockBelowThresholdHandler creates a new StockBelowThresholdHandler
func NewStockBelowThresholdHandler(userRepo identity.UserRepository, notifier LowStockNotifier, log *zap.Logger) *StockBelowThresholdHandler {
	return &StockBelowThresholdHandler{
		userRepo: userRepo,
		notifier: notifier,
		logger:   log,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *StockBelowThresholdHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowThreshold}
}

// Handle processes a StockBelowThresholdEvent
func (h *StockBelowThresholdHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	ev, ok := event.(*inventory.StockBelowThresholdEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockBelowThreshold, event.EventType())
	}

	h.logger.Warn("stock below reorder threshold",
		zap.String("tenant_id", ev.TenantID().String()),
		zap.String("product_id", ev.ProductID.String()),
		zap.String("location_id", ev.LocationID.String()),
		zap.Int64("quantity", ev.Quantity),
		zap.Int64("reorder_threshold", ev.ReorderThreshold),
	)

	users, err := h.userRepo.FindActiveByOrganizationAndRoles(tenant.AsSystem(ctx), ev.TenantID(),
		[]identity.Role{identity.RoleAdmin, identity.RoleManager})
	if err != nil {
		return fmt.Errorf("resolving alert recipients: %w", err)
	}
	if len(users) == 0 {
		h.logger.Warn("no alert recipients for tenant",
			zap.String("tenant_id", ev.TenantID().String()))
		return nil
	}

	recipients := make([]uuid.UUID, 0, len(users))
	for i := range users {
		recipients = append(recipients, users[i].ID)
	}

	alert := LowStockAlert{
		TenantID:         ev.TenantID(),
		InventoryID:      ev.AggregateID(),
		ProductID:        ev.ProductID,
		LocationID:       ev.LocationID,
		Quantity:         ev.Quantity,
		ReorderThreshold: ev.ReorderThreshold,
	}
	return h.notifier.NotifyLowStock(ctx, alert, recipients)
}

var _ shared.EventHandler = (*StockBelowThresholdHandler)(nil)
