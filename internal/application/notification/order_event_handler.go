package notification

import (
	"context"

	"github.com/stocksync/backend/internal/domain/identity"
	"github.com/stocksync/backend/internal/domain/shared"
	"github.com/stocksync/backend/internal/domain/trade"
	"github.com/stocksync/backend/internal/infrastructure/persistence/tenant"
	"go.uber.org/zap"
)

// OrderEventHandler notifies the ordering tenant's admins and managers when
// an order completes or is canceled.
type OrderEventHandler struct {
	service  *Service
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewOrderEventHandler creates a new OrderEventHandler
func NewOrderEventHandler(service *Service, userRepo identity.UserRepository, log *zap.Logger) *OrderEventHandler {
	return &OrderEventHandler{
		service:  service,
		userRepo: userRepo,
		logger:   log,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderEventHandler) EventTypes() []string {
	return []string{trade.EventTypeOrderCompleted, trade.EventTypeOrderCanceled}
}

// Handle processes order lifecycle events
func (h *OrderEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var orderNumber, eventType string
	switch ev := event.(type) {
	case *trade.OrderCompletedEvent:
		orderNumber, eventType = ev.OrderNumber, "completed"
	case *trade.OrderCanceledEvent:
		orderNumber, eventType = ev.OrderNumber, "canceled"
	default:
		return nil
	}

	users, err := h.userRepo.FindActiveByOrganizationAndRoles(tenant.AsSystem(ctx), event.TenantID(),
		[]identity.Role{identity.RoleAdmin, identity.RoleManager})
	if err != nil {
		return err
	}

	for i := range users {
		if err := h.service.NotifyOrderEvent(ctx, event.TenantID(), users[i].ID, orderNumber, eventType); err != nil {
			h.logger.Error("failed to record order notification",
				zap.String("order_number", orderNumber),
				zap.Error(err),
			)
		}
	}
	return nil
}

var _ shared.EventHandler = (*OrderEventHandler)(nil)
