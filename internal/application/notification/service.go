package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/notification"
	"github.com/stocksync/backend/internal/domain/shared"
	appinv "github.com/stocksync/backend/internal/application/inventory"
	"github.com/stocksync/backend/internal/infrastructure/persistence/tenant"
	"go.uber.org/zap"
)

// Service persists per-user notifications. It is the sink behind the
// low-stock fan-out and order lifecycle alerts; writes run under a system
// scope because the alerted tenant often differs from the caller's.
type Service struct {
	repo   notification.Repository
	logger *zap.Logger
}

// NewService creates a new notification Service
func NewService(repo notification.Repository, log *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log,
	}
}

// NotifyLowStock writes one low-stock notification per recipient. Each call
// produces fresh rows; repeated alerts for the same inventory row stack up
// rather than deduplicate.
func (s *Service) NotifyLowStock(ctx context.Context, alert appinv.LowStockAlert, recipients []uuid.UUID) error {
	sysCtx := tenant.AsSystem(ctx)
	subject := "Stock below reorder threshold"
	body := fmt.Sprintf("Product %s at location %s is down to %d (threshold %d).",
		alert.ProductID, alert.LocationID, alert.Quantity, alert.ReorderThreshold)

	for _, recipient := range recipients {
		n, err := notification.NewNotification(alert.TenantID, recipient,
			notification.KindLowStock, subject, body, alert.InventoryID.String())
		if err != nil {
			return err
		}
		if err := s.repo.Save(sysCtx, n); err != nil {
			s.logger.Error("failed to persist low-stock notification",
				zap.String("recipient_id", recipient.String()),
				zap.Error(err),
			)
			// keep delivering to the remaining recipients
		}
	}
	return nil
}

// NotifyOrderEvent records an order lifecycle notification for a user
func (s *Service) NotifyOrderEvent(ctx context.Context, tenantID, recipient uuid.UUID, orderNumber, eventType string) error {
	n, err := notification.NewNotification(tenantID, recipient,
		notification.KindOrderEvent, "Order "+eventType, "Order "+orderNumber+" is now "+eventType+".", orderNumber)
	if err != nil {
		return err
	}
	return s.repo.Save(tenant.AsSystem(ctx), n)
}

// ListForUser lists a user's notifications
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]notification.Notification, error) {
	return s.repo.FindByRecipient(ctx, userID, filter)
}

// UnreadCount returns how many of a user's notifications are unread
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead marks one notification as read
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	n.MarkRead()
	return s.repo.Save(ctx, n)
}

var _ appinv.LowStockNotifier = (*Service)(nil)
