package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/shared"
)

// Repository defines the interface for notification persistence
type Repository interface {
	// FindByID finds a notification by ID within the current tenant
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// FindByRecipient lists a user's notifications, newest first
	FindByRecipient(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) ([]Notification, error)

	// CountUnread counts a user's unread notifications
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)

	// Save creates or updates a notification
	Save(ctx context.Context, n *Notification) error
}
