package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/shared"
)

// Kind classifies notifications
type Kind string

const (
	KindLowStock   Kind = "low_stock"
	KindOrderEvent Kind = "order_event"
	KindActivation Kind = "activation"
)

// Notification is a per-user message produced by domain event handlers.
// Delivery is fire-and-forget; a failed delivery never rolls back the
// transaction that produced the triggering event.
type Notification struct {
	shared.TenantAggregateRoot
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind        Kind      `gorm:"type:varchar(30);not null;index"`
	Subject     string    `gorm:"type:varchar(255);not null"`
	Body        string    `gorm:"type:text"`
	Reference   string    `gorm:"type:varchar(100);index"`
	ReadAt      *time.Time
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification creates an unread notification for a user
func NewNotification(tenantID, recipientID uuid.UUID, kind Kind, subject, body, reference string) (*Notification, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID is required")
	}
	if recipientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Recipient ID is required")
	}
	if subject == "" {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Subject cannot be empty")
	}

	return &Notification{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RecipientID:         recipientID,
		Kind:                kind,
		Subject:             subject,
		Body:                body,
		Reference:           reference,
	}, nil
}

// MarkRead stamps the notification as read
func (n *Notification) MarkRead() {
	if n.ReadAt != nil {
		return
	}
	now := time.Now()
	n.ReadAt = &now
	n.UpdatedAt = now
}
