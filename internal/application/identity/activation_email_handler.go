package identity

import (
	"context"
	"fmt"

	"github.com/stocksync/backend/internal/domain/identity"
	"github.com/stocksync/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ActivationMailer delivers activation emails. Delivery is fire-and-forget;
// failures are logged and retried on the next onboarding attempt, never
// rolled back into the creating transaction.
type ActivationMailer interface {
	SendActivationEmail(ctx context.Context, recipient, orgName, token string) error
}

// ActivationEmailHandler reacts to organization creation by sending the
// activation email carrying the one-time token.
type ActivationEmailHandler struct {
	orgRepo identity.OrganizationRepository
	mailer  ActivationMailer
	logger  *zap.Logger
}

// NewActivationEmailHandler creates a new ActivationEmailHandler
func NewActivationEmailHandler(orgRepo identity.OrganizationRepository, mailer ActivationMailer, log *zap.Logger) *ActivationEmailHandler {
	return &ActivationEmailHandler{
		orgRepo: orgRepo,
		mailer:  mailer,
		logger:  log,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ActivationEmailHandler) EventTypes() []string {
	return []string{identity.EventTypeOrganizationCreated}
}

// Handle processes an OrganizationCreatedEvent
func (h *ActivationEmailHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	ev, ok := event.(*identity.OrganizationCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			identity.EventTypeOrganizationCreated, event.EventType())
	}

	if ev.ContactEmail == "" {
		h.logger.Warn("organization has no contact email, skipping activation email",
			zap.String("organization_id", ev.AggregateID().String()))
		return nil
	}

	if err := h.mailer.SendActivationEmail(ctx, ev.ContactEmail, ev.Name, ev.ActivationToken); err != nil {
		return fmt.Errorf("sending activation email: %w", err)
	}

	org, err := h.orgRepo.FindByID(ctx, ev.AggregateID())
	if err != nil {
		return err
	}
	org.MarkActivationEmailSent()
	return h.orgRepo.Save(ctx, org)
}

var _ shared.EventHandler = (*ActivationEmailHandler)(nil)
