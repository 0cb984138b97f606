package identity

import (
	"github.com/stocksync/backend/internal/domain/shared"
)

// Event types for the identity bounded context
const (
	EventTypeOrganizationCreated   = "identity.organization_created"
	EventTypeOrganizationActivated = "identity.organization_activated"
)

// OrganizationCreatedEvent is emitted when a new organization is onboarded.
// Handlers send the activation email carrying the one-time token.
type OrganizationCreatedEvent struct {
	shared.BaseDomainEvent
	Name            string `json:"name"`
	ContactEmail    string `json:"contact_email"`
	ActivationToken string `json:"activation_token"`
}

// NewOrganizationCreatedEvent creates a new OrganizationCreatedEvent
func NewOrganizationCreatedEvent(org *Organization) *OrganizationCreatedEvent {
	return &OrganizationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrganizationCreated, "Organization", org.ID, org.ID),
		Name:            org.Name,
		ContactEmail:    org.ContactEmail,
		ActivationToken: org.ActivationToken.String(),
	}
}

// OrganizationActivatedEvent is emitted when an organization redeems its
// activation token.
type OrganizationActivatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewOrganizationActivatedEvent creates a new OrganizationActivatedEvent
func NewOrganizationActivatedEvent(org *Organization) *OrganizationActivatedEvent {
	return &OrganizationActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrganizationActivated, "Organization", org.ID, org.ID),
		Name:            org.Name,
	}
}
