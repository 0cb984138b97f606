package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/shared"
)

// OrganizationType categorizes what role an organization plays in trade
type OrganizationType string

const (
	OrganizationTypeBuyer    OrganizationType = "buyer"
	OrganizationTypeSupplier OrganizationType = "supplier"
	OrganizationTypeBoth     OrganizationType = "both"
	OrganizationTypeInternal OrganizationType = "internal"
)

// IsValid returns true if the organization type is valid
func (t OrganizationType) IsValid() bool {
	switch t {
	case OrganizationTypeBuyer, OrganizationTypeSupplier, OrganizationTypeBoth, OrganizationTypeInternal:
		return true
	}
	return false
}

// String returns the string representation of OrganizationType
func (t OrganizationType) String() string {
	return string(t)
}

// CanSupply returns true if organizations of this type can sell stock
func (t OrganizationType) CanSupply() bool {
	return t == OrganizationTypeSupplier || t == OrganizationTypeBoth
}

// CanBuy returns true if organizations of this type can place orders
func (t OrganizationType) CanBuy() bool {
	return t == OrganizationTypeBuyer || t == OrganizationTypeBoth || t == OrganizationTypeInternal
}

// Organization is the tenant aggregate root. Every tenant-owned row in the
// system references exactly one Organization. Organizations are created
// inactive and activated once via a one-time token; they are never hard-deleted.
type Organization struct {
	shared.BaseAggregateRoot
	Name            string           `gorm:"type:varchar(255);not null;uniqueIndex"`
	Type            OrganizationType `gorm:"type:varchar(20);not null;default:'buyer';index"`
	ContactEmail    string           `gorm:"type:varchar(255)"`
	ContactPhone    string           `gorm:"type:varchar(20)"`
	Address         string           `gorm:"type:text"`
	Active          bool             `gorm:"not null;default:false;index"`
	ActivationToken uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex"`
	EmailSent       bool             `gorm:"not null;default:false"`
	ActivatedAt     *time.Time
}

// TableName returns the table name for GORM
func (Organization) TableName() string {
	return "organizations"
}

// NewOrganization creates a new inactive organization with a fresh activation token
func NewOrganization(name string, orgType OrganizationType, contactEmail string) (*Organization, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Organization name cannot be empty")
	}
	if !orgType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION_TYPE", "Invalid organization type")
	}

	org := &Organization{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Type:              orgType,
		ContactEmail:      contactEmail,
		Active:            false,
		ActivationToken:   uuid.New(),
	}

	org.AddDomainEvent(NewOrganizationCreatedEvent(org))

	return org, nil
}

// Activate activates the organization if the supplied token matches its
// one-time activation token. Activating an already active organization fails.
func (o *Organization) Activate(token uuid.UUID) error {
	if o.Active {
		return shared.NewDomainError("INVALID_STATE", "Organization is already active")
	}
	if token == uuid.Nil || token != o.ActivationToken {
		return shared.ErrNotFound
	}

	now := time.Now()
	o.Active = true
	o.ActivatedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrganizationActivatedEvent(o))

	return nil
}

// MarkActivationEmailSent records that the activation email went out
func (o *Organization) MarkActivationEmailSent() {
	o.EmailSent = true
	o.UpdatedAt = time.Now()
}
