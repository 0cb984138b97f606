package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/shared"
)

// OrganizationRepository defines the interface for organization persistence.
// Organizations are global rows (they are the tenants), so this repository
// is not itself tenant-scoped.
type OrganizationRepository interface {
	// FindByID finds an organization by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)

	// FindByName finds an organization by its unique name
	FindByName(ctx context.Context, name string) (*Organization, error)

	// FindByActivationToken finds an organization by its one-time activation token
	FindByActivationToken(ctx context.Context, token uuid.UUID) (*Organization, error)

	// FindAll lists organizations matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Organization, error)

	// ExistsByName checks whether an organization name is already taken
	ExistsByName(ctx context.Context, name string) (bool, error)

	// Save creates or updates an organization
	Save(ctx context.Context, org *Organization) error
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindActiveByOrganizationAndRoles finds active users of an organization
	// holding any of the given roles. Used for low-stock alert fan-out.
	FindActiveByOrganizationAndRoles(ctx context.Context, organizationID uuid.UUID, roles []Role) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error
}
