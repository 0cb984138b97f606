package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/shared"
)

// Role represents a user's role within their organization
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// IsValid returns true if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// CanReceiveStockAlerts returns true for roles that get low-stock notifications
func (r Role) CanReceiveStockAlerts() bool {
	return r == RoleAdmin || r == RoleManager
}

// User is an account belonging to at most one organization. Superusers carry
// no organization and may operate across tenants.
type User struct {
	shared.BaseAggregateRoot
	Email          string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	Username       string     `gorm:"type:varchar(150);not null;uniqueIndex"`
	FirstName      string     `gorm:"type:varchar(150)"`
	LastName       string     `gorm:"type:varchar(150)"`
	PasswordHash   string     `gorm:"type:varchar(255);not null"`
	Role           Role       `gorm:"type:varchar(20);not null;default:'staff'"`
	Active         bool       `gorm:"not null;default:true;index"`
	Superuser      bool       `gorm:"not null;default:false"`
	OrganizationID *uuid.UUID `gorm:"type:uuid;index"`
	LastLoginAt    *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new active user in the given organization
func NewUser(email, username, passwordHash string, role Role, organizationID *uuid.UUID) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if username == "" {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Invalid role")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		Username:          username,
		PasswordHash:      passwordHash,
		Role:              role,
		Active:            true,
		OrganizationID:    organizationID,
	}, nil
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin returns true for superusers and organization admins
func (u *User) IsAdmin() bool {
	return u.Superuser || u.Role == RoleAdmin
}

// Deactivate disables the account without deleting it
func (u *User) Deactivate() {
	u.Active = false
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// RecordLogin stamps the last login time
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}
