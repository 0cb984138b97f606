package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/identity"
)

// OnboardOrganizationRequest creates a new inactive organization
type OnboardOrganizationRequest struct {
	Name         string `json:"name" binding:"required"`
	Type         string `json:"type" binding:"required"`
	ContactEmail string `json:"contact_email" binding:"required,email"`
	ContactPhone string `json:"contact_phone"`
	Address      string `json:"address"`
}

// RegisterUserRequest creates a user inside an organization
type RegisterUserRequest struct {
	OrganizationID uuid.UUID `json:"organization_id" binding:"required"`
	Email          string    `json:"email" binding:"required,email"`
	Username       string    `json:"username" binding:"required"`
	Password       string    `json:"password" binding:"required,min=8"`
	Role           string    `json:"role" binding:"required"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
}

// LoginRequest authenticates a user
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResult carries the issued token
type LoginResult struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserDTO   `json:"user"`
}

// OrganizationDTO is the read model for an organization
type OrganizationDTO struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	ContactEmail string     `json:"contact_email"`
	Active       bool       `json:"active"`
	ActivatedAt  *time.Time `json:"activated_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// UserDTO is the read model for a user
type UserDTO struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	Username       string     `json:"username"`
	Role           string     `json:"role"`
	Active         bool       `json:"active"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
}

func toOrganizationDTO(org *identity.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:           org.ID,
		Name:         org.Name,
		Type:         string(org.Type),
		ContactEmail: org.ContactEmail,
		Active:       org.Active,
		ActivatedAt:  org.ActivatedAt,
		CreatedAt:    org.CreatedAt,
	}
}

func toUserDTO(user *identity.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		Email:          user.Email,
		Username:       user.Username,
		Role:           string(user.Role),
		Active:         user.Active,
		OrganizationID: user.OrganizationID,
	}
}
