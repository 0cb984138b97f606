package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/identity"
	"github.com/stocksync/backend/internal/domain/shared"
	"github.com/stocksync/backend/internal/infrastructure/auth"
	"github.com/stocksync/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// UserService handles user registration and authentication
type UserService struct {
	userRepo identity.UserRepository
	orgRepo  identity.OrganizationRepository
	jwt      *auth.JWTService
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, orgRepo identity.OrganizationRepository, jwt *auth.JWTService, log *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		orgRepo:  orgRepo,
		jwt:      jwt,
		logger:   log,
	}
}

// Register creates a new user inside an active organization
func (s *UserService) Register(ctx context.Context, req RegisterUserRequest) (*UserDTO, error) {
	org, err := s.orgRepo.FindByID(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}
	if !org.Active {
		return nil, shared.ErrInvalidState
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, shared.ErrAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := identity.NewUser(req.Email, req.Username, hash, identity.Role(req.Role), &org.ID)
	if err != nil {
		return nil, err
	}
	user.FirstName = req.FirstName
	user.LastName = req.LastName

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("organization_id", org.ID.String()),
	)

	dto := toUserDTO(user)
	return &dto, nil
}

// Login authenticates a user and issues an access token. Bad credentials and
// unknown emails are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if !user.Active || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, shared.ErrNotFound
	}

	var tenantID uuid.UUID
	if user.OrganizationID != nil {
		org, err := s.orgRepo.FindByID(ctx, *user.OrganizationID)
		if err != nil {
			return nil, err
		}
		if !org.Active {
			return nil, shared.ErrInvalidState
		}
		tenantID = org.ID
	} else if !user.Superuser {
		return nil, shared.ErrInvalidState
	}

	token, expiresAt, err := s.jwt.GenerateToken(auth.GenerateTokenInput{
		TenantID:  tenantID,
		UserID:    user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		Superuser: user.Superuser,
	})
	if err != nil {
		return nil, err
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Warn("failed to record login time", zap.Error(err))
	}

	return &LoginResult{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        toUserDTO(user),
	}, nil
}
