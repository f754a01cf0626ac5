package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/talentflow/internal/config"
	"github.com/jonathan/talentflow/internal/types"
)

// UserService authenticates staff accounts
type UserService struct {
	db             UserStore
	passwordConfig *config.PasswordConfig
}

// NewUserService creates a new UserService with the given dependencies
func NewUserService(db UserStore, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{
		db:             db,
		passwordConfig: passwordConfig,
	}
}

// Login checks the credentials and returns the account.
// Unknown emails, wrong passwords and disabled accounts are indistinguishable.
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	dbUser, err := s.db.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if dbUser == nil || !dbUser.IsActive {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(req.Password, dbUser.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}
	return dbUser.ToAPI(), nil
}

// Me returns the account behind an authenticated request.
func (s *UserService) Me(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	dbUser, err := s.db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return nil, &ErrNotFound{Resource: "user", ID: userID}
	}
	return dbUser.ToAPI(), nil
}
