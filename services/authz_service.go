package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aishwaryacollections/storefront/repository"
)

const RoleAdmin = "admin"
const RoleCustomer = "customer"

// AuthzService resolves the effective role for a user. Precedence is fixed:
// a row in the admins table wins, then the profile role, then the token
// claim, and finally the customer default.
type AuthzService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewAuthzService(users repository.UserRepository, logger *zap.Logger) *AuthzService {
	return &AuthzService{users: users, logger: logger}
}

func (s *AuthzService) ResolveRole(ctx context.Context, userID, claimRole string) string {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return RoleCustomer
	}

	isAdmin, err := s.users.IsAdmin(ctx, uid)
	if err != nil {
		s.logger.Warn("Admin lookup failed", zap.String("user_id", userID), zap.Error(err))
	} else if isAdmin {
		return RoleAdmin
	}

	profile, err := s.users.FindProfile(ctx, uid)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("Profile lookup failed", zap.String("user_id", userID), zap.Error(err))
	}
	if err == nil && profile.Role != "" {
		return profile.Role
	}

	if claimRole != "" {
		return claimRole
	}
	return RoleCustomer
}
