package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/aishwaryacollections/storefront/models"
	"github.com/aishwaryacollections/storefront/repository"
)

type CreateCustomerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role"`
}

// CustomerService backs the admin customer-management endpoints.
type CustomerService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewCustomerService(users repository.UserRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{users: users, logger: logger}
}

// List returns the aggregated customer view: identity plus order count and
// lifetime spend.
func (s *CustomerService) List(ctx context.Context) ([]repository.CustomerSummary, *ServiceError) {
	summaries, err := s.users.AggregateCustomers(ctx)
	if err != nil {
		s.logger.Error("Failed to aggregate customers", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch customers"}
	}
	return summaries, nil
}

// Create provisions a verified user plus profile on behalf of an admin.
func (s *CustomerService) Create(ctx context.Context, req *CreateCustomerRequest) (*models.User, *ServiceError) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to hash password"}
	}

	role := req.Role
	if role == "" {
		role = RoleCustomer
	}

	user := &models.User{
		Email:         strings.ToLower(req.Email),
		Password:      string(hashed),
		Name:          req.Name,
		Role:          role,
		EmailVerified: true, // admin-created accounts skip OTP verification
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ServiceError{StatusCode: 409, Message: "Email already exists"}
		}
		s.logger.Error("Failed to create customer", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create customer"}
	}

	profile := &models.Profile{
		UserID:   user.ID,
		FullName: req.Name,
		Role:     role,
	}
	if err := s.users.CreateProfile(ctx, profile); err != nil {
		s.logger.Error("Failed to create profile",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create customer profile"}
	}

	return user, nil
}

// Delete removes a user and its authorization records.
func (s *CustomerService) Delete(ctx context.Context, userID uuid.UUID) *ServiceError {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Customer not found"}
		}
		s.logger.Error("Failed to delete customer", zap.String("user_id", userID.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete customer"}
	}
	return nil
}
