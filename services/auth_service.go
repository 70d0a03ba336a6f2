package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/aishwaryacollections/storefront/models"
	"github.com/aishwaryacollections/storefront/repository"
)

const otpLength = 6
const otpValidity = 15 * time.Minute

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type ResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetConfirmRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService struct {
	users     repository.UserRepository
	email     EmailSender
	jwtSecret []byte
	logger    *zap.Logger
}

func NewAuthService(users repository.UserRepository, email EmailSender, jwtSecret []byte, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		email:     email,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// Register creates an unverified account and emails a 6-digit OTP.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, *ServiceError) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to hash password"}
	}

	expiry := time.Now().Add(otpValidity)
	user := &models.User{
		Email:        strings.ToLower(req.Email),
		Password:     string(hashed),
		Name:         req.Name,
		Role:         "customer",
		OTPCode:      generateOTP(),
		OTPExpiresAt: &expiry,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ServiceError{StatusCode: 409, Message: "Email already exists"}
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create account"}
	}

	if err := s.email.Send(user.Email, "Email Verification",
		fmt.Sprintf("Your verification code is: %s", user.OTPCode)); err != nil {
		s.logger.Error("Failed to send verification email", zap.String("email", user.Email), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to send verification email"}
	}

	return user, nil
}

// VerifyEmail confirms the registration OTP.
func (s *AuthService) VerifyEmail(ctx context.Context, req *VerifyEmailRequest) *ServiceError {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &ServiceError{StatusCode: 404, Message: "User not found"}
		}
		return &ServiceError{StatusCode: 500, Message: "Failed to fetch user"}
	}

	if user.OTPCode == "" || user.OTPCode != req.Code {
		return &ServiceError{StatusCode: 401, Message: "Invalid verification code"}
	}
	if user.OTPExpiresAt == nil || time.Now().After(*user.OTPExpiresAt) {
		return &ServiceError{StatusCode: 401, Message: "Verification code expired"}
	}

	user.EmailVerified = true
	user.OTPCode = ""
	user.OTPExpiresAt = nil
	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("Failed to mark email verified", zap.String("email", user.Email), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to update user"}
	}
	return nil
}

// Login authenticates credentials and issues a JWT.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, *ServiceError) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ServiceError{StatusCode: 401, Message: "Invalid credentials"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch user"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, &ServiceError{StatusCode: 401, Message: "Invalid credentials"}
	}
	if !user.EmailVerified {
		return nil, &ServiceError{StatusCode: 403, Message: "Email not verified"}
	}

	token, err := GenerateJWT(s.jwtSecret, user.ID.String(), user.Email, user.Role)
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to generate token"}
	}

	now := time.Now()
	user.LastSignInAt = &now
	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Warn("Failed to record sign-in time", zap.String("email", user.Email), zap.Error(err))
	}

	return &LoginResult{Token: token, User: user}, nil
}

// RequestPasswordReset emails a reset OTP. The response does not reveal
// whether the address exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req *ResetRequest) *ServiceError {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return &ServiceError{StatusCode: 500, Message: "Failed to process request"}
	}

	expiry := time.Now().Add(otpValidity)
	user.OTPCode = generateOTP()
	user.OTPExpiresAt = &expiry
	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("Failed to store reset code", zap.String("email", user.Email), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to process request"}
	}

	if err := s.email.Send(user.Email, "Password Reset",
		fmt.Sprintf("Your password reset code is: %s", user.OTPCode)); err != nil {
		s.logger.Error("Failed to send reset email", zap.String("email", user.Email), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to send reset email"}
	}
	return nil
}

// ConfirmPasswordReset validates the OTP and replaces the password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, req *ResetConfirmRequest) *ServiceError {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &ServiceError{StatusCode: 401, Message: "Invalid reset code"}
		}
		return &ServiceError{StatusCode: 500, Message: "Failed to fetch user"}
	}

	if user.OTPCode == "" || user.OTPCode != req.Code {
		return &ServiceError{StatusCode: 401, Message: "Invalid reset code"}
	}
	if user.OTPExpiresAt == nil || time.Now().After(*user.OTPExpiresAt) {
		return &ServiceError{StatusCode: 401, Message: "Reset code expired"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return &ServiceError{StatusCode: 500, Message: "Failed to hash password"}
	}

	user.Password = string(hashed)
	user.OTPCode = ""
	user.OTPExpiresAt = nil
	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("Failed to update password", zap.String("email", user.Email), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to update password"}
	}
	return nil
}

// generateOTP draws each digit from crypto/rand; verification and password
// reset codes must not be guessable.
func generateOTP() string {
	code := ""
	for i := 0; i < otpLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			code += "0"
			continue
		}
		code += n.String()
	}
	return code
}
