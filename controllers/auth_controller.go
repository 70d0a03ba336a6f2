package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aishwaryacollections/storefront/services"
)

type AuthController struct {
	authService *services.AuthService
}

func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register creates a new account and sends the verification OTP
func (ac *AuthController) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body", "details": err.Error()})
		return
	}

	user, svcErr := ac.authService.Register(c.Request.Context(), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created, verification code sent",
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

// VerifyEmail confirms the registration OTP
func (ac *AuthController) VerifyEmail(c *gin.Context) {
	var req services.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	if svcErr := ac.authService.VerifyEmail(c.Request.Context(), &req); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

// Login authenticates and sets the token cookie
func (ac *AuthController) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	result, svcErr := ac.authService.Login(c.Request.Context(), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.SetCookie("token", result.Token, 86400, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in",
		"token":   result.Token,
		"user": gin.H{
			"id":    result.User.ID,
			"email": result.User.Email,
			"name":  result.User.Name,
		},
	})
}

// RequestPasswordReset sends a reset OTP
func (ac *AuthController) RequestPasswordReset(c *gin.Context) {
	var req services.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	if svcErr := ac.authService.RequestPasswordReset(c.Request.Context(), &req); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	// Same response whether or not the address exists.
	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset code has been sent"})
}

// ConfirmPasswordReset applies a new password after OTP validation
func (ac *AuthController) ConfirmPasswordReset(c *gin.Context) {
	var req services.ResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	if svcErr := ac.authService.ConfirmPasswordReset(c.Request.Context(), &req); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
