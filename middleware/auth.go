package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aishwaryacollections/storefront/services"
)

const (
	UserContextKey  = "userID"
	EmailContextKey = "email"
	RoleContextKey  = "role"
)

// Auth validates the bearer token (or the token cookie set at login) and
// stores the claims on the context.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := services.ParseJWT(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(UserContextKey, claims.UserID)
		c.Set(EmailContextKey, claims.Email)
		c.Set(RoleContextKey, claims.Role)
		c.Next()
	}
}

// AdminOnly resolves the effective role (admins table, then profile, then
// token claim) and rejects non-admins.
func AdminOnly(authz *services.AuthzService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := GetUserID(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claimRole := c.GetString(RoleContextKey)
		role := authz.ResolveRole(c.Request.Context(), userID, claimRole)
		if role != services.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		c.Set(RoleContextKey, role)
		c.Next()
	}
}

// GetUserID returns the authenticated user's ID from the context.
func GetUserID(c *gin.Context) (string, error) {
	if val, ok := c.Get(UserContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id, nil
		}
	}
	return "", errors.New("user ID not found in context")
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}
	return ""
}
