package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims carried by storefront access tokens.
type TokenClaims struct {
	UserID string
	Email  string
	Role   string
}

// GenerateJWT generates a signed token with user ID, email and role.
func GenerateJWT(secret []byte, userID, email, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"role":    role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseJWT validates a token and extracts the storefront claims.
func ParseJWT(secret []byte, tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	out := &TokenClaims{}
	if v, ok := claims["user_id"].(string); ok {
		out.UserID = v
	}
	if v, ok := claims["email"].(string); ok {
		out.Email = v
	}
	if v, ok := claims["role"].(string); ok {
		out.Role = v
	}
	if out.UserID == "" {
		return nil, fmt.Errorf("token missing user_id claim")
	}
	return out, nil
}
