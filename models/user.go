package models

import (
	"time"

	"github.com/google/uuid"
)

// User model
type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email         string     `gorm:"unique;not null" json:"email"`
	Password      string     `gorm:"not null" json:"-"`
	Name          string     `gorm:"not null" json:"name"`
	EmailVerified bool       `gorm:"default:false" json:"email_verified"`
	OTPCode       string     `gorm:"size:6" json:"-"`
	OTPExpiresAt  *time.Time `json:"-"`
	Role          string     `gorm:"type:varchar(50);default:'customer'" json:"role"`
	LastSignInAt  *time.Time `json:"last_sign_in_at,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// Admin marks a user as a back-office administrator. A row here takes
// precedence over any profile role or token claim.
type Admin struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Profile carries customer-facing profile data and an optional role override.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	FullName  string    `json:"full_name"`
	Role      string    `gorm:"type:varchar(50)" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Address is a saved shipping address for a user.
type Address struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Address   string    `gorm:"not null" json:"address"`
	City      string    `gorm:"not null" json:"city"`
	Pincode   string    `gorm:"not null" json:"pincode"`
	IsDefault bool      `gorm:"default:false" json:"is_default"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
