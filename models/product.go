package models

import (
	"time"

	"github.com/google/uuid"
)

// SizeMap holds per-size sellable quantities, e.g. {"S": 2, "M": 5}.
type SizeMap map[string]int

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type Product struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string     `gorm:"not null" json:"name"`
	CategoryID    *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	Category      *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Price         int64      `gorm:"not null" json:"price"` // paise
	DiscountPrice *int64     `json:"discount_price,omitempty"`
	Stock         int        `gorm:"not null;default:0" json:"stock"`
	Sizes         SizeMap    `gorm:"serializer:json" json:"sizes,omitempty"`
	ImageURL      string     `json:"image_url"`
	Description   string     `gorm:"type:text" json:"description"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type ProductReview struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type WishlistItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_product" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_product" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewsletterSubscriber struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	SubscribedAt time.Time `gorm:"autoCreateTime" json:"subscribed_at"`
}
