package models

import "time"

// CartItem is one sellable unit selected by the customer. Lines are written
// server-side from the catalog when an item is added; prices are carried as
// display strings and parsed into paise at checkout. One line is one unit:
// adding the same product twice produces two lines.
type CartItem struct {
	ProductID     string `json:"product_id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	Price         string `json:"price"`
	DiscountPrice string `json:"discount_price,omitempty"`
	ImageURL      string `json:"image_url,omitempty"`
	Size          string `json:"size,omitempty"`
}

// Cart is the server-side cart for a user, stored in Redis with a TTL.
type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}
