package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment statuses.
const (
	PaymentStatusCreated  = "created"
	PaymentStatusCaptured = "captured"
	PaymentStatusFailed   = "failed"
)

// Payment tracks a gateway payment for an order.
type Payment struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID          uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	GatewayOrderID   string    `gorm:"uniqueIndex;not null" json:"gateway_order_id"`
	GatewayPaymentID string    `json:"gateway_payment_id,omitempty"`
	Amount           int64     `gorm:"not null" json:"amount"` // paise
	Currency         string    `gorm:"type:varchar(8);not null" json:"currency"`
	Status           string    `gorm:"type:varchar(20);not null;default:'created'" json:"status"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
