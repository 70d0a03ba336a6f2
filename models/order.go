package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order statuses. Admin-driven transitions move one hop forward through the
// chain; Cancelled is reachable from any non-terminal status. Delivered and
// Cancelled are terminal.
const (
	StatusPending   = "Pending"
	StatusPreparing = "Preparing"
	StatusShipped   = "Shipped"
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"
)

// PaymentMethodCOD and PaymentMethodOnline are the accepted payment methods.
const (
	PaymentMethodCOD    = "cod"
	PaymentMethodOnline = "online"
)

type Order struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber   string         `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	ShipName      string         `gorm:"not null" json:"ship_name"`
	ShipAddress   string         `gorm:"not null" json:"ship_address"`
	ShipCity      string         `gorm:"not null" json:"ship_city"`
	ShipPincode   string         `gorm:"not null" json:"ship_pincode"`
	Amount        int64          `gorm:"not null" json:"amount"` // paise
	PaymentMethod string         `gorm:"type:varchar(20);not null" json:"payment_method"`
	Status        string         `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	CanceledAt    *time.Time     `json:"canceled_at,omitempty"`
	DeliveredAt   *time.Time     `json:"delivered_at,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	OrderItems    []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`
}

type OrderItem struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	ProductName string    `gorm:"not null" json:"product_name"`
	Category    string    `json:"category"`
	Size        string    `json:"size,omitempty"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Price       int64     `gorm:"not null" json:"price"` // paise at time of purchase
}

// nextStatus maps each status to the single legal forward hop.
var nextStatus = map[string]string{
	StatusPending:   StatusPreparing,
	StatusPreparing: StatusShipped,
	StatusShipped:   StatusDelivered,
}

// IsTerminalStatus reports whether no further transitions are allowed.
func IsTerminalStatus(status string) bool {
	return status == StatusDelivered || status == StatusCancelled
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	if IsTerminalStatus(from) {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	return nextStatus[from] == to
}
