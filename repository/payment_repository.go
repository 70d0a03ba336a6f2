package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/aishwaryacollections/storefront/models"
)

// PaymentRepository defines the interface for payment records
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Payment, error)
	UpdateStatus(ctx context.Context, gatewayOrderID, gatewayPaymentID, status string) error
}

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

func NewGormPaymentRepository(db *gorm.DB) PaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *GormPaymentRepository) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).
		Where("gateway_order_id = ?", gatewayOrderID).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *GormPaymentRepository) UpdateStatus(ctx context.Context, gatewayOrderID, gatewayPaymentID, status string) error {
	updates := map[string]interface{}{"status": status}
	if gatewayPaymentID != "" {
		updates["gateway_payment_id"] = gatewayPaymentID
	}

	res := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("gateway_order_id = ?", gatewayOrderID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
