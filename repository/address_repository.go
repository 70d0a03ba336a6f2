package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aishwaryacollections/storefront/models"
)

// AddressRepository defines the interface for saved shipping addresses
type AddressRepository interface {
	// FindByUserID returns the user's addresses, default first, then newest
	// first; the first entry is the storefront's implied selection.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	FindByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (*models.Address, error)
	Create(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// GormAddressRepository implements AddressRepository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

func NewGormAddressRepository(db *gorm.DB) AddressRepository {
	return &GormAddressRepository{db: db}
}

func (r *GormAddressRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var addresses []models.Address
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *GormAddressRepository) FindByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (*models.Address, error) {
	var address models.Address
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &address, nil
}

func (r *GormAddressRepository) Create(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}

func (r *GormAddressRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Address{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
