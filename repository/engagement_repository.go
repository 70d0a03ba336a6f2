package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aishwaryacollections/storefront/models"
)

// WishlistRepository defines the interface for wishlist entries
type WishlistRepository interface {
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error)
}

// ReviewRepository defines the interface for product reviews
type ReviewRepository interface {
	Create(ctx context.Context, review *models.ProductReview) error
	FindByProductID(ctx context.Context, productID uuid.UUID) ([]models.ProductReview, float64, error)
}

// NewsletterRepository defines the interface for newsletter subscribers
type NewsletterRepository interface {
	Subscribe(ctx context.Context, email string) error
}

type GormWishlistRepository struct {
	db *gorm.DB
}

func NewGormWishlistRepository(db *gorm.DB) WishlistRepository {
	return &GormWishlistRepository{db: db}
}

// Add is idempotent: re-adding an existing product is a no-op.
func (r *GormWishlistRepository) Add(ctx context.Context, userID, productID uuid.UUID) error {
	item := models.WishlistItem{UserID: userID, ProductID: productID}
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil
		}
		return err
	}
	return nil
}

func (r *GormWishlistRepository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormWishlistRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

type GormReviewRepository struct {
	db *gorm.DB
}

func NewGormReviewRepository(db *gorm.DB) ReviewRepository {
	return &GormReviewRepository{db: db}
}

func (r *GormReviewRepository) Create(ctx context.Context, review *models.ProductReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *GormReviewRepository) FindByProductID(ctx context.Context, productID uuid.UUID) ([]models.ProductReview, float64, error) {
	var reviews []models.ProductReview
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	var average float64
	if err := r.db.WithContext(ctx).
		Model(&models.ProductReview{}).
		Where("product_id = ?", productID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&average).Error; err != nil {
		return nil, 0, err
	}

	return reviews, average, nil
}

type GormNewsletterRepository struct {
	db *gorm.DB
}

func NewGormNewsletterRepository(db *gorm.DB) NewsletterRepository {
	return &GormNewsletterRepository{db: db}
}

// Subscribe is a no-op for already-subscribed emails.
func (r *GormNewsletterRepository) Subscribe(ctx context.Context, email string) error {
	sub := models.NewsletterSubscriber{Email: strings.ToLower(email)}
	if err := r.db.WithContext(ctx).Create(&sub).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil
		}
		return err
	}
	return nil
}
