package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aishwaryacollections/storefront/models"
)

// CustomerSummary is the aggregated back-office view of a customer.
type CustomerSummary struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	CreatedAt    time.Time  `json:"created_at"`
	LastSignInAt *time.Time `json:"last_sign_in_at"`
	OrderCount   int64      `json:"order_count"`
	TotalSpent   int64      `json:"total_spent"` // paise
}

// UserRepository defines the interface for auth users, admin records and profiles
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	FindProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	CreateProfile(ctx context.Context, profile *models.Profile) error
	AggregateCustomers(ctx context.Context) ([]CustomerSummary, error)
}

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *GormUserRepository) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete removes the user and its profile and admin rows.
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Admin{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *GormUserRepository) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Admin{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormUserRepository) FindProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *GormUserRepository) CreateProfile(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// AggregateCustomers returns one row per user with order count and lifetime
// spend, excluding cancelled orders from the totals.
func (r *GormUserRepository) AggregateCustomers(ctx context.Context) ([]CustomerSummary, error) {
	var summaries []CustomerSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT u.id, u.email, u.name, u.created_at, u.last_sign_in_at,
		       COUNT(o.id)              AS order_count,
		       COALESCE(SUM(o.amount), 0) AS total_spent
		FROM users u
		LEFT JOIN orders o
		  ON o.user_id = u.id AND o.status <> ? AND o.deleted_at IS NULL
		GROUP BY u.id, u.email, u.name, u.created_at, u.last_sign_in_at
		ORDER BY u.created_at DESC`,
		models.StatusCancelled,
	).Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}
