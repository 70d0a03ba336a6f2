package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aishwaryacollections/storefront/models"
)

// OutOfStockError identifies the product that could not be decremented.
type OutOfStockError struct {
	ProductID uuid.UUID
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("insufficient stock: product %s", e.ProductID)
}

func (e *OutOfStockError) Unwrap() error { return ErrInsufficientStock }

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	// PlaceOrder atomically creates the order and its items, decrements stock
	// per line with a conditional update, and optionally persists a new saved
	// address, all inside one transaction. A failed stock decrement rolls the
	// whole order back and returns an OutOfStockError.
	PlaceOrder(ctx context.Context, order *models.Order, items []models.OrderItem, newAddress *models.Address) error
	FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, error)
	FindAll(ctx context.Context, status string, page, limit int) ([]models.Order, int64, error)
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindByIDAndUserID(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)
	// UpdateStatus moves an order from one status to another; the update is
	// conditional on the current status so racing admins cannot skip hops.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to string) error
	// Cancel marks the order cancelled and restocks its line items in the
	// same transaction.
	Cancel(ctx context.Context, orderID uuid.UUID, from string) error
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new instance of GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) PlaceOrder(ctx context.Context, order *models.Order, items []models.OrderItem, newAddress *models.Address) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if newAddress != nil {
			if err := tx.Create(newAddress).Error; err != nil {
				return fmt.Errorf("save address: %w", err)
			}
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("create order items: %w", err)
		}

		for _, item := range items {
			if err := decrementStock(tx, item.ProductID, item.Size, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

// decrementStock performs the conditional decrement. The guarded UPDATE is the
// concurrency control: two competing checkouts against the last unit cannot
// both match "stock >= qty". The per-size map is adjusted afterwards under the
// row lock the UPDATE already holds.
func decrementStock(tx *gorm.DB, productID uuid.UUID, size string, qty int) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return fmt.Errorf("decrement stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &OutOfStockError{ProductID: productID}
	}

	if size == "" {
		return nil
	}

	var product models.Product
	if err := tx.Select("id", "sizes").First(&product, "id = ?", productID).Error; err != nil {
		return fmt.Errorf("load sizes: %w", err)
	}
	if product.Sizes == nil {
		return nil
	}
	if remaining, ok := product.Sizes[size]; ok {
		if remaining < qty {
			return &OutOfStockError{ProductID: productID}
		}
		product.Sizes[size] = remaining - qty
		if err := tx.Model(&models.Product{}).
			Where("id = ?", productID).
			UpdateColumn("sizes", product.Sizes).Error; err != nil {
			return fmt.Errorf("update sizes: %w", err)
		}
	}
	return nil
}

// FindByUserID retrieves orders for a specific user with pagination
func (r *GormOrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("OrderItems").
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// FindAll retrieves all orders with pagination, optionally filtered by status
func (r *GormOrderRepository) FindAll(ctx context.Context, status string, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("OrderItems").
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *GormOrderRepository) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("OrderItems").
		First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByIDAndUserID(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to string) error {
	updates := map[string]interface{}{"status": to}
	if to == models.StatusDelivered {
		now := time.Now()
		updates["delivered_at"] = &now
	}

	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (r *GormOrderRepository) Cancel(ctx context.Context, orderID uuid.UUID, from string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, from).
			Updates(map[string]interface{}{
				"status":      models.StatusCancelled,
				"canceled_at": &now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}

		var items []models.OrderItem
		if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
			return err
		}

		// Compensation: return each cancelled unit to stock.
		for _, item := range items {
			if err := restock(tx, item.ProductID, item.Size, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

// restock mirrors decrementStock: the stock column gets the units back, and a
// sized line also restores its entry in the per-size map so the size stays
// sellable after a cancel.
func restock(tx *gorm.DB, productID uuid.UUID, size string, qty int) error {
	if err := tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty)).Error; err != nil {
		return fmt.Errorf("restock: %w", err)
	}

	if size == "" {
		return nil
	}

	var product models.Product
	if err := tx.Select("id", "sizes").First(&product, "id = ?", productID).Error; err != nil {
		return fmt.Errorf("load sizes: %w", err)
	}
	if product.Sizes == nil {
		return nil
	}
	if remaining, ok := product.Sizes[size]; ok {
		product.Sizes[size] = remaining + qty
		if err := tx.Model(&models.Product{}).
			Where("id = ?", productID).
			UpdateColumn("sizes", product.Sizes).Error; err != nil {
			return fmt.Errorf("update sizes: %w", err)
		}
	}
	return nil
}
