package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aishwaryacollections/storefront/models"
	"github.com/aishwaryacollections/storefront/repository"
)

const idempotencyTTL = 24 * time.Hour

// AddressInput is a shipping address entered at checkout.
type AddressInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address" binding:"required"`
	City      string `json:"city" binding:"required"`
	Pincode   string `json:"pincode" binding:"required"`
}

// PlaceOrderRequest selects a saved address or supplies a new one.
type PlaceOrderRequest struct {
	AddressID     string        `json:"address_id"`
	Address       *AddressInput `json:"address"`
	SaveAddress   bool          `json:"save_address"`
	PaymentMethod string        `json:"payment_method" binding:"required,oneof=cod online"`
}

// UpdateStatusRequest is the admin status-transition payload.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type OrderResponse struct {
	Orders []models.Order `json:"orders"`
	Meta   MetaData       `json:"meta"`
}

type MetaData struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalOrders int64 `json:"total_orders"`
	TotalPages  int64 `json:"total_pages"`
	HasMore     bool  `json:"has_more"`
}

type OrderService struct {
	orders    repository.OrderRepository
	addresses repository.AddressRepository
	cart      repository.CartRepository
	logger    *zap.Logger
}

func NewOrderService(
	orders repository.OrderRepository,
	addresses repository.AddressRepository,
	cart repository.CartRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		addresses: addresses,
		cart:      cart,
		logger:    logger,
	}
}

// PlaceOrder converts the user's cart into a persisted order. The whole
// pipeline is one transaction: order, items, stock decrements and the optional
// saved address either all commit or none do. An Idempotency-Key makes
// duplicate submissions return the original order without new side effects.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, req *PlaceOrderRequest, idempotencyKey string) (*models.Order, *ServiceError) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid user ID format"}
	}

	if idempotencyKey != "" {
		if existing, err := s.cart.GetIdempotency(ctx, idempotencyKey); err == nil && existing != "" {
			return s.replayOrder(ctx, existing, userUUID)
		} else if err != nil {
			s.logger.Warn("Idempotency lookup failed", zap.Error(err))
		}
	}

	cart, err := s.cart.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to load cart"}
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Cart is empty"}
	}

	shipName, shipAddress, shipCity, shipPincode, newAddress, svcErr := s.resolveShipping(ctx, userUUID, req)
	if svcErr != nil {
		return nil, svcErr
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	var total int64
	for _, line := range cart.Items {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Invalid product ID %q in cart", line.ProductID)}
		}

		display := line.Price
		if line.DiscountPrice != "" {
			display = line.DiscountPrice
		}
		price, err := ParsePrice(display)
		if err != nil {
			return nil, &ServiceError{StatusCode: 400, Message: fmt.Sprintf("Invalid price for %s", line.Name)}
		}

		total += price
		items = append(items, models.OrderItem{
			ProductID:   productID,
			ProductName: line.Name,
			Category:    line.Category,
			Size:        line.Size,
			Quantity:    1,
			Price:       price,
		})
	}

	order := &models.Order{
		OrderNumber:   newOrderNumber(),
		UserID:        userUUID,
		ShipName:      shipName,
		ShipAddress:   shipAddress,
		ShipCity:      shipCity,
		ShipPincode:   shipPincode,
		Amount:        total,
		PaymentMethod: req.PaymentMethod,
		Status:        models.StatusPending,
	}

	if err := s.orders.PlaceOrder(ctx, order, items, newAddress); err != nil {
		var oos *repository.OutOfStockError
		if errors.As(err, &oos) {
			name := oos.ProductID.String()
			for _, item := range items {
				if item.ProductID == oos.ProductID {
					name = item.ProductName
					break
				}
			}
			return nil, &ServiceError{StatusCode: 409, Message: fmt.Sprintf("Out of stock: %s", name)}
		}
		s.logger.Error("Failed to place order",
			zap.String("user_id", userID),
			zap.String("order_number", order.OrderNumber),
			zap.Error(err),
		)
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to place order"}
	}
	order.OrderItems = items

	if idempotencyKey != "" {
		if err := s.cart.SetIdempotency(ctx, idempotencyKey, order.ID.String(), idempotencyTTL); err != nil {
			s.logger.Warn("Failed to record idempotency key", zap.Error(err))
		}
	}
	if err := s.cart.DeleteCart(ctx, userID); err != nil {
		s.logger.Warn("Failed to clear cart after checkout",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", userID),
		zap.Int64("amount", order.Amount),
		zap.Int("items", len(items)),
	)
	return order, nil
}

// replayOrder returns the order already created under an idempotency key.
func (s *OrderService) replayOrder(ctx context.Context, orderID string, userID uuid.UUID) (*models.Order, *ServiceError) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Invalid idempotency record"}
	}
	order, err := s.orders.FindByIDAndUserID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch order"}
	}
	return order, nil
}

// resolveShipping picks a saved address or validates a newly entered one.
func (s *OrderService) resolveShipping(ctx context.Context, userID uuid.UUID, req *PlaceOrderRequest) (name, address, city, pincode string, newAddress *models.Address, svcErr *ServiceError) {
	if req.AddressID != "" {
		addrID, err := uuid.Parse(req.AddressID)
		if err != nil {
			return "", "", "", "", nil, &ServiceError{StatusCode: 400, Message: "Invalid address ID format"}
		}
		saved, err := s.addresses.FindByIDAndUserID(ctx, addrID, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "", "", "", "", nil, &ServiceError{StatusCode: 404, Message: "Address not found"}
			}
			return "", "", "", "", nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch address"}
		}
		return saved.FirstName + " " + saved.LastName, saved.Address, saved.City, saved.Pincode, nil, nil
	}

	if req.Address == nil {
		return "", "", "", "", nil, &ServiceError{StatusCode: 400, Message: "Shipping address is required"}
	}
	if req.Address.Address == "" || req.Address.City == "" || req.Address.Pincode == "" {
		return "", "", "", "", nil, &ServiceError{StatusCode: 400, Message: "Address, city and pincode are required"}
	}

	if req.SaveAddress {
		newAddress = &models.Address{
			UserID:    userID,
			FirstName: req.Address.FirstName,
			LastName:  req.Address.LastName,
			Address:   req.Address.Address,
			City:      req.Address.City,
			Pincode:   req.Address.Pincode,
		}
	}
	return req.Address.FirstName + " " + req.Address.LastName,
		req.Address.Address, req.Address.City, req.Address.Pincode, newAddress, nil
}

// UpdateStatus applies an admin-triggered status transition. Illegal hops are
// rejected; cancelling restocks the order's units.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, target string) (*models.Order, *ServiceError) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch order"}
	}

	if !models.CanTransition(order.Status, target) {
		return nil, &ServiceError{
			StatusCode: 422,
			Message:    fmt.Sprintf("Cannot transition order from %s to %s", order.Status, target),
		}
	}

	if target == models.StatusCancelled {
		err = s.orders.Cancel(ctx, orderID, order.Status)
	} else {
		err = s.orders.UpdateStatus(ctx, orderID, order.Status, target)
	}
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, &ServiceError{StatusCode: 409, Message: "Order was updated concurrently, retry"}
		}
		s.logger.Error("Failed to update order status",
			zap.String("order_id", orderID.String()),
			zap.String("target", target),
			zap.Error(err),
		)
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update order status"}
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("from", order.Status),
		zap.String("to", target),
	)

	updated, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch order"}
	}
	return updated, nil
}

// GetUserOrders retrieves paginated orders for a specific user
func (s *OrderService) GetUserOrders(ctx context.Context, userID string, page, limit int) (*OrderResponse, *ServiceError) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid user ID format"}
	}

	orders, total, err := s.orders.FindByUserID(ctx, userUUID, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch orders", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}

	return &OrderResponse{
		Orders: orders,
		Meta:   buildMeta(page, limit, total),
	}, nil
}

// GetAllOrders retrieves paginated orders for all users (admin only)
func (s *OrderService) GetAllOrders(ctx context.Context, status string, page, limit int) (*OrderResponse, *ServiceError) {
	orders, total, err := s.orders.FindAll(ctx, status, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch all orders", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}

	return &OrderResponse{
		Orders: orders,
		Meta:   buildMeta(page, limit, total),
	}, nil
}

// GetOrderByID retrieves a specific order for a user
func (s *OrderService) GetOrderByID(ctx context.Context, userID string, orderID uuid.UUID) (*models.Order, *ServiceError) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid user ID format"}
	}

	order, err := s.orders.FindByIDAndUserID(ctx, orderID, userUUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		s.logger.Error("Failed to fetch order",
			zap.String("order_id", orderID.String()),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch order"}
	}

	return order, nil
}

func buildMeta(page, limit int, total int64) MetaData {
	return MetaData{
		Page:        page,
		Limit:       limit,
		TotalOrders: total,
		TotalPages:  calculateTotalPages(total, limit),
		HasMore:     total > int64(page*limit),
	}
}

func calculateTotalPages(total int64, limit int) int64 {
	if limit == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

// newOrderNumber carries the placement second plus eight hex chars of a fresh
// UUID, wide enough that two checkouts in the same second cannot collide on
// the unique index.
func newOrderNumber() string {
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("AC-%d-%s", time.Now().Unix(), suffix)
}
