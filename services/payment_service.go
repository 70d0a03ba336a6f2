package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aishwaryacollections/storefront/models"
	"github.com/aishwaryacollections/storefront/providers"
	"github.com/aishwaryacollections/storefront/repository"
)

// PaymentActionRequest is the single payment endpoint payload. The action
// field selects between creating a gateway order and verifying a completed
// payment's signature.
type PaymentActionRequest struct {
	Action string `json:"action" binding:"required,oneof=create-order verify-payment"`

	// create-order fields
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`

	// verify-payment fields
	GatewayOrderID string `json:"gateway_order_id"`
	PaymentID      string `json:"payment_id"`
	Signature      string `json:"signature"`
}

type PaymentService struct {
	payments repository.PaymentRepository
	gateway  providers.PaymentProvider
	logger   *zap.Logger
}

func NewPaymentService(payments repository.PaymentRepository, gateway providers.PaymentProvider, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		payments: payments,
		gateway:  gateway,
		logger:   logger,
	}
}

// CreateGatewayOrder asks the gateway for an order object and records the
// pending payment against the storefront order.
func (s *PaymentService) CreateGatewayOrder(ctx context.Context, req *PaymentActionRequest) (*providers.GatewayOrder, *ServiceError) {
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid order ID format"}
	}
	if req.Amount <= 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Amount must be positive"}
	}

	gatewayOrder, err := s.gateway.CreateOrder(ctx, req.Amount, req.Currency, req.Receipt)
	if err != nil {
		s.logger.Error("Gateway order creation failed",
			zap.String("order_id", req.OrderID),
			zap.Error(err),
		)
		return nil, &ServiceError{StatusCode: 502, Message: "Payment gateway unavailable"}
	}

	payment := &models.Payment{
		OrderID:        orderID,
		GatewayOrderID: gatewayOrder.ID,
		Amount:         gatewayOrder.Amount,
		Currency:       gatewayOrder.Currency,
		Status:         models.PaymentStatusCreated,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		s.logger.Error("Failed to record payment",
			zap.String("gateway_order_id", gatewayOrder.ID),
			zap.Error(err),
		)
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to record payment"}
	}

	return gatewayOrder, nil
}

// VerifyPayment HMAC-validates the gateway signature over orderId|paymentId
// and marks the payment captured or failed accordingly.
func (s *PaymentService) VerifyPayment(ctx context.Context, req *PaymentActionRequest) *ServiceError {
	if req.GatewayOrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return &ServiceError{StatusCode: 400, Message: "gateway_order_id, payment_id and signature are required"}
	}

	if _, err := s.payments.FindByGatewayOrderID(ctx, req.GatewayOrderID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Payment not found"}
		}
		return &ServiceError{StatusCode: 500, Message: "Failed to fetch payment"}
	}

	if !s.gateway.VerifySignature(req.GatewayOrderID, req.PaymentID, req.Signature) {
		if err := s.payments.UpdateStatus(ctx, req.GatewayOrderID, req.PaymentID, models.PaymentStatusFailed); err != nil {
			s.logger.Error("Failed to mark payment failed",
				zap.String("gateway_order_id", req.GatewayOrderID),
				zap.Error(err),
			)
		}
		s.logger.Warn("Payment signature verification failed",
			zap.String("gateway_order_id", req.GatewayOrderID),
			zap.String("payment_id", req.PaymentID),
		)
		return &ServiceError{StatusCode: 400, Message: "Payment verification failed"}
	}

	if err := s.payments.UpdateStatus(ctx, req.GatewayOrderID, req.PaymentID, models.PaymentStatusCaptured); err != nil {
		s.logger.Error("Failed to mark payment captured",
			zap.String("gateway_order_id", req.GatewayOrderID),
			zap.Error(err),
		)
		return &ServiceError{StatusCode: 500, Message: "Failed to update payment"}
	}

	s.logger.Info("Payment verified",
		zap.String("gateway_order_id", req.GatewayOrderID),
		zap.String("payment_id", req.PaymentID),
	)
	return nil
}
