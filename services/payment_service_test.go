package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/aishwaryacollections/storefront/models"
	"github.com/aishwaryacollections/storefront/providers"
	"github.com/aishwaryacollections/storefront/repository"
	"github.com/aishwaryacollections/storefront/services"
)

// --- Mock payment repository ---

type mockPaymentRepo struct {
	payments map[string]*models.Payment
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{payments: make(map[string]*models.Payment)}
}

func (m *mockPaymentRepo) Create(_ context.Context, p *models.Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.payments[p.GatewayOrderID] = p
	return nil
}

func (m *mockPaymentRepo) FindByGatewayOrderID(_ context.Context, gatewayOrderID string) (*models.Payment, error) {
	p, ok := m.payments[gatewayOrderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (m *mockPaymentRepo) UpdateStatus(_ context.Context, gatewayOrderID, gatewayPaymentID, status string) error {
	p, ok := m.payments[gatewayOrderID]
	if !ok {
		return repository.ErrNotFound
	}
	p.GatewayPaymentID = gatewayPaymentID
	p.Status = status
	return nil
}

// --- Mock gateway ---

type mockGateway struct {
	createErr error
	validSig  string
	created   int
}

func (m *mockGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*providers.GatewayOrder, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created++
	if currency == "" {
		currency = "INR"
	}
	return &providers.GatewayOrder{
		ID:       "order_gw_1",
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}, nil
}

func (m *mockGateway) VerifySignature(_, _, signature string) bool {
	return signature == m.validSig
}

func newTestPaymentService(repo *mockPaymentRepo, gateway *mockGateway) *services.PaymentService {
	logger, _ := zap.NewDevelopment()
	return services.NewPaymentService(repo, gateway, logger)
}

// --- Tests ---

func TestCreateGatewayOrder_Success(t *testing.T) {
	repo := newMockPaymentRepo()
	svc := newTestPaymentService(repo, &mockGateway{})

	order, svcErr := svc.CreateGatewayOrder(context.Background(), &services.PaymentActionRequest{
		Action:  "create-order",
		OrderID: uuid.New().String(),
		Amount:  205000,
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, "order_gw_1", order.ID)

	recorded, err := repo.FindByGatewayOrderID(context.Background(), "order_gw_1")
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCreated, recorded.Status)
	assert.Equal(t, int64(205000), recorded.Amount)
}

func TestCreateGatewayOrder_GatewayDown(t *testing.T) {
	repo := newMockPaymentRepo()
	svc := newTestPaymentService(repo, &mockGateway{createErr: errors.New("connection refused")})

	_, svcErr := svc.CreateGatewayOrder(context.Background(), &services.PaymentActionRequest{
		Action:  "create-order",
		OrderID: uuid.New().String(),
		Amount:  100,
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 502, svcErr.StatusCode)
	assert.Empty(t, repo.payments, "no payment recorded when the gateway fails")
}

func TestCreateGatewayOrder_InvalidAmount(t *testing.T) {
	gateway := &mockGateway{}
	svc := newTestPaymentService(newMockPaymentRepo(), gateway)

	_, svcErr := svc.CreateGatewayOrder(context.Background(), &services.PaymentActionRequest{
		Action:  "create-order",
		OrderID: uuid.New().String(),
		Amount:  0,
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Equal(t, 0, gateway.created)
}

func TestVerifyPayment_Captured(t *testing.T) {
	repo := newMockPaymentRepo()
	svc := newTestPaymentService(repo, &mockGateway{validSig: "good-sig"})

	_ = repo.Create(context.Background(), &models.Payment{
		OrderID:        uuid.New(),
		GatewayOrderID: "order_gw_1",
		Status:         models.PaymentStatusCreated,
	})

	svcErr := svc.VerifyPayment(context.Background(), &services.PaymentActionRequest{
		Action:         "verify-payment",
		GatewayOrderID: "order_gw_1",
		PaymentID:      "pay_1",
		Signature:      "good-sig",
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, models.PaymentStatusCaptured, repo.payments["order_gw_1"].Status)
	assert.Equal(t, "pay_1", repo.payments["order_gw_1"].GatewayPaymentID)
}

func TestVerifyPayment_BadSignature(t *testing.T) {
	repo := newMockPaymentRepo()
	svc := newTestPaymentService(repo, &mockGateway{validSig: "good-sig"})

	_ = repo.Create(context.Background(), &models.Payment{
		OrderID:        uuid.New(),
		GatewayOrderID: "order_gw_1",
		Status:         models.PaymentStatusCreated,
	})

	svcErr := svc.VerifyPayment(context.Background(), &services.PaymentActionRequest{
		Action:         "verify-payment",
		GatewayOrderID: "order_gw_1",
		PaymentID:      "pay_1",
		Signature:      "forged",
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Equal(t, models.PaymentStatusFailed, repo.payments["order_gw_1"].Status)
}

func TestVerifyPayment_UnknownOrder(t *testing.T) {
	svc := newTestPaymentService(newMockPaymentRepo(), &mockGateway{validSig: "good-sig"})

	svcErr := svc.VerifyPayment(context.Background(), &services.PaymentActionRequest{
		Action:         "verify-payment",
		GatewayOrderID: "order_missing",
		PaymentID:      "pay_1",
		Signature:      "good-sig",
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestVerifyPayment_MissingFields(t *testing.T) {
	svc := newTestPaymentService(newMockPaymentRepo(), &mockGateway{})

	svcErr := svc.VerifyPayment(context.Background(), &services.PaymentActionRequest{
		Action:         "verify-payment",
		GatewayOrderID: "order_gw_1",
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}
