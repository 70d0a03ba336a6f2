package services_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/aishwaryacollections/storefront/models"
	"github.com/aishwaryacollections/storefront/repository"
	"github.com/aishwaryacollections/storefront/services"
)

// --- Mock order repository ---

// mockOrderRepo keeps orders in memory and mimics the conditional stock
// decrement: each PlaceOrder either decrements every line or leaves stock
// untouched, under one mutex, like the real transaction.
type mockOrderRepo struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]*models.Order
	stock     map[uuid.UUID]int
	sizes     map[uuid.UUID]models.SizeMap
	addresses []*models.Address
	placed    int
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		orders: make(map[uuid.UUID]*models.Order),
		stock:  make(map[uuid.UUID]int),
		sizes:  make(map[uuid.UUID]models.SizeMap),
	}
}

func (m *mockOrderRepo) PlaceOrder(_ context.Context, order *models.Order, items []models.OrderItem, newAddress *models.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, item := range items {
		if m.stock[item.ProductID] < item.Quantity {
			return &repository.OutOfStockError{ProductID: item.ProductID}
		}
		if item.Size != "" {
			if remaining, ok := m.sizes[item.ProductID][item.Size]; ok && remaining < item.Quantity {
				return &repository.OutOfStockError{ProductID: item.ProductID}
			}
		}
	}
	for _, item := range items {
		m.stock[item.ProductID] -= item.Quantity
		if item.Size != "" {
			if _, ok := m.sizes[item.ProductID][item.Size]; ok {
				m.sizes[item.ProductID][item.Size] -= item.Quantity
			}
		}
	}

	if newAddress != nil {
		newAddress.ID = uuid.New()
		m.addresses = append(m.addresses, newAddress)
	}

	order.ID = uuid.New()
	order.OrderItems = items
	m.orders[order.ID] = order
	m.placed++
	return nil
}

func (m *mockOrderRepo) FindByUserID(_ context.Context, userID uuid.UUID, _, _ int) ([]models.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			result = append(result, *o)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockOrderRepo) FindAll(_ context.Context, status string, _, _ int) ([]models.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.Order
	for _, o := range m.orders {
		if status == "" || o.Status == status {
			result = append(result, *o)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, orderID uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (m *mockOrderRepo) FindByIDAndUserID(_ context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || o.UserID != userID {
		return nil, repository.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, orderID uuid.UUID, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || o.Status != from {
		return repository.ErrConflict
	}
	o.Status = to
	return nil
}

func (m *mockOrderRepo) Cancel(_ context.Context, orderID uuid.UUID, from string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || o.Status != from {
		return repository.ErrConflict
	}
	o.Status = models.StatusCancelled
	for _, item := range o.OrderItems {
		m.stock[item.ProductID] += item.Quantity
		if item.Size != "" {
			if _, ok := m.sizes[item.ProductID][item.Size]; ok {
				m.sizes[item.ProductID][item.Size] += item.Quantity
			}
		}
	}
	return nil
}

// --- Mock address repository ---

type mockAddressRepo struct {
	addresses map[uuid.UUID]*models.Address
}

func newMockAddressRepo() *mockAddressRepo {
	return &mockAddressRepo{addresses: make(map[uuid.UUID]*models.Address)}
}

func (m *mockAddressRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]models.Address, error) {
	var result []models.Address
	for _, a := range m.addresses {
		if a.UserID == userID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockAddressRepo) FindByIDAndUserID(_ context.Context, id, userID uuid.UUID) (*models.Address, error) {
	a, ok := m.addresses[id]
	if !ok || a.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

func (m *mockAddressRepo) Create(_ context.Context, address *models.Address) error {
	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}
	m.addresses[address.ID] = address
	return nil
}

func (m *mockAddressRepo) Delete(_ context.Context, id, userID uuid.UUID) error {
	a, ok := m.addresses[id]
	if !ok || a.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.addresses, id)
	return nil
}

// --- Mock cart repository ---

type mockCartRepo struct {
	mu          sync.Mutex
	carts       map[string]*models.Cart
	idempotency map[string]string
	getCalls    int
	deleteCalls int
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{
		carts:       make(map[string]*models.Cart),
		idempotency: make(map[string]string),
	}
}

func (m *mockCartRepo) GetCart(_ context.Context, userID string) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	return m.carts[userID], nil
}

func (m *mockCartRepo) SaveCart(_ context.Context, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[cart.UserID] = cart
	return nil
}

func (m *mockCartRepo) DeleteCart(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	delete(m.carts, userID)
	return nil
}

func (m *mockCartRepo) GetIdempotency(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.idempotency[key], nil
}

func (m *mockCartRepo) SetIdempotency(_ context.Context, key, orderID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idempotency[key] = orderID
	return nil
}

// --- Helpers ---

func newTestOrderService(orders *mockOrderRepo, addresses *mockAddressRepo, cart *mockCartRepo) *services.OrderService {
	logger, _ := zap.NewDevelopment()
	return services.NewOrderService(orders, addresses, cart, logger)
}

func inlineAddress() *services.AddressInput {
	return &services.AddressInput{
		FirstName: "Aishwarya",
		LastName:  "Rao",
		Address:   "12 MG Road",
		City:      "Bengaluru",
		Pincode:   "560001",
	}
}

func cartWith(userID string, items ...models.CartItem) *models.Cart {
	return &models.Cart{UserID: userID, Items: items}
}

// --- Tests ---

func TestPlaceOrder_EmptyCart(t *testing.T) {
	orders := newMockOrderRepo()
	cart := newMockCartRepo()
	svc := newTestOrderService(orders, newMockAddressRepo(), cart)

	userID := uuid.New().String()
	_, svcErr := svc.PlaceOrder(context.Background(), userID, &services.PlaceOrderRequest{
		Address:       inlineAddress(),
		PaymentMethod: "cod",
	}, "")

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Equal(t, 0, orders.placed, "empty cart must not create an order")
}

func TestPlaceOrder_OneOrderPerCheckout(t *testing.T) {
	orders := newMockOrderRepo()
	cart := newMockCartRepo()
	svc := newTestOrderService(orders, newMockAddressRepo(), cart)

	userID := uuid.New().String()
	saree := uuid.New()
	kurta := uuid.New()
	orders.stock[saree] = 5
	orders.stock[kurta] = 5

	_ = cart.SaveCart(context.Background(), cartWith(userID,
		models.CartItem{ProductID: saree.String(), Name: "Banarasi Saree", Category: "Sarees", Price: "1,200", Size: "Free"},
		models.CartItem{ProductID: kurta.String(), Name: "Cotton Kurta", Category: "Kurtas", Price: "850"},
		models.CartItem{ProductID: kurta.String(), Name: "Cotton Kurta", Category: "Kurtas", Price: "850"},
	))

	order, svcErr := svc.PlaceOrder(context.Background(), userID, &services.PlaceOrderRequest{
		Address:       inlineAddress(),
		PaymentMethod: "cod",
	}, "")

	assert.Nil(t, svcErr)
	assert.Equal(t, 1, orders.placed)
	assert.Len(t, order.OrderItems, 3)
	assert.Equal(t, models.StatusPending, order.Status)
	// 1200 + 850 + 850 rupees in paise
	assert.Equal(t, int64(290000), order.Amount)
	assert.Equal(t, 4, orders.stock[saree])
	assert.Equal(t, 3, orders.stock[kurta])

	// snapshots survive independently of the catalog
	first := order.OrderItems[0]
	assert.Equal(t, "Banarasi Saree", first.ProductName)
	assert.Equal(t, "Sarees", first.Category)
	assert.Equal(t, "Free", first.Size)
	assert.Equal(t, 1, first.Quantity)
	assert.Equal(t, int64(120000), first.Price)

	assert.Equal(t, 1, cart.deleteCalls, "cart cleared after checkout")
}

func TestPlaceOrder_DiscountPricePreferred(t *testing.T) {
	orders := newMockOrderRepo()
	cart := newMockCartRepo()
	svc := newTestOrderService(orders, newMockAddressRepo(), cart)

	userID := uuid.New().String()
	productID := uuid.New()
	orders.stock[productID] = 1

	_ = cart.SaveCart(context.Background(), cartWith(userID,
		models.CartItem{ProductID: productID.String(), Name: "Silk Dupatta", Price: "2,000", DiscountPrice: "1,500"},
	))

	order, svcErr := svc.PlaceOrder(context.Background(), userID, &services.PlaceOrderRequest{
		Address:       inlineAddress(),
		PaymentMethod: "online",
	}, "")

	assert.Nil(t, svcErr)
	assert.Equal(t, int64(150000), order.Amount)
}

func TestPlaceOrder_LastUnitSingleWinner(t *testing.T) {
	orders := newMockOrderRepo()
	cart := newMockCartRepo()
	svc := newTestOrderService(orders, newMockAddressRepo(), cart)

	productID := uuid.New()
	orders.stock[productID] = 1

	users := make([]string, 10)
	for i := range users {
		users[i] = uuid.New().String()
		_ = cart.SaveCart(context.Background(), cartWith(users[i],
			models.CartItem{ProductID: productID.String(), Name: "Lehenga", Price: "5000"},
		))
	}

	var wg sync.WaitGroup
	results := make([]*services.ServiceError, len(users))
	for i, userID := range users {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			_, results[i] = svc.PlaceOrder(context.Background(), userID, &services.PlaceOrderRequest{
				Address:       inlineAddress(),
				PaymentMethod: "cod",
			}, "")
		}(i, userID)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, svcErr := range results {
		if svcErr == nil {
			successes++
		} else if svcErr.StatusCode == 409 {
			conflicts++
		}
	}
	assert.Equal(t, 1, successes, "exactly one checkout wins the last unit")
	assert.Equal(t, len(users)-1, conflicts)
	assert.Equal(t, 0, orders.stock[productID])
	assert.Equal(t, 1, orders.placed)
}

func TestPlaceOrder_OutOfStockRollsBack(t *testing.T) {
	orders := newMockOrderRepo()
	cart := newMockCartRepo()
	svc := newTestOrderService(orders, newMockAddressRepo(), cart)

	userID := uuid.New().String()
	inStock := uuid.New()
	soldOut := uuid.New()
	orders.stock[inStock] = 10
	orders.stock[soldOut] = 0

	_ = cart.SaveCart(context.Background(), cartWith(userID,
		models.CartItem{ProductID: inStock.String(), Name: "Kurta", Price: "850"},
		models.CartItem{ProductID: soldOut.String(), Name: "Rare Saree", Price: "9000"},
	))

	_, svcErr := svc.PlaceOrder(context.Background(), userID, &services.PlaceOrderRequest{
		Address:       inlineAddress(),
		PaymentMethod: "cod",
	}, "")

	assert.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
	assert.Contains(t, svcErr.Message, "Rare Saree")
	assert.Equal(t, 10, orders.stock[inStock], "no partial decrement on failure")
	assert.Equal(t, 0, orders.placed)
	assert.NotNil(t, cart.carts[userID], "cart kept so the customer can retry")
}

func TestPlaceOrder_IdempotentReplay(t *testing.T) {
	orders := newMockOrderRepo()
	cart := newMockCartRepo()
	svc := newTestOrderService(orders, newMockAddressRepo(), cart)

	userID := uuid.New().String()
	productID := uuid.New()
	orders.stock[productID] = 5

	_ = cart.SaveCart(context.Background(), cartWith(userID,
		models.CartItem{ProductID: productID.String(), Name: "Saree", Price: "1,200"},
	))

	req := &services.PlaceOrderRequest{Address: inlineAddress(), PaymentMethod: "cod"}
	first, svcErr := svc.PlaceOrder(context.Background(), userID, req, "key-123")
	assert.Nil(t, svcErr)
	assert.Equal(t, 4, orders.stock[productID])

	// same key again: the original order comes back, nothing new happens
	second, svcErr := svc.PlaceOrder(context.Background(), userID, req, "key-123")
	assert.Nil(t, svcErr)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, orders.placed, "replay must not create a second order")
	assert.Equal(t, 4, orders.stock[productID], "replay must not decrement stock again")
}

func TestPlaceOrder_DistinctOrderNumbers(t *testing.T) {
	orders := newMockOrderRepo()
	cart := newMockCartRepo()
	svc := newTestOrderService(orders, newMockAddressRepo(), cart)

	productID := uuid.New()
	orders.stock[productID] = 20

	// several checkouts land within the same second; numbers must not collide
	numbers := make(map[string]bool)
	for i := 0; i < 20; i++ {
		userID := uuid.New().String()
		_ = cart.SaveCart(context.Background(), cartWith(userID,
			models.CartItem{ProductID: productID.String(), Name: "Saree", Price: "1,200"},
		))
		order, svcErr := svc.PlaceOrder(context.Background(), userID, &services.PlaceOrderRequest{
			Address:       inlineAddress(),
			PaymentMethod: "cod",
		}, "")
		assert.Nil(t, svcErr)
		assert.True(t, strings.HasPrefix(order.OrderNumber, "AC-"))
		numbers[order.OrderNumber] = true
	}
	assert.Len(t, numbers, 20)
}

func TestPlaceOrder_SavedAddress(t *testing.T) {
	orders := newMockOrderRepo()
	addresses := newMockAddressRepo()
	cart := newMockCartRepo()
	svc := newTestOrderService(orders, addresses, cart)

	userUUID := uuid.New()
	userID := userUUID.String()
	productID := uuid.New()
	orders.stock[productID] = 1

	saved := &models.Address{
		UserID:    userUUID,
		FirstName: "Priya",
		LastName:  "Sharma",
		Address:   "4 Park Street",
		City:      "Kolkata",
		Pincode:   "700016",
	}
	_ = addresses.Create(context.Background(), saved)

	_ = cart.SaveCart(context.Background(), cartWith(userID,
		models.CartItem{ProductID: productID.String(), Name: "Saree", Price: "1,200"},
	))

	order, svcErr := svc.PlaceOrder(context.Background(), userID, &services.PlaceOrderRequest{
		AddressID:     saved.ID.String(),
		PaymentMethod: "cod",
	}, "")

	assert.Nil(t, svcErr)
	assert.Equal(t, "Priya Sharma", order.ShipName)
	assert.Equal(t, "Kolkata", order.ShipCity)
}

func TestPlaceOrder_SaveAddressPersists(t *testing.T) {
	orders := newMockOrderRepo()
	cart := newMockCartRepo()
	svc := newTestOrderService(orders, newMockAddressRepo(), cart)

	userID := uuid.New().String()
	productID := uuid.New()
	orders.stock[productID] = 1

	_ = cart.SaveCart(context.Background(), cartWith(userID,
		models.CartItem{ProductID: productID.String(), Name: "Saree", Price: "1,200"},
	))

	_, svcErr := svc.PlaceOrder(context.Background(), userID, &services.PlaceOrderRequest{
		Address:       inlineAddress(),
		SaveAddress:   true,
		PaymentMethod: "cod",
	}, "")

	assert.Nil(t, svcErr)
	assert.Len(t, orders.addresses, 1, "new address saved inside the order transaction")
	assert.Equal(t, "Bengaluru", orders.addresses[0].City)
}

func TestPlaceOrder_MissingAddress(t *testing.T) {
	orders := newMockOrderRepo()
	cart := newMockCartRepo()
	svc := newTestOrderService(orders, newMockAddressRepo(), cart)

	userID := uuid.New().String()
	productID := uuid.New()
	orders.stock[productID] = 1
	_ = cart.SaveCart(context.Background(), cartWith(userID,
		models.CartItem{ProductID: productID.String(), Name: "Saree", Price: "1,200"},
	))

	_, svcErr := svc.PlaceOrder(context.Background(), userID, &services.PlaceOrderRequest{
		PaymentMethod: "cod",
	}, "")

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
	assert.Equal(t, 0, orders.placed)
}

func TestUpdateStatus_ForwardHop(t *testing.T) {
	orders := newMockOrderRepo()
	svc := newTestOrderService(orders, newMockAddressRepo(), newMockCartRepo())

	order := &models.Order{UserID: uuid.New(), Status: models.StatusPending}
	_ = orders.PlaceOrder(context.Background(), order, []models.OrderItem{}, nil)

	updated, svcErr := svc.UpdateStatus(context.Background(), order.ID, models.StatusPreparing)
	assert.Nil(t, svcErr)
	assert.Equal(t, models.StatusPreparing, updated.Status)
}

func TestUpdateStatus_SkipHopRejected(t *testing.T) {
	orders := newMockOrderRepo()
	svc := newTestOrderService(orders, newMockAddressRepo(), newMockCartRepo())

	order := &models.Order{UserID: uuid.New(), Status: models.StatusPending}
	_ = orders.PlaceOrder(context.Background(), order, []models.OrderItem{}, nil)

	_, svcErr := svc.UpdateStatus(context.Background(), order.ID, models.StatusShipped)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 422, svcErr.StatusCode)
}

func TestUpdateStatus_TerminalRejected(t *testing.T) {
	orders := newMockOrderRepo()
	svc := newTestOrderService(orders, newMockAddressRepo(), newMockCartRepo())

	order := &models.Order{UserID: uuid.New(), Status: models.StatusDelivered}
	_ = orders.PlaceOrder(context.Background(), order, []models.OrderItem{}, nil)

	_, svcErr := svc.UpdateStatus(context.Background(), order.ID, models.StatusCancelled)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 422, svcErr.StatusCode)
}

func TestUpdateStatus_CancelRestocks(t *testing.T) {
	orders := newMockOrderRepo()
	svc := newTestOrderService(orders, newMockAddressRepo(), newMockCartRepo())

	productID := uuid.New()
	orders.stock[productID] = 1

	order := &models.Order{UserID: uuid.New(), Status: models.StatusPending}
	_ = orders.PlaceOrder(context.Background(), order, []models.OrderItem{
		{ProductID: productID, ProductName: "Saree", Quantity: 1, Price: 120000},
	}, nil)
	assert.Equal(t, 0, orders.stock[productID])

	updated, svcErr := svc.UpdateStatus(context.Background(), order.ID, models.StatusCancelled)
	assert.Nil(t, svcErr)
	assert.Equal(t, models.StatusCancelled, updated.Status)
	assert.Equal(t, 1, orders.stock[productID], "cancelled units return to stock")
}

func TestUpdateStatus_CancelRestoresSizes(t *testing.T) {
	orders := newMockOrderRepo()
	svc := newTestOrderService(orders, newMockAddressRepo(), newMockCartRepo())

	productID := uuid.New()
	orders.stock[productID] = 3
	orders.sizes[productID] = models.SizeMap{"M": 1, "L": 2}

	order := &models.Order{UserID: uuid.New(), Status: models.StatusPending}
	_ = orders.PlaceOrder(context.Background(), order, []models.OrderItem{
		{ProductID: productID, ProductName: "Anarkali", Size: "M", Quantity: 1, Price: 340000},
	}, nil)
	assert.Equal(t, 2, orders.stock[productID])
	assert.Equal(t, 0, orders.sizes[productID]["M"])

	_, svcErr := svc.UpdateStatus(context.Background(), order.ID, models.StatusCancelled)
	assert.Nil(t, svcErr)
	assert.Equal(t, 3, orders.stock[productID])
	assert.Equal(t, 1, orders.sizes[productID]["M"], "the cancelled size is sellable again")
	assert.Equal(t, 2, orders.sizes[productID]["L"], "other sizes untouched")

	// the size can now be bought again
	next := &models.Order{UserID: uuid.New(), Status: models.StatusPending}
	err := orders.PlaceOrder(context.Background(), next, []models.OrderItem{
		{ProductID: productID, ProductName: "Anarkali", Size: "M", Quantity: 1, Price: 340000},
	}, nil)
	assert.NoError(t, err)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	orders := newMockOrderRepo()
	svc := newTestOrderService(orders, newMockAddressRepo(), newMockCartRepo())

	_, svcErr := svc.UpdateStatus(context.Background(), uuid.New(), models.StatusPreparing)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestGetOrderByID_WrongUser(t *testing.T) {
	orders := newMockOrderRepo()
	svc := newTestOrderService(orders, newMockAddressRepo(), newMockCartRepo())

	order := &models.Order{UserID: uuid.New(), Status: models.StatusPending}
	_ = orders.PlaceOrder(context.Background(), order, []models.OrderItem{}, nil)

	_, svcErr := svc.GetOrderByID(context.Background(), uuid.New().String(), order.ID)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode, "other users' orders look like they don't exist")
}
