package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/aishwaryacollections/storefront/models"
	"github.com/aishwaryacollections/storefront/repository"
	"github.com/aishwaryacollections/storefront/services"
)

// --- Mock product repository ---

type mockProductRepo struct {
	products   map[uuid.UUID]*models.Product
	categories []models.Category
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[uuid.UUID]*models.Product)}
}

func (m *mockProductRepo) FindAll(_ context.Context, filters repository.ProductFilters, page, limit int) ([]models.Product, int64, error) {
	var matched []models.Product
	for _, p := range m.products {
		if filters.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filters.CategoryID) {
			continue
		}
		if filters.InStock != nil && *filters.InStock && p.Stock == 0 {
			continue
		}
		matched = append(matched, *p)
	}

	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *mockProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (m *mockProductRepo) Create(_ context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepo) Update(_ context.Context, product *models.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) FindCategories(_ context.Context) ([]models.Category, error) {
	return m.categories, nil
}

func (m *mockProductRepo) CreateCategory(_ context.Context, category *models.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	m.categories = append(m.categories, *category)
	return nil
}

func newTestProductService(repo *mockProductRepo) *services.ProductService {
	logger, _ := zap.NewDevelopment()
	return services.NewProductService(repo, logger)
}

// --- Tests ---

func TestProductCreate(t *testing.T) {
	repo := newMockProductRepo()
	svc := newTestProductService(repo)

	discount := int64(95000)
	product, svcErr := svc.Create(context.Background(), &services.CreateProductRequest{
		Name:          "Banarasi Saree",
		Price:         120000,
		DiscountPrice: &discount,
		Stock:         8,
		Sizes:         models.SizeMap{"Free": 8},
	})

	assert.Nil(t, svcErr)
	assert.NotEqual(t, uuid.Nil, product.ID)
	assert.Equal(t, int64(120000), product.Price)
	assert.Equal(t, 8, product.Sizes["Free"])
}

func TestProductCreate_BadCategoryID(t *testing.T) {
	svc := newTestProductService(newMockProductRepo())

	_, svcErr := svc.Create(context.Background(), &services.CreateProductRequest{
		Name:       "Saree",
		CategoryID: "not-a-uuid",
		Price:      100,
	})
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestProductUpdate_PartialFields(t *testing.T) {
	repo := newMockProductRepo()
	svc := newTestProductService(repo)

	product, _ := svc.Create(context.Background(), &services.CreateProductRequest{
		Name:  "Saree",
		Price: 120000,
		Stock: 5,
	})

	newStock := 2
	updated, svcErr := svc.Update(context.Background(), product.ID, &services.UpdateProductRequest{
		Stock: &newStock,
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, 2, updated.Stock)
	assert.Equal(t, "Saree", updated.Name, "untouched fields survive")
	assert.Equal(t, int64(120000), updated.Price)
}

func TestProductGet_NotFound(t *testing.T) {
	svc := newTestProductService(newMockProductRepo())

	_, svcErr := svc.Get(context.Background(), uuid.New())
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestProductDelete(t *testing.T) {
	repo := newMockProductRepo()
	svc := newTestProductService(repo)

	product, _ := svc.Create(context.Background(), &services.CreateProductRequest{Name: "Saree", Price: 100})

	assert.Nil(t, svc.Delete(context.Background(), product.ID))
	_, svcErr := svc.Get(context.Background(), product.ID)
	assert.NotNil(t, svcErr)
}

func TestProductList_Pagination(t *testing.T) {
	repo := newMockProductRepo()
	svc := newTestProductService(repo)

	for i := 0; i < 25; i++ {
		_, _ = svc.Create(context.Background(), &services.CreateProductRequest{Name: "P", Price: 100, Stock: 1})
	}

	resp, svcErr := svc.List(context.Background(), repository.ProductFilters{}, 2, 10)
	assert.Nil(t, svcErr)
	assert.Len(t, resp.Products, 10)
	assert.Equal(t, int64(25), resp.Meta.Total)
	assert.Equal(t, int64(3), resp.Meta.TotalPages)
	assert.True(t, resp.Meta.HasMore)
}

func TestProductList_InStockFilter(t *testing.T) {
	repo := newMockProductRepo()
	svc := newTestProductService(repo)

	_, _ = svc.Create(context.Background(), &services.CreateProductRequest{Name: "Available", Price: 100, Stock: 3})
	_, _ = svc.Create(context.Background(), &services.CreateProductRequest{Name: "Sold out", Price: 100, Stock: 0})

	inStock := true
	resp, svcErr := svc.List(context.Background(), repository.ProductFilters{InStock: &inStock}, 1, 10)
	assert.Nil(t, svcErr)
	assert.Len(t, resp.Products, 1)
	assert.Equal(t, "Available", resp.Products[0].Name)
}

func TestCategories(t *testing.T) {
	repo := newMockProductRepo()
	svc := newTestProductService(repo)

	category, svcErr := svc.CreateCategory(context.Background(), "Sarees")
	assert.Nil(t, svcErr)
	assert.Equal(t, "Sarees", category.Name)

	categories, svcErr := svc.Categories(context.Background())
	assert.Nil(t, svcErr)
	assert.Len(t, categories, 1)
}
