package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aishwaryacollections/storefront/models"
	"github.com/aishwaryacollections/storefront/repository"
)

type CreateProductRequest struct {
	Name          string         `json:"name" validate:"required"`
	CategoryID    string         `json:"category_id"`
	Price         int64          `json:"price" validate:"required,gt=0"`
	DiscountPrice *int64         `json:"discount_price" validate:"omitempty,gt=0"`
	Stock         int            `json:"stock" validate:"gte=0"`
	Sizes         models.SizeMap `json:"sizes"`
	ImageURL      string         `json:"image_url"`
	Description   string         `json:"description"`
}

type UpdateProductRequest struct {
	Name          *string        `json:"name"`
	CategoryID    *string        `json:"category_id"`
	Price         *int64         `json:"price" validate:"omitempty,gt=0"`
	DiscountPrice *int64         `json:"discount_price"`
	Stock         *int           `json:"stock" validate:"omitempty,gte=0"`
	Sizes         models.SizeMap `json:"sizes"`
	ImageURL      *string        `json:"image_url"`
	Description   *string        `json:"description"`
}

type ProductListResponse struct {
	Products []models.Product `json:"products"`
	Meta     ProductMeta      `json:"meta"`
}

type ProductMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

type ProductService struct {
	products repository.ProductRepository
	logger   *zap.Logger
}

func NewProductService(products repository.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{products: products, logger: logger}
}

func (s *ProductService) List(ctx context.Context, filters repository.ProductFilters, page, limit int) (*ProductListResponse, *ServiceError) {
	products, total, err := s.products.FindAll(ctx, filters, page, limit)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch products"}
	}

	return &ProductListResponse{
		Products: products,
		Meta: ProductMeta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: calculateTotalPages(total, limit),
			HasMore:    total > int64(page*limit),
		},
	}, nil
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		s.logger.Error("Failed to fetch product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch product"}
	}
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, req *CreateProductRequest) (*models.Product, *ServiceError) {
	product := &models.Product{
		Name:          req.Name,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Stock:         req.Stock,
		Sizes:         req.Sizes,
		ImageURL:      req.ImageURL,
		Description:   req.Description,
	}

	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, &ServiceError{StatusCode: 400, Message: "Invalid category ID format"}
		}
		product.CategoryID = &categoryID
	}

	if err := s.products.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", zap.String("name", req.Name), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create product"}
	}

	s.logger.Info("Product created", zap.String("product_id", product.ID.String()), zap.String("name", product.Name))
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*models.Product, *ServiceError) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch product"}
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, &ServiceError{StatusCode: 400, Message: "Invalid category ID format"}
		}
		product.CategoryID = &categoryID
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.DiscountPrice != nil {
		product.DiscountPrice = req.DiscountPrice
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Sizes != nil {
		product.Sizes = req.Sizes
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.Description != nil {
		product.Description = *req.Description
	}

	if err := s.products.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update product"}
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) *ServiceError {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		s.logger.Error("Failed to delete product", zap.String("product_id", id.String()), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete product"}
	}
	return nil
}

func (s *ProductService) Categories(ctx context.Context) ([]models.Category, *ServiceError) {
	categories, err := s.products.FindCategories(ctx)
	if err != nil {
		s.logger.Error("Failed to list categories", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch categories"}
	}
	return categories, nil
}

func (s *ProductService) CreateCategory(ctx context.Context, name string) (*models.Category, *ServiceError) {
	category := &models.Category{Name: name}
	if err := s.products.CreateCategory(ctx, category); err != nil {
		s.logger.Error("Failed to create category", zap.String("name", name), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create category"}
	}
	return category, nil
}
