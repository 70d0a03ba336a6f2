package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/aishwaryacollections/storefront/repository"
	"github.com/aishwaryacollections/storefront/services"
)

const (
	MaxPageSize   = 100
	MaxPageNumber = 1000000
)

// RequestValidator handles all input validation for catalog endpoints
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		validate: validator.New(),
	}
}

// ParsePagination validates and parses pagination parameters
func (rv *RequestValidator) ParsePagination(c *gin.Context) (int, int, error) {
	pageStr := c.DefaultQuery("page", "1")
	limitStr := c.DefaultQuery("limit", "10")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return 0, 0, errors.New("invalid page number")
	}
	if page > MaxPageNumber {
		page = MaxPageNumber
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		return 0, 0, errors.New("invalid page size")
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return page, limit, nil
}

// ParseProductFilters validates and parses all product filter parameters
func (rv *RequestValidator) ParseProductFilters(c *gin.Context) (repository.ProductFilters, error) {
	var filters repository.ProductFilters

	if err := rv.parseCategory(c, &filters); err != nil {
		return filters, err
	}
	if err := rv.parsePriceRange(c, &filters); err != nil {
		return filters, err
	}
	if err := rv.parseInStock(c, &filters); err != nil {
		return filters, err
	}
	filters.Search = strings.TrimSpace(c.Query("search"))

	return filters, nil
}

func (rv *RequestValidator) parseCategory(c *gin.Context, filters *repository.ProductFilters) error {
	raw := strings.TrimSpace(c.Query("category_id"))
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return errors.New("invalid category ID format")
	}
	filters.CategoryID = &id
	return nil
}

func (rv *RequestValidator) parsePriceRange(c *gin.Context, filters *repository.ProductFilters) error {
	minStr := strings.TrimSpace(c.Query("min_price"))
	if minStr != "" {
		parsed, err := strconv.ParseInt(minStr, 10, 64)
		if err != nil || parsed < 0 {
			return errors.New("invalid min_price value")
		}
		filters.MinPrice = &parsed
	}

	maxStr := strings.TrimSpace(c.Query("max_price"))
	if maxStr != "" {
		parsed, err := strconv.ParseInt(maxStr, 10, 64)
		if err != nil || parsed < 0 {
			return errors.New("invalid max_price value")
		}
		filters.MaxPrice = &parsed
	}

	if filters.MinPrice != nil && filters.MaxPrice != nil && *filters.MinPrice > *filters.MaxPrice {
		return errors.New("min_price must be less than or equal to max_price")
	}

	return nil
}

func (rv *RequestValidator) parseInStock(c *gin.Context, filters *repository.ProductFilters) error {
	raw := strings.TrimSpace(c.Query("in_stock"))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return errors.New("invalid boolean value for 'in_stock'")
	}
	filters.InStock = &v
	return nil
}

// ParseCreateProductRequest validates and parses a product creation request
func (rv *RequestValidator) ParseCreateProductRequest(c *gin.Context) (*services.CreateProductRequest, error) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, errors.New("invalid request body")
	}
	if err := rv.validate.Struct(&req); err != nil {
		return nil, errors.New("validation failed: " + validationMessage(err))
	}
	return &req, nil
}

// ParseUpdateProductRequest validates and parses a product update request
func (rv *RequestValidator) ParseUpdateProductRequest(c *gin.Context) (*services.UpdateProductRequest, error) {
	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, errors.New("invalid request body")
	}
	if err := rv.validate.Struct(&req); err != nil {
		return nil, errors.New("validation failed: " + validationMessage(err))
	}
	return &req, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}
