package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aishwaryacollections/storefront/services"
)

type ProductController struct {
	productService *services.ProductService
	validator      *RequestValidator
}

func NewProductController(productService *services.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
		validator:      NewRequestValidator(),
	}
}

// ListProducts returns the paginated, filtered catalog
func (pc *ProductController) ListProducts(c *gin.Context) {
	page, limit, err := pc.validator.ParsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filters, err := pc.validator.ParseProductFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, svcErr := pc.productService.List(c.Request.Context(), filters, page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetProduct returns a single product by ID
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	product, svcErr := pc.productService.Get(c.Request.Context(), id)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// ListCategories returns all categories
func (pc *ProductController) ListCategories(c *gin.Context) {
	categories, svcErr := pc.productService.Categories(c.Request.Context())
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

type createCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateCategory adds a new category (admin)
func (pc *ProductController) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return
	}

	category, svcErr := pc.productService.CreateCategory(c.Request.Context(), req.Name)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// CreateProduct adds a new product to the catalog (admin)
func (pc *ProductController) CreateProduct(c *gin.Context) {
	req, err := pc.validator.ParseCreateProductRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, svcErr := pc.productService.Create(c.Request.Context(), req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct modifies an existing product (admin)
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	req, err := pc.validator.ParseUpdateProductRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, svcErr := pc.productService.Update(c.Request.Context(), id, req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct removes a product from the catalog (admin)
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	if svcErr := pc.productService.Delete(c.Request.Context(), id); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
