package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aishwaryacollections/storefront/middleware"
	"github.com/aishwaryacollections/storefront/models"
	"github.com/aishwaryacollections/storefront/repository"
	"github.com/aishwaryacollections/storefront/services"
)

type CartController struct {
	repo     repository.CartRepository
	products repository.ProductRepository
	logger   *zap.Logger
}

func NewCartController(repo repository.CartRepository, products repository.ProductRepository, logger *zap.Logger) *CartController {
	return &CartController{repo: repo, products: products, logger: logger}
}

// GetCart returns the current cart for the authenticated user
func (cc *CartController) GetCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cart, err := cc.repo.GetCart(c.Request.Context(), userID)
	if err != nil {
		cc.logger.Error("Failed to get cart", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get cart"})
		return
	}

	if cart == nil {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	}

	c.JSON(http.StatusOK, cart)
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size"`
}

// AddItem appends one unit to the cart. The client names a product and a
// size; name, category and prices are snapshotted from the catalog so the
// request body cannot set the purchase price. There is no merging: adding the
// same product twice produces two lines.
func (cc *CartController) AddItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	ctx := c.Request.Context()
	product, err := cc.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		cc.logger.Error("Failed to load product", zap.String("product_id", req.ProductID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load product"})
		return
	}
	if req.Size != "" && product.Sizes != nil {
		if _, ok := product.Sizes[req.Size]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Size not available for this product"})
			return
		}
	}

	item := models.CartItem{
		ProductID: product.ID.String(),
		Name:      product.Name,
		Price:     services.FormatAmount(product.Price),
		ImageURL:  product.ImageURL,
		Size:      req.Size,
	}
	if product.Category != nil {
		item.Category = product.Category.Name
	}
	if product.DiscountPrice != nil {
		item.DiscountPrice = services.FormatAmount(*product.DiscountPrice)
	}
	cart, err := cc.repo.GetCart(ctx, userID)
	if err != nil {
		cc.logger.Error("Failed to load cart", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	if cart == nil {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	}

	cart.Items = append(cart.Items, item)

	if err := cc.repo.SaveCart(ctx, cart); err != nil {
		cc.logger.Error("Failed to save cart", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// RemoveItem removes a cart line by position
func (cc *CartController) RemoveItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid index"})
		return
	}

	ctx := c.Request.Context()
	cart, err := cc.repo.GetCart(ctx, userID)
	if err != nil || cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
		return
	}
	if index >= len(cart.Items) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart line not found"})
		return
	}

	cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)

	if err := cc.repo.SaveCart(ctx, cart); err != nil {
		cc.logger.Error("Failed to update cart", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// ClearCart removes all items from the cart
func (cc *CartController) ClearCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := cc.repo.DeleteCart(c.Request.Context(), userID); err != nil {
		cc.logger.Error("Failed to clear cart", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
