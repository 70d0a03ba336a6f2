package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aishwaryacollections/storefront/models"
	"github.com/aishwaryacollections/storefront/repository"
)

// WishlistController serves the per-user wishlist endpoints
type WishlistController struct {
	wishlist repository.WishlistRepository
	logger   *zap.Logger
}

func NewWishlistController(wishlist repository.WishlistRepository, logger *zap.Logger) *WishlistController {
	return &WishlistController{wishlist: wishlist, logger: logger}
}

// GetWishlist returns the caller's wishlist with product details
func (wc *WishlistController) GetWishlist(c *gin.Context) {
	userID, err := currentUserUUID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	items, err := wc.wishlist.FindByUserID(c.Request.Context(), userID)
	if err != nil {
		wc.logger.Error("Failed to fetch wishlist", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

type wishlistRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// AddToWishlist adds a product to the caller's wishlist. Re-adding an
// already wished product is a no-op success.
func (wc *WishlistController) AddToWishlist(c *gin.Context) {
	userID, err := currentUserUUID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req wishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	if err := wc.wishlist.Add(c.Request.Context(), userID, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		wc.logger.Error("Failed to add wishlist item",
			zap.String("user_id", userID.String()),
			zap.String("product_id", productID.String()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Added to wishlist"})
}

// RemoveFromWishlist removes a product from the caller's wishlist
func (wc *WishlistController) RemoveFromWishlist(c *gin.Context) {
	userID, err := currentUserUUID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	if err := wc.wishlist.Remove(c.Request.Context(), userID, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wishlist item not found"})
			return
		}
		wc.logger.Error("Failed to remove wishlist item",
			zap.String("user_id", userID.String()),
			zap.String("product_id", productID.String()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist"})
}

// ReviewController serves product review endpoints
type ReviewController struct {
	reviews repository.ReviewRepository
	logger  *zap.Logger
}

func NewReviewController(reviews repository.ReviewRepository, logger *zap.Logger) *ReviewController {
	return &ReviewController{reviews: reviews, logger: logger}
}

// GetProductReviews returns all reviews for a product with the average rating
func (rc *ReviewController) GetProductReviews(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	reviews, average, err := rc.reviews.FindByProductID(c.Request.Context(), productID)
	if err != nil {
		rc.logger.Error("Failed to fetch reviews", zap.String("product_id", productID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":        reviews,
		"average_rating": average,
	})
}

type createReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// CreateReview posts a review on a product
func (rc *ReviewController) CreateReview(c *gin.Context) {
	userID, err := currentUserUUID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
		return
	}

	review := &models.ProductReview{
		ProductID: productID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := rc.reviews.Create(c.Request.Context(), review); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		rc.logger.Error("Failed to create review", zap.String("product_id", productID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// NewsletterController serves the newsletter signup endpoint
type NewsletterController struct {
	subscribers repository.NewsletterRepository
	logger      *zap.Logger
}

func NewNewsletterController(subscribers repository.NewsletterRepository, logger *zap.Logger) *NewsletterController {
	return &NewsletterController{subscribers: subscribers, logger: logger}
}

type subscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Subscribe records a newsletter signup. Duplicate signups succeed quietly.
func (nc *NewsletterController) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := nc.subscribers.Subscribe(c.Request.Context(), email); err != nil {
		nc.logger.Error("Failed to record newsletter signup", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscribed"})
}
