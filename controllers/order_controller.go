package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aishwaryacollections/storefront/middleware"
	"github.com/aishwaryacollections/storefront/services"
)

type OrderController struct {
	orderService *services.OrderService
	validator    *RequestValidator
}

func NewOrderController(orderService *services.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
		validator:    NewRequestValidator(),
	}
}

// PlaceOrder converts the user's cart into an order
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req services.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	idempotencyKey := c.GetHeader("Idempotency-Key")

	order, svcErr := oc.orderService.PlaceOrder(c.Request.Context(), userID, &req, idempotencyKey)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// GetOrders returns paginated orders for the authenticated user
func (oc *OrderController) GetOrders(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	page, limit, err := oc.validator.ParsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, svcErr := oc.orderService.GetUserOrders(c.Request.Context(), userID, page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetOrderByID returns a specific order for the authenticated user
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return
	}

	order, svcErr := oc.orderService.GetOrderByID(c.Request.Context(), userID, orderID)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// GetAllOrders returns paginated orders for all users (admin only)
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	page, limit, err := oc.validator.ParsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status := c.Query("status")

	result, svcErr := oc.orderService.GetAllOrders(c.Request.Context(), status, page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateStatus applies an admin status transition
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return
	}

	var req services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	order, svcErr := oc.orderService.UpdateStatus(c.Request.Context(), orderID, req.Status)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}
