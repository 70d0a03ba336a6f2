package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aishwaryacollections/storefront/services"
)

// CustomerController serves the admin customer-management endpoints
type CustomerController struct {
	customerService *services.CustomerService
}

func NewCustomerController(customerService *services.CustomerService) *CustomerController {
	return &CustomerController{customerService: customerService}
}

// ListCustomers returns every customer with order count and lifetime spend
func (cc *CustomerController) ListCustomers(c *gin.Context) {
	customers, svcErr := cc.customerService.List(c.Request.Context())
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

// CreateCustomer creates a pre-verified customer account
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var req services.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email, password and name are required"})
		return
	}

	user, svcErr := cc.customerService.Create(c.Request.Context(), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"customer": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

// DeleteCustomer removes a customer account and its profile
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID format"})
		return
	}

	if svcErr := cc.customerService.Delete(c.Request.Context(), userID); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}
