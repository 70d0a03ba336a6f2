package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aishwaryacollections/storefront/middleware"
	"github.com/aishwaryacollections/storefront/models"
	"github.com/aishwaryacollections/storefront/repository"
)

type AddressController struct {
	addresses repository.AddressRepository
	logger    *zap.Logger
}

func NewAddressController(addresses repository.AddressRepository, logger *zap.Logger) *AddressController {
	return &AddressController{addresses: addresses, logger: logger}
}

// ListAddresses returns the caller's addresses, default first; the first
// entry is the one the storefront pre-selects at checkout.
func (ac *AddressController) ListAddresses(c *gin.Context) {
	userID, err := currentUserUUID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	addresses, err := ac.addresses.FindByUserID(c.Request.Context(), userID)
	if err != nil {
		ac.logger.Error("Failed to list addresses", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch addresses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

type createAddressRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address" binding:"required"`
	City      string `json:"city" binding:"required"`
	Pincode   string `json:"pincode" binding:"required"`
	IsDefault bool   `json:"is_default"`
}

// CreateAddress saves a new address for the caller
func (ac *AddressController) CreateAddress(c *gin.Context) {
	userID, err := currentUserUUID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req createAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Address, city and pincode are required"})
		return
	}

	address := &models.Address{
		UserID:    userID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		City:      req.City,
		Pincode:   req.Pincode,
		IsDefault: req.IsDefault,
	}
	if err := ac.addresses.Create(c.Request.Context(), address); err != nil {
		ac.logger.Error("Failed to create address", zap.String("user_id", userID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save address"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"address": address})
}

// DeleteAddress removes one of the caller's addresses
func (ac *AddressController) DeleteAddress(c *gin.Context) {
	userID, err := currentUserUUID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address ID format"})
		return
	}

	if err := ac.addresses.Delete(c.Request.Context(), addressID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
			return
		}
		ac.logger.Error("Failed to delete address", zap.String("address_id", addressID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete address"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
}

// currentUserUUID reads the authenticated user ID from the request context
func currentUserUUID(c *gin.Context) (uuid.UUID, error) {
	raw, err := middleware.GetUserID(c)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(raw)
}
