package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aishwaryacollections/storefront/services"
)

type DispatchController struct {
	dispatchService *services.DispatchService
}

func NewDispatchController(dispatchService *services.DispatchService) *DispatchController {
	return &DispatchController{dispatchService: dispatchService}
}

// GetSlip downloads the dispatch slip PDF for one order
func (dc *DispatchController) GetSlip(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return
	}

	pdf, svcErr := dc.dispatchService.SlipPDF(c.Request.Context(), orderID)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="dispatch-slip-%s.pdf"`, orderID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

type batchSlipRequest struct {
	OrderIDs []string `json:"order_ids" binding:"required,min=1"`
}

// BatchSlips downloads one multi-page PDF covering several orders
func (dc *DispatchController) BatchSlips(c *gin.Context) {
	var req batchSlipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ids := make([]uuid.UUID, 0, len(req.OrderIDs))
	for _, raw := range req.OrderIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid order ID %q", raw)})
			return
		}
		ids = append(ids, id)
	}

	pdf, svcErr := dc.dispatchService.BatchPDF(c.Request.Context(), ids)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="dispatch-slips.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
