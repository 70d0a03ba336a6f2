package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aishwaryacollections/storefront/services"
)

// PaymentController serves the payment gateway endpoint. One POST route
// dispatches on the action field, mirroring the gateway's webhookless
// browser flow: create-order before the customer pays, verify-payment
// after the gateway redirects back.
type PaymentController struct {
	paymentService *services.PaymentService
}

func NewPaymentController(paymentService *services.PaymentService) *PaymentController {
	return &PaymentController{paymentService: paymentService}
}

func (pc *PaymentController) HandleAction(c *gin.Context) {
	var req services.PaymentActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Action must be create-order or verify-payment"})
		return
	}

	switch req.Action {
	case "create-order":
		order, svcErr := pc.paymentService.CreateGatewayOrder(c.Request.Context(), &req)
		if svcErr != nil {
			c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
			return
		}
		c.JSON(http.StatusOK, gin.H{"gateway_order": order})

	case "verify-payment":
		if svcErr := pc.paymentService.VerifyPayment(c.Request.Context(), &req); svcErr != nil {
			c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment verified"})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action"})
	}
}
