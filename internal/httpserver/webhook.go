package httpserver

import (
	"errors"
	"io"
	"net/http"

	"coinshop/internal/domain"
	"coinshop/internal/payment"
	"coinshop/internal/service/fulfillment"
	"github.com/gin-gonic/gin"
)

// webhookHandler receives provider deliveries. The body must stay raw for
// signature verification, so no JSON binding happens here. Non-2xx responses
// make the provider retry the delivery.
func webhookHandler(svc FulfillmentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		signature := c.GetHeader("Stripe-Signature")
		if signature == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing stripe-signature"})
			return
		}
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
			return
		}

		err = svc.HandleEvent(c.Request.Context(), body, signature)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"received": true})
		case errors.Is(err, payment.ErrSignatureVerification):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook Error: invalid signature"})
		case errors.Is(err, domain.ErrMissingUserContext):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Session missing userId"})
		case errors.Is(err, domain.ErrCartEmptyAtFulfillment):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart empty at checkout completion"})
		case errors.Is(err, domain.ErrAmountMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart total mismatch"})
		case errors.Is(err, fulfillment.ErrPersistence):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fulfill order"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
		}
	}
}
