package httpserver

import (
	"errors"
	"net/http"

	"coinshop/internal/domain"
	"github.com/gin-gonic/gin"
)

type clearCartRequest struct {
	SessionID string `json:"session_id"`
}

func createSessionHandler(svc CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := callerIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		url, err := svc.CreateSession(c.Request.Context(), identity.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrEmptyCart) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": url})
	}
}

// clearCartHandler is the success-page fallback: it only clears the cart
// after the provider confirms the session is paid and owned by the caller.
func clearCartHandler(svc CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := callerIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		var req clearCartRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session_id"})
			return
		}

		err := svc.ClearCartFallback(c.Request.Context(), identity.UserID, req.SessionID)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"cleared": true})
		case errors.Is(err, domain.ErrSessionNotPaid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Session not paid"})
		case errors.Is(err, domain.ErrSessionOwnership):
			c.JSON(http.StatusForbidden, gin.H{"error": "Session does not belong to this user"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		}
	}
}
