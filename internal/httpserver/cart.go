package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"coinshop/internal/domain"
	"github.com/gin-gonic/gin"
)

type addToCartRequest struct {
	CoinID   int64 `json:"coinId"`
	Quantity int   `json:"quantity"`
}

type updateCartRequest struct {
	CoinID   int64 `json:"coinId"`
	Quantity *int  `json:"quantity"`
}

func listCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := callerIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		summary, err := svc.List(c.Request.Context(), identity.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func addToCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := callerIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		var req addToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.CoinID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: coinId"})
			return
		}

		item, err := svc.Add(c.Request.Context(), identity.UserID, req.CoinID, req.Quantity)
		if err != nil {
			writeCartError(c, err, "Failed to add to cart")
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func updateCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := callerIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		var req updateCartRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.CoinID == 0 || req.Quantity == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: coinId, quantity"})
			return
		}

		item, err := svc.SetQuantity(c.Request.Context(), identity.UserID, req.CoinID, *req.Quantity)
		if err != nil {
			writeCartError(c, err, "Failed to update cart")
			return
		}
		if item == nil {
			c.JSON(http.StatusOK, gin.H{"deleted": true})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func removeFromCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := callerIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		coinID, err := strconv.ParseInt(c.Query("coinId"), 10, 64)
		if err != nil || coinID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameter: coinId"})
			return
		}
		if err := svc.Remove(c.Request.Context(), identity.UserID, coinID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove from cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

// writeCartError maps cart mutation failures onto the storefront's error
// payloads, attaching stock detail where the client can react to it.
func writeCartError(c *gin.Context, err error, generic string) {
	var insufficient *domain.InsufficientStockError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Coin not found"})
	case errors.Is(err, domain.ErrOutOfStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": "This coin is out of stock"})
	case errors.As(err, &insufficient):
		body := gin.H{
			"error":          insufficient.Error(),
			"availableStock": insufficient.Available,
		}
		if insufficient.InCart > 0 {
			body["currentCartQty"] = insufficient.InCart
		}
		c.JSON(http.StatusBadRequest, body)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": generic})
	}
}
