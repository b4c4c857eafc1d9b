package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"coinshop/internal/domain"
	coinrepo "coinshop/internal/repository/coin"
	"coinshop/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

func listCoinsHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The admin edit form looks coins up as /api/coins?id=N.
		if idParam := c.Query("id"); idParam != "" {
			id, err := strconv.ParseInt(idParam, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coin id"})
				return
			}
			writeCoin(c, svc, id)
			return
		}

		coins, err := svc.List(c.Request.Context(), coinrepo.ListFilter{
			Country: c.Query("country"),
			Type:    c.Query("type"),
			Query:   c.Query("q"),
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch coins"})
			return
		}
		if coins == nil {
			coins = []domain.Coin{}
		}
		c.JSON(http.StatusOK, coins)
	}
}

func getCoinHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coin id"})
			return
		}
		writeCoin(c, svc, id)
	}
}

func countriesHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		countries, err := svc.Countries(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch countries"})
			return
		}
		if countries == nil {
			countries = []string{}
		}
		c.JSON(http.StatusOK, countries)
	}
}

func createCoinHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		coin, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			writeCatalogError(c, err, "Failed to create coin")
			return
		}
		c.JSON(http.StatusCreated, coin)
	}
}

func updateCoinHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coin id"})
			return
		}
		var in catalog.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		coin, err := svc.Update(c.Request.Context(), id, in)
		if err != nil {
			writeCatalogError(c, err, "Failed to modify coin")
			return
		}
		c.JSON(http.StatusOK, coin)
	}
}

func writeCoin(c *gin.Context, svc CatalogService, id int64) {
	coin, err := svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Coin not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch coin"})
		return
	}
	c.JSON(http.StatusOK, coin)
}

func writeCatalogError(c *gin.Context, err error, generic string) {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Msg})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Coin not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": generic})
	}
}
