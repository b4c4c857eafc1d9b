package httpserver

import (
	"context"
	"errors"
	"log"

	"coinshop/internal/auth"
	"coinshop/internal/domain"
	coinrepo "coinshop/internal/repository/coin"
	"coinshop/internal/service/catalog"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogService exposes coin browsing and admin mutations.
type CatalogService interface {
	List(ctx context.Context, filter coinrepo.ListFilter) ([]domain.Coin, error)
	Get(ctx context.Context, id int64) (*domain.Coin, error)
	Countries(ctx context.Context) ([]string, error)
	Create(ctx context.Context, in catalog.CreateInput) (*domain.Coin, error)
	Update(ctx context.Context, id int64, in catalog.UpdateInput) (*domain.Coin, error)
}

// CartService exposes the stock-validated cart operations.
type CartService interface {
	List(ctx context.Context, userID string) (*domain.CartSummary, error)
	Add(ctx context.Context, userID string, coinID int64, quantity int) (*domain.CartItem, error)
	SetQuantity(ctx context.Context, userID string, coinID int64, quantity int) (*domain.CartItem, error)
	Remove(ctx context.Context, userID string, coinID int64) error
}

// CheckoutService initiates payment sessions and runs the success-page
// cart-clear fallback.
type CheckoutService interface {
	CreateSession(ctx context.Context, userID string) (string, error)
	ClearCartFallback(ctx context.Context, userID, sessionID string) error
}

// FulfillmentService reconciles provider webhook deliveries.
type FulfillmentService interface {
	HandleEvent(ctx context.Context, body []byte, signature string) error
}

// Deps carries the wired services and auth configuration for the router.
type Deps struct {
	CatalogSvc     CatalogService
	CartSvc        CartService
	CheckoutSvc    CheckoutService
	FulfillmentSvc FulfillmentService
	Verifier       *auth.Verifier
	AdminRole      string
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if deps.CatalogSvc == nil || deps.CartSvc == nil || deps.CheckoutSvc == nil || deps.FulfillmentSvc == nil {
		return nil, errors.New("httpserver: missing service dependency")
	}
	if deps.Verifier == nil {
		return nil, errors.New("httpserver: missing auth verifier")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if len(corsOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = corsOrigins
		cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
		router.Use(cors.New(cfg))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")
	api.GET("/coins", listCoinsHandler(deps.CatalogSvc))
	api.GET("/coins/countries", countriesHandler(deps.CatalogSvc))
	api.GET("/coins/:id", getCoinHandler(deps.CatalogSvc))
	api.POST("/webhooks/stripe", webhookHandler(deps.FulfillmentSvc))

	authed := api.Group("", identityMiddleware(deps.Verifier))
	authed.GET("/cart", listCartHandler(deps.CartSvc))
	authed.POST("/cart", addToCartHandler(deps.CartSvc))
	authed.PUT("/cart", updateCartHandler(deps.CartSvc))
	authed.DELETE("/cart", removeFromCartHandler(deps.CartSvc))
	authed.POST("/checkout/session", createSessionHandler(deps.CheckoutSvc))
	authed.POST("/checkout/clear-cart", clearCartHandler(deps.CheckoutSvc))

	admin := authed.Group("", requireRole(deps.AdminRole))
	admin.POST("/coins", createCoinHandler(deps.CatalogSvc))
	admin.PUT("/coins/:id", updateCoinHandler(deps.CatalogSvc))

	return router, nil
}
