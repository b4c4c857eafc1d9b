package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"coinshop/internal/auth"
	"coinshop/internal/config"
	"coinshop/internal/db"
	"coinshop/internal/httpserver"
	"coinshop/internal/payment"
	cartrepo "coinshop/internal/repository/cart"
	coinrepo "coinshop/internal/repository/coin"
	orderrepo "coinshop/internal/repository/order"
	userrepo "coinshop/internal/repository/user"
	cartsvc "coinshop/internal/service/cart"
	catalogsvc "coinshop/internal/service/catalog"
	checkoutsvc "coinshop/internal/service/checkout"
	fulfillmentsvc "coinshop/internal/service/fulfillment"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if cfg.AuthJWTSecret == "" {
		logger.Fatal("AUTH_JWT_SECRET is not set")
	}
	if cfg.StripeSecretKey == "" {
		logger.Fatal("STRIPE_SECRET_KEY is not set")
	}
	if cfg.StripeWebhookSecret == "" {
		logger.Fatal("STRIPE_WEBHOOK_SECRET is not set")
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	stripeClient := payment.NewStripeClient(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	coinRepo := coinrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	userRepo := userrepo.NewPostgres(dbpool, logger)

	catalogService := catalogsvc.New(coinRepo)
	cartService := cartsvc.New(cartRepo, userRepo)
	checkoutService := checkoutsvc.New(cartRepo, userRepo, stripeClient, cfg.AppBaseURL, logger)
	fulfillmentService := fulfillmentsvc.New(stripeClient, orderRepo, cartRepo, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CatalogSvc:     catalogService,
		CartSvc:        cartService,
		CheckoutSvc:    checkoutService,
		FulfillmentSvc: fulfillmentService,
		Verifier:       auth.NewVerifier(cfg.AuthJWTSecret),
		AdminRole:      cfg.AdminRole,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
