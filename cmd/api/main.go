package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"sapphirus/internal/config"
	"sapphirus/internal/db"
	"sapphirus/internal/httpserver"
	"sapphirus/internal/images"
	"sapphirus/internal/metrics"
	"sapphirus/internal/payments"
	addressrepo "sapphirus/internal/repository/address"
	cartrepo "sapphirus/internal/repository/cart"
	orderrepo "sapphirus/internal/repository/order"
	productrepo "sapphirus/internal/repository/product"
	profilerepo "sapphirus/internal/repository/profile"
	tokenrepo "sapphirus/internal/repository/token"
	authsvc "sapphirus/internal/service/auth"
	cartsvc "sapphirus/internal/service/cart"
	catalogsvc "sapphirus/internal/service/catalog"
	ordersvc "sapphirus/internal/service/order"
	shippingsvc "sapphirus/internal/service/shipping"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	redisClient, err := db.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatalf("connect to redis: %v", err)
	}
	defer redisClient.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	profileRepo := profilerepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	addressRepo := addressrepo.NewPostgres(dbpool)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	cartRepo := cartrepo.NewRedis(redisClient)

	catalogService := catalogsvc.New(productRepo)
	authService := authsvc.New(profileRepo, tokenRepo)
	cartService := cartsvc.New(cartRepo)
	shippingService := shippingsvc.New(addressRepo)
	orderService := ordersvc.New(orderRepo, logger)

	gateway := payments.NewStripe(cfg.StripeSecretKey)

	var uploader images.Uploader
	if cfg.CloudinaryCloudName != "" {
		uploader, err = images.NewCloudinary(images.Config{
			CloudName:    cfg.CloudinaryCloudName,
			APIKey:       cfg.CloudinaryAPIKey,
			APISecret:    cfg.CloudinaryAPISecret,
			UploadPreset: cfg.CloudinaryUploadPreset,
		})
		if err != nil {
			logger.Printf("cloudinary init failed, image uploads disabled: %v", err)
			uploader = nil
		}
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		AuthSvc:       authService,
		CatalogSvc:    catalogService,
		CartSvc:       cartService,
		ShippingSvc:   shippingService,
		OrderSvc:      orderService,
		Gateway:       gateway,
		WebhookSecret: cfg.StripeWebhookSecret,
		Uploader:      uploader,
		Metrics:       metrics.NewRecorder(),
	})
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
