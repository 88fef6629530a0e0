package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/example/evoshop/pkg/api"
	"github.com/example/evoshop/pkg/catalog"
	"github.com/example/evoshop/pkg/checkout"
	"github.com/example/evoshop/pkg/config"
	"github.com/example/evoshop/pkg/feed"
	"github.com/example/evoshop/pkg/media"
	"github.com/example/evoshop/pkg/newsletter"
	"github.com/example/evoshop/pkg/repository"
	"github.com/example/evoshop/pkg/reviews"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if token := os.Getenv("ADMIN_TOKEN"); token != "" {
		cfg.Server.AdminToken = token
	}

	// Setup logger
	logger, err := config.NewLogger(&cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting storefront server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port))

	// MongoDB
	mongo, err := repository.NewMongo(&cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := mongo.Ping(ctx); err != nil {
		cancel()
		logger.Fatal("MongoDB ping failed", zap.Error(err))
	}
	if err := mongo.EnsureIndexes(ctx); err != nil {
		logger.Warn("Failed to ensure indexes", zap.Error(err))
	}
	cancel()
	logger.Info("MongoDB connected successfully")

	// Redis backs the feed cache
	redisRepo := repository.NewRedisRepository(&cfg.Redis)
	if err := redisRepo.Ping(context.Background()); err != nil {
		logger.Warn("Redis connection failed", zap.Error(err))
	} else {
		logger.Info("Redis connected successfully")
	}

	db := mongo.Database()
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	subscriberRepo := repository.NewSubscriberRepository(db)

	pricing := checkout.Pricing{
		TaxRate:         cfg.Checkout.TaxRate,
		ShippingFee:     cfg.Checkout.ShippingFee,
		FreeShippingMin: cfg.Checkout.FreeShippingMin,
	}

	feedClient := feed.NewClient(cfg.Feed.BaseURL)
	feedCache := feed.NewRedisCache(redisRepo, cfg.Feed.CacheTTL)

	var uploader media.Uploader
	if cloudinaryURL := os.Getenv("CLOUDINARY_URL"); cloudinaryURL != "" {
		uploader, err = media.NewCloudinaryUploader(cloudinaryURL, "evoshop")
		if err != nil {
			logger.Warn("Cloudinary init failed, uploads disabled", zap.Error(err))
		}
	} else {
		logger.Info("CLOUDINARY_URL not set, uploads disabled")
	}

	services := api.Services{
		Catalog:    catalog.NewService(productRepo, logger),
		Checkout:   checkout.NewService(productRepo, orderRepo, pricing, logger),
		Reviews:    reviews.NewService(productRepo, logger),
		Newsletter: newsletter.NewService(subscriberRepo, logger),
		Feed:       feed.NewService(feedClient, feedCache, cfg.Feed.Categories, logger),
		Products:   productRepo,
		Orders:     orderRepo,
		Categories: categoryRepo,
		Uploader:   uploader,
	}

	server := api.NewServer(cfg, logger, services)
	server.SetupRoutes()

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			serverErr <- err
		}
	}()

	logger.Info("Server started successfully")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-serverErr:
		logger.Fatal("Server error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := mongo.Close(shutdownCtx); err != nil {
		logger.Error("Failed to close MongoDB connection", zap.Error(err))
	}
	if err := redisRepo.Close(); err != nil {
		logger.Error("Failed to close Redis connection", zap.Error(err))
	}

	logger.Info("Server stopped")
}
