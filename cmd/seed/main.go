// Seeds the document store with demo data: fashion products pulled from the
// external feed plus the default category set.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/example/evoshop/pkg/config"
	"github.com/example/evoshop/pkg/feed"
	"github.com/example/evoshop/pkg/models"
	"github.com/example/evoshop/pkg/repository"
)

var defaultCategories = []models.Category{
	{Name: "Tops", Slug: "tops", Description: "Shirts, blouses, and more"},
	{Name: "Dresses", Slug: "dresses", Description: "Beautiful dresses for any occasion"},
	{Name: "Shoes", Slug: "shoes", Description: "Footwear collection"},
	{Name: "Bags", Slug: "bags", Description: "Handbags and accessories"},
	{Name: "Accessories", Slug: "accessories", Description: "Watches, jewelry, and sunglasses"},
}

func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := config.NewLogger(&cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	mongo, err := repository.NewMongo(&cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer mongo.Close(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := mongo.EnsureIndexes(ctx); err != nil {
		logger.Fatal("Failed to ensure indexes", zap.Error(err))
	}

	db := mongo.Database()
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	for i := range defaultCategories {
		if err := categoryRepo.UpsertBySlug(ctx, &defaultCategories[i]); err != nil {
			logger.Fatal("Failed to seed category",
				zap.String("slug", defaultCategories[i].Slug),
				zap.Error(err))
		}
	}
	logger.Info("Categories seeded", zap.Int("count", len(defaultCategories)))

	client := feed.NewClient(cfg.Feed.BaseURL)
	cache := feed.NewMemoryCache(cfg.Feed.CacheTTL)
	feedSvc := feed.NewService(client, cache, cfg.Feed.Categories, logger)

	products, err := feedSvc.FashionProducts(ctx)
	if err != nil {
		logger.Fatal("Failed to fetch feed products", zap.Error(err))
	}

	seeded := 0
	for i := range products {
		if err := productRepo.UpsertBySlug(ctx, &products[i]); err != nil {
			logger.Warn("Failed to seed product",
				zap.String("slug", products[i].Slug),
				zap.Error(err))
			continue
		}
		seeded++
	}

	logger.Info("Products seeded",
		zap.Int("fetched", len(products)),
		zap.Int("seeded", seeded))
}
