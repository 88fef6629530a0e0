package feed

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/example/evoshop/pkg/models"
)

// ErrFeedUnavailable means no feed category could be fetched at all.
var ErrFeedUnavailable = errors.New("product feed unavailable")

const fashionCacheKey = "feed:fashion-products"

const perCategoryLimit = 10

// Service serves converted fashion products from the feed through the
// injected cache.
type Service struct {
	client     *Client
	cache      Cache
	categories []string
	logger     *zap.Logger
}

func NewService(client *Client, cache Cache, categories []string, logger *zap.Logger) *Service {
	if len(categories) == 0 {
		categories = FashionCategories
	}
	return &Service{client: client, cache: cache, categories: categories, logger: logger}
}

// FashionProducts returns the whitelisted categories' products, converted to
// the catalog shape. Results are cached; a category fetch failure skips that
// category rather than failing the whole listing.
func (s *Service) FashionProducts(ctx context.Context) ([]models.Product, error) {
	var cached []models.Product
	hit, err := s.cache.Get(ctx, fashionCacheKey, &cached)
	if err != nil {
		s.logger.Warn("Feed cache read failed", zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	var products []models.Product
	for _, category := range s.categories {
		resp, err := s.client.ProductsByCategory(ctx, category, perCategoryLimit)
		if err != nil {
			s.logger.Warn("Failed to fetch feed category",
				zap.String("category", category),
				zap.Error(err))
			continue
		}
		for _, p := range resp.Products {
			products = append(products, Convert(p))
		}
	}
	if len(products) == 0 {
		return nil, ErrFeedUnavailable
	}

	if err := s.cache.Set(ctx, fashionCacheKey, products); err != nil {
		s.logger.Warn("Feed cache write failed", zap.Error(err))
	}

	return products, nil
}
