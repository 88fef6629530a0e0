// Package reviews maintains the embedded review list and the running
// average rating on each product.
package reviews

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/example/evoshop/pkg/errs"
	"github.com/example/evoshop/pkg/models"
)

type ProductStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	AppendReview(ctx context.Context, id primitive.ObjectID, review models.Review, averageRating float64, reviewCount int) error
}

type Request struct {
	User   string   `json:"user"`
	Rating int      `json:"rating"`
	Text   string   `json:"text"`
	Images []string `json:"images,omitempty"`
}

// Summary is returned after an append: the stored review plus the product's
// refreshed aggregates.
type Summary struct {
	Review        models.Review `json:"review"`
	AverageRating float64       `json:"averageRating"`
	ReviewCount   int           `json:"reviewCount"`
}

type Service struct {
	products ProductStore
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(products ProductStore, logger *zap.Logger) *Service {
	return &Service{products: products, logger: logger, now: time.Now}
}

// Add validates and appends a review, recomputing the product's average
// rating (arithmetic mean, one decimal) and review count.
func (s *Service) Add(ctx context.Context, productID primitive.ObjectID, req *Request) (*Summary, error) {
	if req.User == "" || req.Rating == 0 || req.Text == "" {
		return nil, errs.E(errs.KindValidation, "missing required fields: user, rating, text")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, errs.E(errs.KindValidation, "rating must be between 1 and 5")
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	review := models.Review{
		User:      req.User,
		Rating:    req.Rating,
		Text:      req.Text,
		Images:    req.Images,
		CreatedAt: s.now().UTC(),
	}

	count := len(product.Reviews) + 1
	sum := req.Rating
	for _, r := range product.Reviews {
		sum += r.Rating
	}
	average := math.Round(float64(sum)/float64(count)*10) / 10

	if err := s.products.AppendReview(ctx, productID, review, average, count); err != nil {
		s.logger.Error("Failed to append review",
			zap.String("product_id", productID.Hex()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to add review: %w", err)
	}

	return &Summary{Review: review, AverageRating: average, ReviewCount: count}, nil
}

// ProductReviews lists a product's reviews with its aggregates.
type ProductReviews struct {
	Reviews       []models.Review `json:"reviews"`
	AverageRating float64         `json:"averageRating"`
	ReviewCount   int             `json:"reviewCount"`
}

func (s *Service) List(ctx context.Context, productID primitive.ObjectID) (*ProductReviews, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	reviews := product.Reviews
	if reviews == nil {
		reviews = []models.Review{}
	}
	return &ProductReviews{
		Reviews:       reviews,
		AverageRating: product.AverageRating,
		ReviewCount:   product.ReviewCount,
	}, nil
}
