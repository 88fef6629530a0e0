// Package catalog turns shopper-facing filter parameters into a
// deterministic, paginated, sorted product listing.
package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/evoshop/pkg/models"
)

const (
	DefaultLimit = 12
	MaxLimit     = 100
)

type Sort string

const (
	SortFeatured  Sort = "featured"
	SortNewest    Sort = "newest"
	SortPriceLow  Sort = "price-low"
	SortPriceHigh Sort = "price-high"
	SortName      Sort = "name"
)

// Query describes one product listing request. All filters are optional and
// combine with AND. The zero value lists everything, first page, default
// sort.
type Query struct {
	Category    string
	Gender      string
	Search      string
	Featured    bool
	NewArrivals bool
	BestSellers bool
	InStock     bool
	Sort        Sort
	Page        int
	Limit       int
}

// Normalized clamps pagination to sane bounds and fills in the default sort.
// Page below 1 becomes 1; limit outside [1, MaxLimit] becomes the default or
// the cap.
func (q Query) Normalized() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	switch q.Sort {
	case SortFeatured, SortNewest, SortPriceLow, SortPriceHigh, SortName:
	default:
		q.Sort = SortFeatured
	}
	return q
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type Result struct {
	Products   []models.Product
	Pagination Pagination
}

// ProductStore executes a normalized query and returns the page slice plus
// the total match count independent of pagination.
type ProductStore interface {
	List(ctx context.Context, q Query) ([]models.Product, int64, error)
}

type Service struct {
	store  ProductStore
	logger *zap.Logger
}

func NewService(store ProductStore, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func (s *Service) List(ctx context.Context, q Query) (*Result, error) {
	q = q.Normalized()

	products, total, err := s.store.List(ctx, q)
	if err != nil {
		s.logger.Error("Failed to list products",
			zap.String("category", q.Category),
			zap.String("search", q.Search),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}

	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))

	return &Result{
		Products: products,
		Pagination: Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}
