package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func feedServer(t *testing.T, requests *int32, byCategory map[string][]Product) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)

		const prefix = "/products/category/"
		if !strings.HasPrefix(r.URL.Path, prefix) {
			http.NotFound(w, r)
			return
		}
		category := strings.TrimPrefix(r.URL.Path, prefix)
		products, ok := byCategory[category]
		if !ok {
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(ListResponse{Products: products, Total: len(products)})
	}))
}

func TestFashionProductsFetchesAndConverts(t *testing.T) {
	var requests int32
	server := feedServer(t, &requests, map[string][]Product{
		"womens-dresses": {{ID: 1, Title: "Red Dress", Category: "womens-dresses", Price: 50, Stock: 3}},
		"mens-shirts":    {{ID: 2, Title: "Oxford Shirt", Category: "mens-shirts", Price: 30, Stock: 8}},
	})
	defer server.Close()

	svc := NewService(NewClient(server.URL), NewMemoryCache(time.Minute),
		[]string{"womens-dresses", "mens-shirts"}, zap.NewNop())

	products, err := svc.FashionProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Red Dress", products[0].Name)
	assert.Equal(t, "Dresses", products[0].Category)
	assert.Equal(t, "Oxford Shirt", products[1].Name)
}

func TestFashionProductsUsesCache(t *testing.T) {
	var requests int32
	server := feedServer(t, &requests, map[string][]Product{
		"womens-dresses": {{ID: 1, Title: "Red Dress", Category: "womens-dresses", Price: 50, Stock: 3}},
	})
	defer server.Close()

	svc := NewService(NewClient(server.URL), NewMemoryCache(time.Minute),
		[]string{"womens-dresses"}, zap.NewNop())

	_, err := svc.FashionProducts(context.Background())
	require.NoError(t, err)
	first := atomic.LoadInt32(&requests)

	products, err := svc.FashionProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, first, atomic.LoadInt32(&requests), "second call should be served from cache")
}

func TestFashionProductsSkipsFailingCategory(t *testing.T) {
	var requests int32
	server := feedServer(t, &requests, map[string][]Product{
		"womens-dresses": {{ID: 1, Title: "Red Dress", Category: "womens-dresses", Price: 50, Stock: 3}},
	})
	defer server.Close()

	svc := NewService(NewClient(server.URL), NewMemoryCache(time.Minute),
		[]string{"womens-dresses", "no-such-category"}, zap.NewNop())

	products, err := svc.FashionProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestFashionProductsAllCategoriesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := NewService(NewClient(server.URL), NewMemoryCache(time.Minute),
		[]string{"womens-dresses"}, zap.NewNop())

	_, err := svc.FashionProducts(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFeedUnavailable)
}

func TestClientSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/search", r.URL.Path)
		assert.Equal(t, "silk dress", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(ListResponse{Products: []Product{{ID: 7, Title: "Silk Dress"}}, Total: 1})
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).Search(context.Background(), "silk dress", 5)
	require.NoError(t, err)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Silk Dress", resp.Products[0].Title)
}

func TestClientProductByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/7", r.URL.Path)
		json.NewEncoder(w).Encode(Product{ID: 7, Title: "Silk Dress"})
	}))
	defer server.Close()

	product, err := NewClient(server.URL).ProductByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Silk Dress", product.Title)
}

func TestClientNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Products(context.Background(), 10, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
