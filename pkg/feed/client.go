// Package feed integrates a DummyJSON-style product feed, used as a
// demo/seed data source for the catalog. The document store remains the
// source of truth; nothing here writes to it directly.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Product is the feed's wire format.
type Product struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Rating             float64  `json:"rating"`
	Stock              int      `json:"stock"`
	Tags               []string `json:"tags"`
	Brand              string   `json:"brand"`
	WarrantyInfo       string   `json:"warrantyInformation"`
	ShippingInfo       string   `json:"shippingInformation"`
	ReturnPolicy       string   `json:"returnPolicy"`
	Meta               Meta     `json:"meta"`
	Images             []string `json:"images"`
	Thumbnail          string   `json:"thumbnail"`
}

type Meta struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ListResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// FashionCategories is the slice of the feed we surface in the store.
var FashionCategories = []string{
	"mens-shirts",
	"mens-shoes",
	"mens-watches",
	"womens-bags",
	"womens-dresses",
	"womens-jewellery",
	"womens-shoes",
	"womens-watches",
	"sunglasses",
	"tops",
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("feed returned status %d for %s", resp.StatusCode, path)
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}

func (c *Client) Products(ctx context.Context, limit, skip int) (*ListResponse, error) {
	var out ListResponse
	path := fmt.Sprintf("/products?limit=%d&skip=%d", limit, skip)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ProductsByCategory(ctx context.Context, category string, limit int) (*ListResponse, error) {
	var out ListResponse
	path := fmt.Sprintf("/products/category/%s?limit=%d", url.PathEscape(category), limit)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ProductByID(ctx context.Context, id int) (*Product, error) {
	var out Product
	if err := c.get(ctx, fmt.Sprintf("/products/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Search(ctx context.Context, query string, limit int) (*ListResponse, error) {
	var out ListResponse
	path := fmt.Sprintf("/products/search?q=%s&limit=%d", url.QueryEscape(query), limit)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
