package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9090
  admin_token: "secret"
mongodb:
  uri: "mongodb://localhost:27017"
  database: "shoptest"
redis:
  addr: "localhost:6379"
feed:
  base_url: "http://feed.local"
  cache_ttl: 10m
  categories:
    - womens-dresses
    - mens-shirts
checkout:
  tax_rate: 0.1
  shipping_fee: 20
  free_shipping_min: 150
log:
  level: "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Server.AdminToken)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr())
	assert.Equal(t, "shoptest", cfg.MongoDB.Database)
	assert.Equal(t, "http://feed.local", cfg.Feed.BaseURL)
	assert.Equal(t, 10*time.Minute, cfg.Feed.CacheTTL)
	assert.Equal(t, []string{"womens-dresses", "mens-shirts"}, cfg.Feed.Categories)
	assert.Equal(t, 0.1, cfg.Checkout.TaxRate)
	assert.Equal(t, 20.0, cfg.Checkout.ShippingFee)
	assert.Equal(t, 150.0, cfg.Checkout.FreeShippingMin)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
mongodb:
  uri: "mongodb://localhost:27017"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Empty(t, cfg.Server.AdminToken)
	assert.Equal(t, "evoshop", cfg.MongoDB.Database)
	assert.Equal(t, "https://dummyjson.com", cfg.Feed.BaseURL)
	assert.Equal(t, 5*time.Minute, cfg.Feed.CacheTTL)
	assert.Equal(t, 0.08, cfg.Checkout.TaxRate)
	assert.Equal(t, 15.0, cfg.Checkout.ShippingFee)
	assert.Equal(t, 100.0, cfg.Checkout.FreeShippingMin)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Encoding)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
