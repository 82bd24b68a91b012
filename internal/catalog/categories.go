package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rafalstore/storefront/internal/models"
	"github.com/rafalstore/storefront/internal/storage"
	"github.com/rafalstore/storefront/internal/transport"
)

const categoriesCacheKey = "rafal_categories_cache"

// Categories is the read-only category collection client.
type Categories struct {
	BaseURL string
	Log     *slog.Logger
	Timeout time.Duration

	cache *cache
	http  *http.Client
}

func NewCategories(baseURL string, store storage.Store, log *slog.Logger) *Categories {
	if log == nil {
		log = slog.Default()
	}
	return &Categories{
		BaseURL: baseURL,
		Log:     log,
		Timeout: DefaultListTimeout,
		cache:   newCache(store, log, DefaultTTL),
		http:    &http.Client{},
	}
}

// SetCacheTTL overrides how long the cached listing stays servable. Call
// before first use.
func (c *Categories) SetCacheTTL(ttl time.Duration) {
	c.cache.setTTL(ttl)
}

// List returns the active categories, sorted by display order.
func (c *Categories) List(ctx context.Context) []models.Category {
	var cached []models.Category
	if c.cache.get(ctx, categoriesCacheKey, &cached) {
		return cached
	}

	data, err := c.fetch(ctx, c.BaseURL+"/category/")
	if err != nil {
		c.Log.Warn("category listing unavailable, serving fallback", "error", err)
		return FallbackCategories()
	}

	categories := transport.NormalizeCategories(c.BaseURL, data)
	if len(categories) > 0 {
		c.cache.put(ctx, categoriesCacheKey, categories)
	}
	return categories
}

// ByID resolves one category from the cached listing.
func (c *Categories) ByID(ctx context.Context, id string) (*models.Category, error) {
	for _, cat := range c.List(ctx) {
		if cat.ID == id {
			return &cat, nil
		}
	}
	return nil, fmt.Errorf("category %s not found", id)
}

func (c *Categories) fetch(ctx context.Context, u string) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("category api status %d", resp.StatusCode)
	}

	var data any
	if err := decodeJSON(resp, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func decodeJSON(resp *http.Response, out any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
