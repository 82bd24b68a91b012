// Package catalog reads the product and category collections. Reads go
// cache first, then the network; on total failure the bundled static
// data keeps the UI renderable.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rafalstore/storefront/internal/models"
	"github.com/rafalstore/storefront/internal/storage"
	"github.com/rafalstore/storefront/internal/transport"
)

const (
	productsCacheKey         = "rafal_products_cache"
	productDetailsCacheKey   = "rafal_product_details_cache"
	categoryProductsCacheKey = "rafal_category_products_cache"

	DefaultListTimeout = 20 * time.Second
	DefaultPageSize    = 50
)

// Products is the read-only product collection client.
type Products struct {
	BaseURL string
	Log     *slog.Logger
	Timeout time.Duration

	cache *cache
	http  *http.Client
}

func NewProducts(baseURL string, store storage.Store, log *slog.Logger) *Products {
	if log == nil {
		log = slog.Default()
	}
	return &Products{
		BaseURL: baseURL,
		Log:     log,
		Timeout: DefaultListTimeout,
		cache:   newCache(store, log, DefaultTTL),
		http:    &http.Client{},
	}
}

// SetCacheTTL overrides how long cached pages stay servable. Call before
// first use.
func (p *Products) SetCacheTTL(ttl time.Duration) {
	p.cache.setTTL(ttl)
}

// List returns one page of the product listing.
func (p *Products) List(ctx context.Context, page, pageSize int) models.ProductPage {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	key := fmt.Sprintf("%s_page_%d", productsCacheKey, page)

	var cached models.ProductPage
	if p.cache.get(ctx, key, &cached) {
		return cached
	}

	u := fmt.Sprintf("%s/products/?page=%d&page_size=%d", p.BaseURL, page, pageSize)
	result, err := p.fetchPage(ctx, u)
	if err != nil {
		p.Log.Warn("product listing unavailable, serving fallback", "error", err)
		return fallbackPage()
	}
	if len(result.Results) > 0 {
		p.cache.put(ctx, key, result)
	}
	return result
}

// ByCategory returns one page of a category's products.
func (p *Products) ByCategory(ctx context.Context, categoryID string, page, pageSize int) models.ProductPage {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	key := fmt.Sprintf("%s_%s_page_%d", categoryProductsCacheKey, categoryID, page)

	var cached models.ProductPage
	if p.cache.get(ctx, key, &cached) {
		return cached
	}

	u := fmt.Sprintf("%s/products/?category=%s&page=%d&page_size=%d", p.BaseURL, url.QueryEscape(categoryID), page, pageSize)
	result, err := p.fetchPage(ctx, u)
	if err != nil {
		p.Log.Warn("category listing unavailable, serving fallback", "category", categoryID, "error", err)
		return fallbackPageFiltered(func(prod models.Product) bool {
			return prod.CategoryID == categoryID
		})
	}
	if len(result.Results) > 0 {
		p.cache.put(ctx, key, result)
	}
	return result
}

// ByID returns one product's details, or nil with an error when it can't
// be resolved from cache, network or fallback data.
func (p *Products) ByID(ctx context.Context, id string) (*models.Product, error) {
	key := productDetailsCacheKey + "_" + id

	var cached models.Product
	if p.cache.get(ctx, key, &cached) {
		return &cached, nil
	}

	u := p.BaseURL + "/products/" + url.PathEscape(id) + "/"
	data, err := p.fetch(ctx, u)
	if err != nil {
		for _, fb := range FallbackProducts() {
			if fb.ID == id {
				return &fb, nil
			}
		}
		return nil, fmt.Errorf("product %s: %w", id, err)
	}

	m, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("product %s: unexpected response shape", id)
	}
	if inner, ok := m["data"].(map[string]any); ok {
		m = inner
	}
	product := transport.NormalizeProduct(p.BaseURL, m)
	p.cache.put(ctx, key, product)
	return &product, nil
}

// Featured lists the products on offer.
func (p *Products) Featured(ctx context.Context) []models.Product {
	result, err := p.fetchPage(ctx, p.BaseURL+"/products/featured/")
	if err != nil {
		p.Log.Warn("featured listing unavailable, serving fallback", "error", err)
		return filterFallback(func(prod models.Product) bool { return prod.IsOffer })
	}
	return result.Results
}

// BestSellers lists the best-selling products.
func (p *Products) BestSellers(ctx context.Context) []models.Product {
	result, err := p.fetchPage(ctx, p.BaseURL+"/products/best_sellers/")
	if err != nil {
		p.Log.Warn("best sellers unavailable, serving fallback", "error", err)
		return filterFallback(func(prod models.Product) bool { return prod.IsBestSeller })
	}
	return result.Results
}

// Search queries the listing endpoint. Results are not cached; on
// failure the fallback data is searched by name instead.
func (p *Products) Search(ctx context.Context, query string) []models.Product {
	u := p.BaseURL + "/products/?search=" + url.QueryEscape(query)
	result, err := p.fetchPage(ctx, u)
	if err != nil {
		p.Log.Warn("search unavailable, searching fallback", "query", query, "error", err)
		q := strings.ToLower(query)
		return filterFallback(func(prod models.Product) bool {
			return strings.Contains(strings.ToLower(prod.Name), q)
		})
	}
	return result.Results
}

func (p *Products) fetchPage(ctx context.Context, u string) (models.ProductPage, error) {
	data, err := p.fetch(ctx, u)
	if err != nil {
		return models.ProductPage{}, err
	}
	return transport.NormalizeProductPage(p.BaseURL, data), nil
}

func (p *Products) fetch(ctx context.Context, u string) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("products api status %d", resp.StatusCode)
	}

	var data any
	if err := decodeJSON(resp, &data); err != nil {
		return nil, err
	}
	return data, nil
}
