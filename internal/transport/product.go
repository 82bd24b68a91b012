package transport

import (
	"strings"

	"github.com/google/uuid"

	"github.com/rafalstore/storefront/internal/models"
)

var (
	productIDAliases       = []string{"id", "uuid", "sku"}
	productNameAliases     = []string{"name", "title", "product_name"}
	productDescAliases     = []string{"description", "content", "details", "about_item"}
	productPriceAliases    = []string{"price", "current_price", "selling_price"}
	productOldPriceAliases = []string{"original_price", "regular_price", "list_price", "old_price"}
	productImageAliases    = []string{"image", "main_image", "thumbnail", "featured_image"}
	productImagesAliases   = []string{"images", "gallery", "additional_images"}
	productCategoryAliases = []string{"category", "category_name", "category_slug"}
	productRatingAliases   = []string{"rating", "average_rating", "stars", "avg_rating"}
	productReviewsAliases  = []string{"reviews", "review_count", "total_reviews", "total_ratings_count"}

	imageURLAliases = []string{"url", "src", "image", "path", "file"}
)

// NormalizeProductPage maps a paginated listing response to the canonical
// page. Products with no name or a non-positive price are dropped.
func NormalizeProductPage(baseURL string, data any) models.ProductPage {
	page := models.ProductPage{Results: []models.Product{}}

	m, _ := asObject(data)
	var entries []any
	switch {
	case m != nil:
		if v, ok := m["results"].([]any); ok {
			entries = v
		} else if v, ok := m["data"].([]any); ok {
			entries = v
		} else if v, ok := m["products"].([]any); ok {
			entries = v
		}
		if v, ok := first(m, "count", "total"); ok {
			page.Count = ParseInt(v, 0)
		}
		page.Next = AsString(m["next"])
		if v, ok := first(m, "previous", "prev"); ok {
			page.Previous = AsString(v)
		}
	default:
		if v, ok := data.([]any); ok {
			entries = v
			page.Count = len(v)
		}
	}

	for _, e := range entries {
		pm, ok := asObject(e)
		if !ok {
			continue
		}
		p := NormalizeProduct(baseURL, pm)
		if p.Name != "" && p.Price.IsPositive() {
			page.Results = append(page.Results, p)
		}
	}
	if page.Count == 0 {
		page.Count = len(page.Results)
	}
	return page
}

// NormalizeProduct maps one product object to the canonical model.
func NormalizeProduct(baseURL string, m map[string]any) models.Product {
	p := models.Product{InStock: true}

	if v, ok := first(m, productIDAliases...); ok {
		p.ID = AsString(v)
	}
	if p.ID == "" {
		p.ID = "product-" + uuid.NewString()
	}

	if v, ok := first(m, productNameAliases...); ok {
		p.Name = AsString(v)
	}
	if v, ok := first(m, productDescAliases...); ok {
		p.Description = AsString(v)
	}
	if v, ok := first(m, productPriceAliases...); ok {
		p.Price = ParsePrice(v)
	}
	if v, ok := first(m, productOldPriceAliases...); ok {
		p.OriginalPrice = ParsePrice(v)
	}
	if v, ok := first(m, productImageAliases...); ok {
		p.Image = NormalizeImageURL(baseURL, v)
	}
	if v, ok := first(m, productImagesAliases...); ok {
		p.Images = normalizeImageList(baseURL, v)
	}
	if v, ok := first(m, productCategoryAliases...); ok {
		p.Category = AsString(v)
	}
	if p.Category == "" {
		p.Category = "general"
	}
	if v, ok := first(m, "category_id", "categoryId"); ok {
		p.CategoryID = AsString(v)
	}
	if v, ok := first(m, productRatingAliases...); ok {
		p.Rating = clampRating(ParseFloat(v))
	}
	if v, ok := first(m, productReviewsAliases...); ok {
		p.Reviews = ParseInt(v, 0)
	}

	p.InStock = parseStock(m)
	p.IsOffer = parseOffer(m, p)
	p.IsBestSeller = parseBestSeller(m, p)
	p.Colors = normalizeColors(baseURL, m["color"])

	return p
}

func clampRating(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 5 {
		return 5
	}
	return r
}

func parseStock(m map[string]any) bool {
	if v, ok := first(m, "inStock", "in_stock", "available"); ok {
		return ParseBool(v)
	}
	if v, ok := first(m, "stock", "quantity", "stock_quantity"); ok {
		return ParseInt(v, 0) > 0
	}
	if v, ok := m["status"]; ok && v != nil {
		switch strings.ToLower(AsString(v)) {
		case "active", "available", "in_stock":
			return true
		}
		return false
	}
	return true
}

func parseOffer(m map[string]any, p models.Product) bool {
	if v, ok := first(m, "isOffer", "is_offer", "on_sale", "discounted"); ok {
		return ParseBool(v)
	}
	return p.OriginalPrice.IsPositive() && p.Price.LessThan(p.OriginalPrice)
}

func parseBestSeller(m map[string]any, p models.Product) bool {
	if v, ok := first(m, "isBestSeller", "is_best_seller", "bestseller", "featured", "popular"); ok {
		return ParseBool(v)
	}
	return p.Rating >= 4.5 && p.Reviews >= 100
}

func normalizeColors(baseURL string, raw any) []models.ProductColor {
	entries, ok := raw.([]any)
	if !ok {
		return nil
	}
	colors := make([]models.ProductColor, 0, len(entries))
	for _, e := range entries {
		m, ok := asObject(e)
		if !ok {
			continue
		}
		c := models.ProductColor{
			ID:       ParseInt(m["id"], 0),
			Hex:      AsString(m["hex_value"]),
			Quantity: ParseInt(m["quantity"], 0),
			Price:    ParsePrice(m["price"]),
			OldPrice: ParsePrice(m["old_price"]),
			Images:   normalizeImageList(baseURL, m["images"]),
		}
		colors = append(colors, c)
	}
	return colors
}

// normalizeImageList accepts a list of URLs, a list of image objects, or a
// comma-separated string.
func normalizeImageList(baseURL string, raw any) []string {
	var out []string
	switch v := raw.(type) {
	case []any:
		for _, e := range v {
			switch img := e.(type) {
			case string:
				if u := NormalizeImageURL(baseURL, img); u != "" {
					out = append(out, u)
				}
			case map[string]any:
				if inner, ok := first(img, imageURLAliases...); ok {
					if u := NormalizeImageURL(baseURL, inner); u != "" {
						out = append(out, u)
					}
				}
			}
		}
	case string:
		for _, part := range strings.Split(v, ",") {
			if u := NormalizeImageURL(baseURL, strings.TrimSpace(part)); u != "" {
				out = append(out, u)
			}
		}
	}
	return out
}
