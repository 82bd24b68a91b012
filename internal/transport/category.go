package transport

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/rafalstore/storefront/internal/models"
)

var (
	categoryIDAliases    = []string{"id", "uuid", "slug"}
	categoryNameAliases  = []string{"name", "title", "category_name"}
	categoryDescAliases  = []string{"description", "subtitle", "content"}
	categoryImageAliases = []string{"image", "image_url", "thumbnail"}
	categoryWallAliases  = []string{"wall_image", "wallImage", "background_image"}
	categoryOrderAliases = []string{"order", "sort", "position", "priority"}
)

// NormalizeCategories maps a category listing to the canonical slice,
// dropping inactive or nameless entries and sorting by display order.
func NormalizeCategories(baseURL string, data any) []models.Category {
	var entries []any
	switch v := data.(type) {
	case []any:
		entries = v
	case map[string]any:
		if r, ok := v["results"].([]any); ok {
			entries = r
		} else if r, ok := v["data"].([]any); ok {
			entries = r
		} else if r, ok := v["categories"].([]any); ok {
			entries = r
		}
	}

	out := make([]models.Category, 0, len(entries))
	for i, e := range entries {
		m, ok := asObject(e)
		if !ok {
			continue
		}
		c := normalizeCategory(baseURL, m, i)
		if c.Active && c.Name != "" {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func normalizeCategory(baseURL string, m map[string]any, index int) models.Category {
	c := models.Category{Active: true, Order: index}

	if v, ok := first(m, categoryIDAliases...); ok {
		c.ID = AsString(v)
	}
	if c.ID == "" {
		c.ID = "category-" + uuid.NewString()
	}
	if v, ok := first(m, categoryNameAliases...); ok {
		c.Name = AsString(v)
	}
	if v, ok := first(m, categoryDescAliases...); ok {
		c.Description = AsString(v)
	}
	if v, ok := first(m, categoryImageAliases...); ok {
		c.Image = NormalizeImageURL(baseURL, v)
	}
	if v, ok := first(m, categoryWallAliases...); ok {
		c.WallImage = NormalizeImageURL(baseURL, v)
	}
	if v, ok := first(m, "is_active", "isActive", "active"); ok {
		c.Active = ParseBool(v)
	} else if v, ok := m["status"]; ok && v != nil {
		switch strings.ToLower(AsString(v)) {
		case "active", "published", "enabled":
			c.Active = true
		default:
			c.Active = false
		}
	}
	if v, ok := first(m, categoryOrderAliases...); ok {
		c.Order = ParseInt(v, index)
	}
	return c
}
