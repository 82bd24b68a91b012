package account

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rafalstore/storefront/internal/models"
	"github.com/rafalstore/storefront/internal/storage"
)

const (
	FavoritesKey  = "rafal_favorites"
	ComparisonKey = "rafal_comparison"
	LanguageKey   = "rafal_language"
)

// ComparisonLimit caps how many products can be compared side by side.
const ComparisonLimit = 3

var ErrComparisonFull = errors.New("comparison list is full")

// Favorites is the persisted set of favorited product ids.
type Favorites struct {
	Store storage.Store
	Log   *slog.Logger
}

func (f *Favorites) List(ctx context.Context) []string {
	var ids []string
	if err := storage.GetJSON(ctx, f.Store, FavoritesKey, &ids); err != nil {
		if !errors.Is(err, storage.ErrNotFound) && f.Log != nil {
			f.Log.Warn("favorites unreadable", "error", err)
		}
		return nil
	}
	return ids
}

func (f *Favorites) Contains(ctx context.Context, productID string) bool {
	for _, id := range f.List(ctx) {
		if id == productID {
			return true
		}
	}
	return false
}

func (f *Favorites) Add(ctx context.Context, productID string) error {
	ids := f.List(ctx)
	for _, id := range ids {
		if id == productID {
			return nil
		}
	}
	return storage.SetJSON(ctx, f.Store, FavoritesKey, append(ids, productID))
}

func (f *Favorites) Remove(ctx context.Context, productID string) error {
	ids := f.List(ctx)
	out := ids[:0]
	for _, id := range ids {
		if id != productID {
			out = append(out, id)
		}
	}
	return storage.SetJSON(ctx, f.Store, FavoritesKey, out)
}

// Toggle flips membership and reports the new state.
func (f *Favorites) Toggle(ctx context.Context, productID string) (bool, error) {
	if f.Contains(ctx, productID) {
		return false, f.Remove(ctx, productID)
	}
	return true, f.Add(ctx, productID)
}

// Comparison is the persisted side-by-side comparison list. Unlike
// favorites it stores whole products so the page renders offline.
type Comparison struct {
	Store storage.Store
	Log   *slog.Logger
}

func (c *Comparison) List(ctx context.Context) []models.Product {
	var products []models.Product
	if err := storage.GetJSON(ctx, c.Store, ComparisonKey, &products); err != nil {
		if !errors.Is(err, storage.ErrNotFound) && c.Log != nil {
			c.Log.Warn("comparison list unreadable", "error", err)
		}
		return nil
	}
	return products
}

func (c *Comparison) Add(ctx context.Context, p models.Product) error {
	products := c.List(ctx)
	for _, existing := range products {
		if existing.ID == p.ID {
			return nil
		}
	}
	if len(products) >= ComparisonLimit {
		return ErrComparisonFull
	}
	return storage.SetJSON(ctx, c.Store, ComparisonKey, append(products, p))
}

func (c *Comparison) Remove(ctx context.Context, productID string) error {
	products := c.List(ctx)
	out := products[:0]
	for _, p := range products {
		if p.ID != productID {
			out = append(out, p)
		}
	}
	return storage.SetJSON(ctx, c.Store, ComparisonKey, out)
}

func (c *Comparison) Clear(ctx context.Context) error {
	return c.Store.Delete(ctx, ComparisonKey)
}

// Language returns the persisted UI language, defaulting to English.
func Language(ctx context.Context, s storage.Store) string {
	lang, err := s.Get(ctx, LanguageKey)
	if err != nil || (lang != "en" && lang != "ar") {
		return "en"
	}
	return lang
}

// SetLanguage persists the UI language; only "en" and "ar" are accepted.
func SetLanguage(ctx context.Context, s storage.Store, lang string) error {
	if lang != "en" && lang != "ar" {
		return errors.New("unsupported language: " + lang)
	}
	return s.Set(ctx, LanguageKey, lang)
}
