package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/rafalstore/storefront/internal/models"
)

// FallbackProducts is the bundled static catalog served when the API is
// unreachable and nothing is cached. Prices match the live catalog at
// the time of bundling.
func FallbackProducts() []models.Product {
	return []models.Product{
		{
			ID:           "fallback-1",
			Name:         "RAFAL Professional Hair Dryer",
			Description:  "2200W ionic hair dryer with three heat settings.",
			Price:        decimal.NewFromInt(1600),
			Image:        "/static/products/hair-dryer.jpg",
			Category:     "Personal Care",
			CategoryID:   "fallback-cat-1",
			Rating:       4.5,
			Reviews:      120,
			InStock:      true,
			IsBestSeller: true,
		},
		{
			ID:            "fallback-2",
			Name:          "RAFAL Stand Mixer 1000W",
			Description:   "Stand mixer with 5L stainless steel bowl.",
			Price:         decimal.NewFromInt(2450),
			OriginalPrice: decimal.NewFromInt(2900),
			Image:         "/static/products/stand-mixer.jpg",
			Category:      "Kitchen Appliances",
			CategoryID:    "fallback-cat-2",
			Rating:        4.7,
			Reviews:       86,
			InStock:       true,
			IsOffer:       true,
		},
		{
			ID:         "fallback-3",
			Name:       "RAFAL Electric Kettle 1.7L",
			Price:      decimal.NewFromInt(350),
			Image:      "/static/products/kettle.jpg",
			Category:   "Kitchen Appliances",
			CategoryID: "fallback-cat-2",
			Rating:     4.2,
			Reviews:    201,
			InStock:    true,
		},
		{
			ID:           "fallback-4",
			Name:         "RAFAL Vacuum Cleaner 1800W",
			Price:        decimal.NewFromInt(1150),
			Image:        "/static/products/vacuum.jpg",
			Category:     "Home Appliances",
			CategoryID:   "fallback-cat-3",
			Rating:       4.4,
			Reviews:      64,
			InStock:      true,
			IsBestSeller: true,
		},
		{
			ID:            "fallback-5",
			Name:          "RAFAL Air Fryer 5.5L",
			Price:         decimal.NewFromInt(980),
			OriginalPrice: decimal.NewFromInt(1200),
			Image:         "/static/products/air-fryer.jpg",
			Category:      "Kitchen Appliances",
			CategoryID:    "fallback-cat-2",
			Rating:        4.8,
			Reviews:       155,
			InStock:       true,
			IsOffer:       true,
		},
		{
			ID:         "fallback-6",
			Name:       "RAFAL Steam Iron 2400W",
			Price:      decimal.NewFromInt(420),
			Image:      "/static/products/iron.jpg",
			Category:   "Home Appliances",
			CategoryID: "fallback-cat-3",
			Rating:     4.1,
			Reviews:    47,
			InStock:    true,
		},
	}
}

// FallbackCategories mirrors the category ids used by FallbackProducts.
func FallbackCategories() []models.Category {
	return []models.Category{
		{ID: "fallback-cat-1", Name: "Personal Care", Active: true, Order: 1},
		{ID: "fallback-cat-2", Name: "Kitchen Appliances", Active: true, Order: 2},
		{ID: "fallback-cat-3", Name: "Home Appliances", Active: true, Order: 3},
	}
}

func fallbackPage() models.ProductPage {
	products := FallbackProducts()
	return models.ProductPage{Count: len(products), Results: products}
}

func fallbackPageFiltered(keep func(models.Product) bool) models.ProductPage {
	products := filterFallback(keep)
	return models.ProductPage{Count: len(products), Results: products}
}

func filterFallback(keep func(models.Product) bool) []models.Product {
	var out []models.Product
	for _, p := range FallbackProducts() {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
