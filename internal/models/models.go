package models

import "github.com/shopspring/decimal"

// CartItem is one line of a cart. Its identity is the server-assigned
// line-item id, not the product id; the same product with a different
// color selection is a different line.
type CartItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
	ColorID   int             `json:"color_id,omitempty"`
	ColorName string          `json:"color_name,omitempty"`
	ColorHex  string          `json:"color_hex,omitempty"`
}

// Cart is the canonical post-normalization cart. Total, ItemCount and
// DeliveryFee are server-sourced and never recomputed locally.
type Cart struct {
	ID          string          `json:"id"`
	Items       []CartItem      `json:"items"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   int             `json:"item_count"`
	DeliveryFee decimal.Decimal `json:"delivery"`
	SessionKey  string          `json:"session_key,omitempty"`
}

// ProductColor is a variant option of a product.
type ProductColor struct {
	ID       int             `json:"id"`
	Hex      string          `json:"hex_value"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	OldPrice decimal.Decimal `json:"old_price,omitempty"`
	Images   []string        `json:"images,omitempty"`
}

// Product is read-only from the client's perspective.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"original_price,omitempty"`
	Image         string          `json:"image"`
	Images        []string        `json:"images,omitempty"`
	Category      string          `json:"category"`
	CategoryID    string          `json:"category_id,omitempty"`
	Rating        float64         `json:"rating"`
	Reviews       int             `json:"reviews"`
	InStock       bool            `json:"in_stock"`
	IsOffer       bool            `json:"is_offer"`
	IsBestSeller  bool            `json:"is_best_seller"`
	Colors        []ProductColor  `json:"color,omitempty"`
}

// ProductPage is one page of a paginated product listing.
type ProductPage struct {
	Count    int       `json:"count"`
	Next     string    `json:"next,omitempty"`
	Previous string    `json:"previous,omitempty"`
	Results  []Product `json:"results"`
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	WallImage   string `json:"wall_image,omitempty"`
	Active      bool   `json:"is_active"`
	Order       int    `json:"order"`
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
}

type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type Order struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	Items       []OrderItem     `json:"items"`
	Total       decimal.Decimal `json:"total"`
	DeliveryFee decimal.Decimal `json:"delivery"`
	CreatedAt   string          `json:"created_at,omitempty"`
}
