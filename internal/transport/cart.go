package transport

import (
	"github.com/google/uuid"

	"github.com/rafalstore/storefront/internal/models"
)

// Accepted source spellings per cart attribute. Adding a new backend
// variant means adding it here, nowhere else.
var (
	cartIDAliases    = []string{"id", "cart_id"}
	cartTotalAliases = []string{"total", "total_price", "total_amount"}
	cartCountAliases = []string{"item_count", "items_count", "count"}

	itemIDAliases    = []string{"id", "cart_item_id"}
	itemNameAliases  = []string{"name", "product_name"}
	itemPriceAliases = []string{"price", "product_price"}
	itemImageAliases = []string{"image", "product_image"}
)

// NormalizeCart locates the cart payload inside any of the tolerated
// envelopes and maps it to the canonical model. A nil payload yields nil.
func NormalizeCart(baseURL string, data any) *models.Cart {
	cartData, ok := unwrapCart(data)
	if !ok {
		return nil
	}

	cart := &models.Cart{
		Items: normalizeItems(baseURL, cartData["items"]),
	}

	if v, ok := first(cartData, cartIDAliases...); ok {
		cart.ID = AsString(v)
	}
	if cart.ID == "" {
		cart.ID = "cart-" + uuid.NewString()
	}

	if v, ok := first(cartData, cartTotalAliases...); ok {
		cart.Total = ParsePrice(v)
	}
	if v, ok := first(cartData, cartCountAliases...); ok {
		cart.ItemCount = ParseInt(v, len(cart.Items))
	} else {
		cart.ItemCount = len(cart.Items)
	}
	if v, ok := cartData["delivery"]; ok && v != nil {
		cart.DeliveryFee = ParsePrice(v)
	}

	// The session key may sit on the cart object or beside it on the
	// envelope; either spelling can rebind the client's identity.
	if v, ok := cartData["session_key"]; ok && v != nil {
		cart.SessionKey = AsString(v)
	} else if outer, ok := asObject(data); ok {
		if v, ok := outer["session_key"]; ok && v != nil {
			cart.SessionKey = AsString(v)
		}
	}

	return cart
}

// unwrapCart probes the supported envelope nestings: bare object,
// {cart: …}, {data: {cart: …}}, or the first element of an array.
func unwrapCart(data any) (map[string]any, bool) {
	switch d := data.(type) {
	case nil:
		return nil, false
	case []any:
		if len(d) == 0 {
			return nil, false
		}
		return asObject(d[0])
	case map[string]any:
		if inner, ok := asObject(d["cart"]); ok {
			return inner, true
		}
		if wrapper, ok := asObject(d["data"]); ok {
			if inner, ok := asObject(wrapper["cart"]); ok {
				return inner, true
			}
		}
		return d, true
	default:
		return nil, false
	}
}

func normalizeItems(baseURL string, raw any) []models.CartItem {
	var entries []any
	switch v := raw.(type) {
	case []any:
		entries = v
	case map[string]any:
		// Some responses key items by line id instead of listing them.
		for _, e := range v {
			entries = append(entries, e)
		}
	default:
		return []models.CartItem{}
	}

	items := make([]models.CartItem, 0, len(entries))
	for _, e := range entries {
		m, ok := asObject(e)
		if !ok {
			continue
		}
		items = append(items, normalizeItem(baseURL, m))
	}
	return items
}

func normalizeItem(baseURL string, m map[string]any) models.CartItem {
	item := models.CartItem{Quantity: 1}

	if v, ok := first(m, itemIDAliases...); ok {
		item.ID = AsString(v)
	}
	if item.ID == "" {
		item.ID = "item-" + uuid.NewString()
	}

	if v, ok := m["product_id"]; ok && v != nil {
		item.ProductID = AsString(v)
	} else if v, ok := nested(m, "product", "id"); ok {
		item.ProductID = AsString(v)
	}

	if v, ok := first(m, itemNameAliases...); ok {
		item.Name = AsString(v)
	} else if v, ok := nested(m, "product", "name"); ok {
		item.Name = AsString(v)
	}
	if item.Name == "" {
		item.Name = "Unnamed Product"
	}

	if v, ok := first(m, itemPriceAliases...); ok {
		item.Price = ParsePrice(v)
	} else if v, ok := nested(m, "product", "price"); ok {
		item.Price = ParsePrice(v)
	}

	if v, ok := m["quantity"]; ok {
		item.Quantity = ParseInt(v, 1)
	}

	if v, ok := first(m, itemImageAliases...); ok {
		item.Image = NormalizeImageURL(baseURL, v)
	} else if v, ok := nested(m, "product", "image"); ok {
		item.Image = NormalizeImageURL(baseURL, v)
	}

	if v, ok := m["color_id"]; ok && v != nil {
		item.ColorID = ParseInt(v, 0)
	} else if v, ok := nested(m, "color", "id"); ok {
		item.ColorID = ParseInt(v, 0)
	}
	if v, ok := m["color_name"]; ok && v != nil {
		item.ColorName = AsString(v)
	} else if v, ok := nested(m, "color", "name"); ok {
		item.ColorName = AsString(v)
	}
	if v, ok := m["color_hex"]; ok && v != nil {
		item.ColorHex = AsString(v)
	} else if v, ok := nested(m, "color", "hex_value"); ok {
		item.ColorHex = AsString(v)
	}

	return item
}

// PlaceholderItem builds the optimistic line item shown before the server
// confirms an add. The id is local-only and replaced by the server's.
func PlaceholderItem(p models.Product, quantity, colorID int) models.CartItem {
	item := models.CartItem{
		ID:        "temp-" + p.ID + "-" + uuid.NewString(),
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  quantity,
		Image:     p.Image,
	}
	if colorID != 0 {
		for _, c := range p.Colors {
			if c.ID == colorID {
				item.ColorID = c.ID
				item.ColorHex = c.Hex
				item.ColorName = ColorName(c.Hex)
				break
			}
		}
	}
	return item
}
