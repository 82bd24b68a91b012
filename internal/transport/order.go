package transport

import "github.com/rafalstore/storefront/internal/models"

var (
	orderIDAliases     = []string{"id", "order_number", "order_id"}
	orderStatusAliases = []string{"status", "order_status"}
	orderTotalAliases  = []string{"total", "total_price", "total_amount"}
)

// NormalizeOrder maps one order object to the canonical model.
func NormalizeOrder(data any) *models.Order {
	m, ok := asObject(data)
	if !ok {
		return nil
	}
	if inner, ok := asObject(m["order"]); ok {
		m = inner
	}

	order := &models.Order{}
	if v, ok := first(m, orderIDAliases...); ok {
		order.ID = AsString(v)
	}
	if v, ok := first(m, orderStatusAliases...); ok {
		order.Status = AsString(v)
	}
	if v, ok := first(m, orderTotalAliases...); ok {
		order.Total = ParsePrice(v)
	}
	if v, ok := m["delivery"]; ok && v != nil {
		order.DeliveryFee = ParsePrice(v)
	}
	if v, ok := first(m, "created_at", "created"); ok {
		order.CreatedAt = AsString(v)
	}

	if entries, ok := m["items"].([]any); ok {
		for _, e := range entries {
			im, ok := asObject(e)
			if !ok {
				continue
			}
			item := models.OrderItem{Quantity: 1}
			if v, ok := im["product_id"]; ok && v != nil {
				item.ProductID = AsString(v)
			} else if v, ok := nested(im, "product", "id"); ok {
				item.ProductID = AsString(v)
			}
			if v, ok := first(im, "name", "product_name"); ok {
				item.Name = AsString(v)
			}
			if v, ok := first(im, "price", "product_price"); ok {
				item.Price = ParsePrice(v)
			}
			if v, ok := im["quantity"]; ok {
				item.Quantity = ParseInt(v, 1)
			}
			order.Items = append(order.Items, item)
		}
	}
	return order
}

// NormalizeOrders maps an order-history response, tolerating both a bare
// array and a results envelope.
func NormalizeOrders(data any) []models.Order {
	var entries []any
	switch v := data.(type) {
	case []any:
		entries = v
	case map[string]any:
		if r, ok := v["results"].([]any); ok {
			entries = r
		} else if r, ok := v["orders"].([]any); ok {
			entries = r
		} else if r, ok := v["data"].([]any); ok {
			entries = r
		}
	}
	out := make([]models.Order, 0, len(entries))
	for _, e := range entries {
		if o := NormalizeOrder(e); o != nil {
			out = append(out, *o)
		}
	}
	return out
}
