package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rafalstore/storefront/internal/models"
	"github.com/rafalstore/storefront/internal/session"
	"github.com/rafalstore/storefront/internal/storage"
	"github.com/rafalstore/storefront/internal/transport"
)

const (
	// CartIDKey is where the server-assigned cart id is persisted.
	CartIDKey    = "rafal_cart_id"
	cartCacheKey = "rafal_cart_cache"

	DefaultCartCacheTTL = 30 * time.Minute
)

// cachedSnapshot is the persisted last-known-good cart.
type cachedSnapshot struct {
	Cart      *models.Cart `json:"cart"`
	Timestamp int64        `json:"timestamp"`
}

// CartGateway performs all cart network I/O. For a given operation key at
// most one HTTP call is in flight; concurrent identical callers share its
// outcome.
type CartGateway struct {
	BaseURL string
	Store   storage.Store
	Session *session.Provider
	Log     *slog.Logger

	Timeout      time.Duration
	ProbeTimeout time.Duration
	CacheTTL     time.Duration
	Now          func() time.Time

	http *http.Client
	sf   singleflight.Group
}

func NewCartGateway(baseURL string, store storage.Store, sess *session.Provider, log *slog.Logger) *CartGateway {
	if log == nil {
		log = slog.Default()
	}
	return &CartGateway{
		BaseURL:      baseURL,
		Store:        store,
		Session:      sess,
		Log:          log,
		Timeout:      DefaultCartTimeout,
		ProbeTimeout: DefaultProbeTimeout,
		CacheTTL:     DefaultCartCacheTTL,
		Now:          time.Now,
		http:         newHTTPClient(),
	}
}

// FetchCart loads the cart for the current session key. On failure it
// serves the cached snapshot when one is still within its TTL, otherwise
// the error surfaces.
func (g *CartGateway) FetchCart(ctx context.Context) (*models.Cart, error) {
	cart, err := g.flight(ctx, "get-cart", func(ctx context.Context) (*models.Cart, error) {
		key := g.Session.GetOrCreate(ctx)
		u := g.BaseURL + "/cart/?session_key=" + url.QueryEscape(key)
		data, err := doJSON(ctx, g.http, http.MethodGet, u, nil, g.Timeout)
		if err != nil {
			return nil, fmt.Errorf("get cart: %w", err)
		}
		return g.absorb(ctx, data), nil
	})
	if err != nil {
		if cached := g.cachedCart(ctx); cached != nil {
			g.Log.Warn("cart fetch failed, serving cached snapshot", "error", err)
			return cached, nil
		}
		return nil, err
	}
	return cart, nil
}

// AddItem adds quantity of a product, optionally with a color variant.
func (g *CartGateway) AddItem(ctx context.Context, productID string, quantity, colorID int) (*models.Cart, error) {
	if quantity < 1 {
		quantity = 1
	}
	key := fmt.Sprintf("add-%s-%d-%d", productID, quantity, colorID)
	return g.flight(ctx, key, func(ctx context.Context) (*models.Cart, error) {
		body := map[string]any{
			"quantity":    quantity,
			"session_key": g.Session.GetOrCreate(ctx),
		}
		if colorID != 0 {
			body["color_id"] = colorID
		}
		u := fmt.Sprintf("%s/cart/add-to-cart/%s/", g.BaseURL, url.PathEscape(productID))
		data, err := doJSON(ctx, g.http, http.MethodPost, u, body, g.Timeout)
		if err != nil {
			return nil, fmt.Errorf("add to cart: %w", err)
		}
		return g.absorb(ctx, data), nil
	})
}

// RemoveItem deletes one line item by its id.
func (g *CartGateway) RemoveItem(ctx context.Context, itemID string) (*models.Cart, error) {
	return g.flight(ctx, "remove-"+itemID, func(ctx context.Context) (*models.Cart, error) {
		body := map[string]any{"cartitem_id": wireID(itemID)}
		data, err := doJSON(ctx, g.http, http.MethodDelete, g.cartURL(ctx, ""), body, g.Timeout)
		if err != nil {
			return nil, fmt.Errorf("remove from cart: %w", err)
		}
		return g.absorb(ctx, data), nil
	})
}

// UpdateQuantity sets a line item's quantity. The product id is threaded
// from the caller's state; when empty it is resolved from the cached
// snapshot as a fallback.
func (g *CartGateway) UpdateQuantity(ctx context.Context, itemID, productID string, quantity int) (*models.Cart, error) {
	key := fmt.Sprintf("update-%s-%d", itemID, quantity)
	return g.flight(ctx, key, func(ctx context.Context) (*models.Cart, error) {
		if productID == "" {
			productID = g.productIDFromCache(ctx, itemID)
		}
		if productID == "" {
			g.Log.Warn("no product id resolved for cart item", "item_id", itemID)
		}
		body := map[string]any{
			"product_id": wireID(productID),
			"quantity":   quantity,
		}
		data, err := doJSON(ctx, g.http, http.MethodPatch, g.cartURL(ctx, ""), body, g.Timeout)
		if err != nil {
			return nil, fmt.Errorf("update cart item: %w", err)
		}
		return g.absorb(ctx, data), nil
	})
}

// ClearCart empties the cart; the cart identity survives.
func (g *CartGateway) ClearCart(ctx context.Context) (*models.Cart, error) {
	return g.flight(ctx, "clear-cart", func(ctx context.Context) (*models.Cart, error) {
		data, err := doJSON(ctx, g.http, http.MethodPost, g.cartURL(ctx, "clear/"), nil, g.Timeout)
		if err != nil {
			return nil, fmt.Errorf("clear cart: %w", err)
		}
		return g.absorb(ctx, data), nil
	})
}

// ConnectionStatus is the result of a connectivity probe.
type ConnectionStatus struct {
	Success bool
	Message string
}

// TestConnection probes the cart endpoint. Diagnostics only; not part of
// the cart's correctness contract.
func (g *CartGateway) TestConnection(ctx context.Context) ConnectionStatus {
	key := g.Session.GetOrCreate(ctx)
	u := g.BaseURL + "/cart/?session_key=" + url.QueryEscape(key)
	if _, err := doJSON(ctx, g.http, http.MethodGet, u, nil, g.ProbeTimeout); err != nil {
		msg := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			msg = "connection timeout"
		}
		return ConnectionStatus{Success: false, Message: msg}
	}
	return ConnectionStatus{Success: true, Message: "cart API connection successful"}
}

// flight collapses concurrent calls with the same key into one HTTP call.
// The pending entry is cleared when the call settles, success or failure.
func (g *CartGateway) flight(ctx context.Context, key string, fn func(context.Context) (*models.Cart, error)) (*models.Cart, error) {
	v, err, shared := g.sf.Do(key, func() (any, error) {
		return fn(ctx)
	})
	if shared {
		g.Log.Debug("reused in-flight cart request", "key", key)
	}
	if err != nil {
		return nil, err
	}
	cart, _ := v.(*models.Cart)
	return cart, nil
}

// absorb normalizes a response and applies its side effects: snapshot
// cache, session rebind, cart id persistence.
func (g *CartGateway) absorb(ctx context.Context, data any) *models.Cart {
	cart := transport.NormalizeCart(g.BaseURL, data)
	if cart == nil {
		return nil
	}
	g.cacheCart(ctx, cart)
	if cart.SessionKey != "" {
		g.Session.Rebind(ctx, cart.SessionKey)
	}
	if cart.ID != "" {
		if err := g.Store.Set(ctx, CartIDKey, cart.ID); err != nil {
			g.Log.Warn("cart id not persisted", "error", err)
		}
	}
	return cart
}

func (g *CartGateway) cartURL(ctx context.Context, suffix string) string {
	cartID, err := g.Store.Get(ctx, CartIDKey)
	if err != nil {
		cartID = ""
	}
	key := g.Session.GetOrCreate(ctx)
	return fmt.Sprintf("%s/cart/%s/%s?session_key=%s", g.BaseURL, url.PathEscape(cartID), suffix, url.QueryEscape(key))
}

func (g *CartGateway) cacheCart(ctx context.Context, cart *models.Cart) {
	snap := cachedSnapshot{Cart: cart, Timestamp: g.Now().UnixMilli()}
	if err := storage.SetJSON(ctx, g.Store, cartCacheKey, snap); err != nil {
		g.Log.Warn("cart snapshot not cached", "error", err)
	}
}

// cachedCart returns the persisted snapshot when within its TTL; expired
// entries are removed and never served.
func (g *CartGateway) cachedCart(ctx context.Context) *models.Cart {
	var snap cachedSnapshot
	if err := storage.GetJSON(ctx, g.Store, cartCacheKey, &snap); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			g.Log.Warn("cart cache unreadable", "error", err)
		}
		return nil
	}
	if g.Now().UnixMilli()-snap.Timestamp > g.CacheTTL.Milliseconds() {
		if err := g.Store.Delete(ctx, cartCacheKey); err != nil {
			g.Log.Warn("expired cart cache not removed", "error", err)
		}
		return nil
	}
	return snap.Cart
}

func (g *CartGateway) productIDFromCache(ctx context.Context, itemID string) string {
	cached := g.cachedCart(ctx)
	if cached == nil {
		return ""
	}
	for _, item := range cached.Items {
		if item.ID == itemID {
			return item.ProductID
		}
	}
	return ""
}
