// Package cart is the single source of truth for cart state. It mediates
// all gateway calls and exposes a small request/success/failure/reset
// state machine to callers.
package cart

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rafalstore/storefront/internal/models"
	"github.com/rafalstore/storefront/internal/transport"
)

// RefreshThrottle is the default minimum spacing between cart refreshes.
// A refresh landing inside the window is a complete no-op.
const RefreshThrottle = 2 * time.Second

// Gateway is the slice of the remote cart gateway the store depends on.
type Gateway interface {
	FetchCart(ctx context.Context) (*models.Cart, error)
	AddItem(ctx context.Context, productID string, quantity, colorID int) (*models.Cart, error)
	RemoveItem(ctx context.Context, itemID string) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, itemID, productID string, quantity int) (*models.Cart, error)
	ClearCart(ctx context.Context) (*models.Cart, error)
}

// State is a point-in-time copy of the store's published state.
type State struct {
	Items         []models.CartItem
	CartID        string
	Total         decimal.Decimal
	ItemCount     int
	DeliveryFee   decimal.Decimal
	SessionKey    string
	Loading       bool
	Err           string
	LastRefreshed time.Time
}

// Store drives the cart state machine. All transitions happen under one
// mutex; gateway calls do not.
//
// Mutations with different dedup keys deliberately keep the original
// last-response-wins behavior: whichever HTTP response lands last sets the
// final state, even if it is staler than a concurrent one.
type Store struct {
	gw  Gateway
	log *slog.Logger
	now func() time.Time

	// Throttle is the minimum spacing between refreshes. Set it before
	// first use.
	Throttle time.Duration

	mu    sync.Mutex
	state State
}

func NewStore(gw Gateway, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{gw: gw, log: log, now: time.Now, Throttle: RefreshThrottle}
}

// --- transitions ---

func (s *Store) dispatchRequest() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = true
	s.state.Err = ""
}

func (s *Store) dispatchSuccess(cart *models.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	s.state.Err = ""
	s.state.Items = cart.Items
	s.state.CartID = cart.ID
	s.state.Total = cart.Total
	s.state.ItemCount = cart.ItemCount
	s.state.DeliveryFee = cart.DeliveryFee
	if cart.SessionKey != "" {
		s.state.SessionKey = cart.SessionKey
	}
	s.state.LastRefreshed = s.now()
}

func (s *Store) dispatchFailure(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	s.state.Err = msg
}

// dispatchReset is the terminal transition of a refresh that found no
// cart, so it also ends the loading it was dispatched under.
func (s *Store) dispatchReset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	s.state.Items = nil
	s.state.CartID = ""
	s.state.Total = decimal.Zero
	s.state.ItemCount = 0
	s.state.DeliveryFee = decimal.Zero
	s.state.LastRefreshed = s.now()
}

// --- operations ---

// RefreshCart syncs state from the server, throttled to one call per
// Throttle window.
func (s *Store) RefreshCart(ctx context.Context) error {
	s.mu.Lock()
	last := s.state.LastRefreshed
	s.mu.Unlock()
	if !last.IsZero() && s.now().Sub(last) < s.Throttle {
		s.log.Debug("skipping cart refresh", "since", s.now().Sub(last))
		return nil
	}

	s.dispatchRequest()
	cart, err := s.gw.FetchCart(ctx)
	if err != nil {
		s.log.Warn("cart refresh failed", "error", err)
		s.dispatchFailure(err.Error())
		return err
	}
	if cart == nil {
		s.dispatchReset()
		return nil
	}
	s.dispatchSuccess(cart)
	return nil
}

// Wake is the visibility-change analogue: callers invoke it when the
// application regains focus, and the throttle absorbs bursts.
func (s *Store) Wake(ctx context.Context) {
	_ = s.RefreshCart(ctx)
}

// AddToCart adds a product. Quantities below one are clamped to one. A
// placeholder line item is shown while the request is in flight; the
// server response replaces it on success, a failure removes it again.
func (s *Store) AddToCart(ctx context.Context, product models.Product, quantity, colorID int) error {
	if quantity < 1 {
		quantity = 1
	}

	placeholder := transport.PlaceholderItem(product, quantity, colorID)
	s.insertPlaceholder(placeholder)

	err := s.mutate(ctx, "add product to cart", func(ctx context.Context) (*models.Cart, error) {
		return s.gw.AddItem(ctx, product.ID, quantity, colorID)
	})
	if err != nil || s.Err() != "" {
		s.dropPlaceholder(placeholder.ID)
	}
	return err
}

func (s *Store) insertPlaceholder(item models.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Items = append(append([]models.CartItem(nil), s.state.Items...), item)
	s.state.ItemCount += item.Quantity
	s.state.Total = s.state.Total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
}

func (s *Store) dropPlaceholder(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]models.CartItem, 0, len(s.state.Items))
	for _, item := range s.state.Items {
		if item.ID == id {
			s.state.ItemCount -= item.Quantity
			s.state.Total = s.state.Total.Sub(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			continue
		}
		kept = append(kept, item)
	}
	s.state.Items = kept
}

// RemoveFromCart removes one line item.
func (s *Store) RemoveFromCart(ctx context.Context, itemID string) error {
	return s.mutate(ctx, "remove item from cart", func(ctx context.Context) (*models.Cart, error) {
		return s.gw.RemoveItem(ctx, itemID)
	})
}

// UpdateQuantity sets a line item's quantity; zero or below is a removal.
// The product id is resolved from current state before the gateway call.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, itemID)
	}

	s.mu.Lock()
	productID := ""
	for _, item := range s.state.Items {
		if item.ID == itemID {
			productID = item.ProductID
			break
		}
	}
	s.mu.Unlock()

	return s.mutate(ctx, "update item quantity", func(ctx context.Context) (*models.Cart, error) {
		return s.gw.UpdateQuantity(ctx, itemID, productID, quantity)
	})
}

// ClearCart empties the cart server-side; the cart identity persists.
func (s *Store) ClearCart(ctx context.Context) error {
	return s.mutate(ctx, "clear cart", func(ctx context.Context) (*models.Cart, error) {
		return s.gw.ClearCart(ctx)
	})
}

// mutate runs one gateway mutation through the state machine.
func (s *Store) mutate(ctx context.Context, what string, fn func(context.Context) (*models.Cart, error)) error {
	s.dispatchRequest()
	cart, err := fn(ctx)
	if err != nil {
		s.log.Warn("cart operation failed", "op", what, "error", err)
		s.dispatchFailure("failed to " + what)
		return err
	}
	if cart == nil {
		s.dispatchFailure("failed to " + what)
		return nil
	}
	s.dispatchSuccess(cart)
	return nil
}

// --- accessors ---

// Snapshot returns a copy of the current state; Items is copied so the
// caller can't alias the store's slice.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state
	out.Items = append([]models.CartItem(nil), s.state.Items...)
	return out
}

func (s *Store) Items() []models.CartItem {
	return s.Snapshot().Items
}

func (s *Store) CartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Total
}

func (s *Store) DeliveryFee() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.DeliveryFee
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Loading
}

func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Err
}
