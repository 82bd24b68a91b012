package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/rafalstore/storefront/internal/account"
	"github.com/rafalstore/storefront/internal/models"
	"github.com/rafalstore/storefront/internal/session"
	"github.com/rafalstore/storefront/internal/storage"
	"github.com/rafalstore/storefront/internal/transport"
)

// OrderLine references a product within a checkout request.
type OrderLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	ColorHex  string `json:"color_hex,omitempty"`
}

// CheckoutRequest submits the current cart as an order.
type CheckoutRequest struct {
	FirstName     string      `json:"first_name"`
	SecondName    string      `json:"second_name"`
	Email         string      `json:"email"`
	Phone         string      `json:"phone"`
	Country       string      `json:"country"`
	City          string      `json:"city"`
	Region        string      `json:"region"`
	Address       string      `json:"address"`
	Apartment     string      `json:"apartment,omitempty"`
	ShippingAddr  string      `json:"shipping_address"`
	PaymentMethod string      `json:"payment_method"`
	Items         []OrderLine `json:"items"`
	SessionKey    string      `json:"session_key,omitempty"`
}

// DirectBuyRequest orders a single product without touching the cart.
type DirectBuyRequest struct {
	FirstName     string `json:"first_name"`
	SecondName    string `json:"second_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Country       string `json:"country"`
	City          string `json:"city"`
	Region        string `json:"region"`
	Address       string `json:"address"`
	Apartment     string `json:"apartment,omitempty"`
	ProductID     string `json:"product_id"`
	Quantity      int    `json:"quantity"`
	ColorHex      string `json:"color_hex"`
	ShippingAddr  string `json:"shipping_address"`
	PaymentMethod string `json:"payment_method"`
}

// OrdersClient submits and reads orders. History calls carry the bearer
// token of the logged-in user.
type OrdersClient struct {
	BaseURL string
	Store   storage.Store
	Session *session.Provider
	Log     *slog.Logger
	Timeout time.Duration

	http *http.Client
}

func NewOrdersClient(baseURL string, store storage.Store, sess *session.Provider, log *slog.Logger) *OrdersClient {
	if log == nil {
		log = slog.Default()
	}
	return &OrdersClient{
		BaseURL: baseURL,
		Store:   store,
		Session: sess,
		Log:     log,
		Timeout: DefaultListTimeout,
		http:    newHTTPClient(),
	}
}

// normalizePhone strips whitespace and leading zeros, matching what the
// order endpoint expects.
func normalizePhone(phone string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, phone)
	return strings.TrimLeft(stripped, "0")
}

// Checkout submits the cart identified by the session key as an order.
func (c *OrdersClient) Checkout(ctx context.Context, req CheckoutRequest) (*models.Order, error) {
	req.Phone = normalizePhone(req.Phone)
	if req.SessionKey == "" {
		req.SessionKey = c.Session.GetOrCreate(ctx)
	}
	data, err := c.doAuthed(ctx, http.MethodPost, c.BaseURL+"/api/orders/checkout/", req)
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}
	return transport.NormalizeOrder(data), nil
}

// DirectBuy orders one product immediately.
func (c *OrdersClient) DirectBuy(ctx context.Context, req DirectBuyRequest) (*models.Order, error) {
	req.Phone = normalizePhone(req.Phone)
	if req.Quantity < 1 {
		req.Quantity = 1
	}
	if req.ColorHex == "" {
		req.ColorHex = "#000000"
	}
	data, err := c.doAuthed(ctx, http.MethodPost, c.BaseURL+"/api/orders/checkout_now/", req)
	if err != nil {
		return nil, fmt.Errorf("direct buy: %w", err)
	}
	return transport.NormalizeOrder(data), nil
}

// History lists the logged-in user's past orders.
func (c *OrdersClient) History(ctx context.Context) ([]models.Order, error) {
	data, err := c.doAuthed(ctx, http.MethodGet, c.BaseURL+"/api/orders/history/", nil)
	if err != nil {
		return nil, fmt.Errorf("order history: %w", err)
	}
	return transport.NormalizeOrders(data), nil
}

// Details fetches one order by id.
func (c *OrdersClient) Details(ctx context.Context, orderID string) (*models.Order, error) {
	u := c.BaseURL + "/api/orders/history/" + url.PathEscape(orderID) + "/"
	data, err := c.doAuthed(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("order details: %w", err)
	}
	return transport.NormalizeOrder(data), nil
}

// doAuthed mirrors doJSON but attaches the persisted bearer token when
// one exists.
func (c *OrdersClient) doAuthed(ctx context.Context, method, u string, body any) (any, error) {
	token, err := c.Store.Get(ctx, account.TokenKey)
	if err != nil {
		token = ""
	}
	return doJSONAuth(ctx, c.http, method, u, body, c.Timeout, token)
}
