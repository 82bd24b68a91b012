package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rafalstore/storefront/internal/account"
	"github.com/rafalstore/storefront/internal/models"
	"github.com/rafalstore/storefront/internal/storage"
	"github.com/rafalstore/storefront/internal/transport"
)

var ErrAuthFailed = errors.New("authentication failed")

// AuthClient logs users in and out. The auth token it persists is kept
// entirely separate from the cart session key.
type AuthClient struct {
	BaseURL string
	Store   storage.Store
	Log     *slog.Logger
	Timeout time.Duration

	http *http.Client
}

func NewAuthClient(baseURL string, store storage.Store, log *slog.Logger) *AuthClient {
	if log == nil {
		log = slog.Default()
	}
	return &AuthClient{
		BaseURL: baseURL,
		Store:   store,
		Log:     log,
		Timeout: DefaultCartTimeout,
		http:    newHTTPClient(),
	}
}

// Login exchanges phone+password for a token and persists the resulting
// user record and token.
func (c *AuthClient) Login(ctx context.Context, phone, password string) (*models.User, error) {
	body := map[string]any{"phone": phone, "password": password}
	data, err := doJSON(ctx, c.http, http.MethodPost, c.BaseURL+"/api/login/", body, c.Timeout)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	m, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("login: unexpected response shape: %w", ErrAuthFailed)
	}

	token := firstString(m, "token", "access", "access_token")
	if token == "" {
		return nil, fmt.Errorf("login: no token in response: %w", ErrAuthFailed)
	}

	user := normalizeUser(m)
	if user.Phone == "" {
		user.Phone = phone
	}

	if err := storage.SetJSON(ctx, c.Store, account.UserKey, user); err != nil {
		c.Log.Warn("user record not persisted", "error", err)
	}
	if err := c.Store.Set(ctx, account.TokenKey, token); err != nil {
		c.Log.Warn("auth token not persisted", "error", err)
	}
	return &user, nil
}

// Register creates an account and then logs it in; registration succeeds
// by invoking login, mirroring the server's contract.
func (c *AuthClient) Register(ctx context.Context, username, phone, password string) (*models.User, error) {
	body := map[string]any{"username": username, "phone": phone, "password": password}
	if _, err := doJSON(ctx, c.http, http.MethodPost, c.BaseURL+"/api/register/", body, c.Timeout); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return c.Login(ctx, phone, password)
}

func normalizeUser(m map[string]any) models.User {
	if inner, ok := m["user"].(map[string]any); ok {
		m = inner
	}
	return models.User{
		ID:       transport.AsString(m["id"]),
		Username: firstString(m, "username", "name"),
		Phone:    transport.AsString(m["phone"]),
		Email:    transport.AsString(m["email"]),
	}
}

func firstString(m map[string]any, aliases ...string) string {
	for _, a := range aliases {
		if s := transport.AsString(m[a]); s != "" {
			return s
		}
	}
	return ""
}
