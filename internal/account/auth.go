// Package account holds the shopper-local state that survives restarts:
// the logged-in user record and token, favorites, the comparison list and
// the language preference.
package account

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rafalstore/storefront/internal/models"
	"github.com/rafalstore/storefront/internal/storage"
)

const (
	UserKey  = "rafal_user"
	TokenKey = "rafal_auth_token"
)

// Manager exposes the persisted authentication state. It never talks to
// the network; the gateway's AuthClient writes what Manager reads.
type Manager struct {
	Store storage.Store
	Log   *slog.Logger
	Now   func() time.Time
}

func NewManager(store storage.Store, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{Store: store, Log: log, Now: time.Now}
}

// CurrentUser returns the persisted user record, or nil when logged out.
func (m *Manager) CurrentUser(ctx context.Context) *models.User {
	var user models.User
	if err := storage.GetJSON(ctx, m.Store, UserKey, &user); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			m.Log.Warn("user record unreadable", "error", err)
		}
		return nil
	}
	return &user
}

// Token returns the persisted auth token, empty when absent.
func (m *Manager) Token(ctx context.Context) string {
	token, err := m.Store.Get(ctx, TokenKey)
	if err != nil {
		return ""
	}
	return token
}

// IsAuthenticated reports whether a token is present and, when the token
// is a parseable JWT with an exp claim, not yet expired. Opaque tokens
// are taken at face value.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	token := m.Token(ctx)
	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.After(m.Now())
}

// Logout removes the user record and token. The cart session key is not
// touched; an anonymous cart outlives a login.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.Store.Delete(ctx, UserKey); err != nil {
		m.Log.Warn("user record not removed", "error", err)
	}
	if err := m.Store.Delete(ctx, TokenKey); err != nil {
		m.Log.Warn("auth token not removed", "error", err)
	}
}
