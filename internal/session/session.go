// Package session issues the client-generated key that correlates an
// anonymous shopper's cart across requests. The key is a correlation
// token, not a credential; auth tokens live in the account package.
package session

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"

	"github.com/rafalstore/storefront/internal/storage"
)

// StorageKey is where the session key is persisted.
const StorageKey = "rafal_cart_session_key"

const template = "xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx"

// Provider hands out the persisted session key, generating it on first
// use. When storage is unavailable the key degrades to in-memory for the
// life of the process.
type Provider struct {
	store storage.Store
	log   *slog.Logger

	mu     sync.Mutex
	memKey string
}

func New(store storage.Store, log *slog.Logger) *Provider {
	if log == nil {
		log = slog.Default()
	}
	return &Provider{store: store, log: log}
}

// GetOrCreate returns the stored session key, generating and persisting a
// new one when none exists yet.
func (p *Provider) GetOrCreate(ctx context.Context) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if key, err := p.store.Get(ctx, StorageKey); err == nil && key != "" {
		return key
	}
	if p.memKey != "" {
		return p.memKey
	}

	key := generate()
	if err := p.store.Set(ctx, StorageKey, key); err != nil {
		p.log.Warn("session key not persisted, keeping in memory", "error", err)
		p.memKey = key
		return key
	}
	p.log.Debug("generated new cart session key")
	return key
}

// Rebind replaces the stored key with one echoed back by the server.
func (p *Provider) Rebind(ctx context.Context, key string) {
	if key == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.store.Set(ctx, StorageKey, key); err != nil {
		p.log.Warn("session key rebind not persisted", "error", err)
		p.memKey = key
		return
	}
	p.memKey = ""
}

// generate builds a UUID-v4-shaped token: every x is a random hex nibble,
// the y nibble has its two high bits forced to 10.
func generate() string {
	var b strings.Builder
	b.Grow(len(template))
	for _, c := range template {
		switch c {
		case 'x':
			b.WriteByte(hexDigit(rand.Intn(16)))
		case 'y':
			b.WriteByte(hexDigit(rand.Intn(16)&0x3 | 0x8))
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

func hexDigit(n int) byte {
	const digits = "0123456789abcdef"
	return digits[n]
}
