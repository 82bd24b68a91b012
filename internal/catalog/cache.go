package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rafalstore/storefront/internal/storage"
)

// DefaultTTL is how long cached catalog data stays servable.
const DefaultTTL = 10 * time.Minute

// cache layers an in-memory map over the persistent store so repeated
// reads within one process skip the store entirely. Both layers honor
// the same TTL against the injected clock.
type cache struct {
	store storage.Store
	log   *slog.Logger
	ttl   time.Duration
	now   func() time.Time

	mu  sync.Mutex
	mem map[string]memEntry
}

type memEntry struct {
	raw []byte
	at  time.Time
}

type persistedEntry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

func newCache(store storage.Store, log *slog.Logger, ttl time.Duration) *cache {
	if log == nil {
		log = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &cache{
		store: store,
		log:   log,
		ttl:   ttl,
		now:   time.Now,
		mem:   make(map[string]memEntry),
	}
}

// setTTL overrides the TTL. Call before first use.
func (c *cache) setTTL(ttl time.Duration) {
	if ttl > 0 {
		c.ttl = ttl
	}
}

// get loads key into out, returning false on miss or expiry. Expired
// persistent entries are removed so they are never served again.
func (c *cache) get(ctx context.Context, key string, out any) bool {
	c.mu.Lock()
	if e, ok := c.mem[key]; ok {
		if c.now().Sub(e.at) <= c.ttl {
			raw := e.raw
			c.mu.Unlock()
			return json.Unmarshal(raw, out) == nil
		}
		delete(c.mem, key)
	}
	c.mu.Unlock()

	var entry persistedEntry
	if err := storage.GetJSON(ctx, c.store, key, &entry); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.log.Warn("cache unreadable", "key", key, "error", err)
		}
		return false
	}
	if c.now().UnixMilli()-entry.Timestamp > c.ttl.Milliseconds() {
		if err := c.store.Delete(ctx, key); err != nil {
			c.log.Warn("expired cache entry not removed", "key", key, "error", err)
		}
		return false
	}
	return json.Unmarshal(entry.Data, out) == nil
}

func (c *cache) put(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("cache entry not encodable", "key", key, "error", err)
		return
	}

	c.mu.Lock()
	c.mem[key] = memEntry{raw: raw, at: c.now()}
	c.mu.Unlock()

	entry := persistedEntry{Data: raw, Timestamp: c.now().UnixMilli()}
	if err := storage.SetJSON(ctx, c.store, key, entry); err != nil {
		c.log.Warn("cache entry not persisted", "key", key, "error", err)
	}
}
