package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafalstore/storefront/internal/session"
	"github.com/rafalstore/storefront/internal/storage"
)

const cartBody = `{
	"cart": {
		"id": 42,
		"session_key": "11111111-2222-4333-8444-555555555555",
		"items": [
			{"id": 9, "product": {"id": 3, "name": "Hair Dryer", "price": "1600.00"}, "quantity": 1}
		],
		"total_price": "1600.00",
		"items_count": 1,
		"delivery": 0
	}
}`

func newGateway(t *testing.T, handler http.HandlerFunc) (*CartGateway, storage.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := storage.NewMemory()
	return NewCartGateway(srv.URL, store, session.New(store, nil), nil), store
}

func TestFetchCartNormalizesAndPersists(t *testing.T) {
	g, store := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("session_key"))
		w.Write([]byte(cartBody))
	})
	ctx := context.Background()

	cart, err := g.FetchCart(ctx)
	require.NoError(t, err)
	require.NotNil(t, cart)
	assert.Equal(t, "42", cart.ID)
	assert.Equal(t, "1600", cart.Total.String())
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "3", cart.Items[0].ProductID)

	id, err := store.Get(ctx, CartIDKey)
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	key, err := store.Get(ctx, session.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, "11111111-2222-4333-8444-555555555555", key, "session key should rebind to the server's")
}

func TestConcurrentFetchesShareOneRequest(t *testing.T) {
	var hits atomic.Int64
	release := make(chan struct{})
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Write([]byte(cartBody))
	})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cart, err := g.FetchCart(ctx)
			assert.NoError(t, err)
			assert.NotNil(t, cart)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), hits.Load(), "identical concurrent fetches should collapse to one call")
}

func TestConcurrentAddsShareOneRequest(t *testing.T) {
	var hits atomic.Int64
	release := make(chan struct{})
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Write([]byte(cartBody))
	})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.AddItem(ctx, "3", 1, 0)
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), hits.Load())
}

func TestFetchCartServesCacheOnFailure(t *testing.T) {
	var fail atomic.Bool
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(cartBody))
	})
	ctx := context.Background()

	_, err := g.FetchCart(ctx)
	require.NoError(t, err)

	fail.Store(true)
	cart, err := g.FetchCart(ctx)
	require.NoError(t, err, "failure within the TTL should serve the snapshot")
	assert.Equal(t, "42", cart.ID)
}

func TestFetchCartCacheExpires(t *testing.T) {
	var fail atomic.Bool
	g, store := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(cartBody))
	})
	ctx := context.Background()

	now := time.Now()
	g.Now = func() time.Time { return now }

	_, err := g.FetchCart(ctx)
	require.NoError(t, err)

	fail.Store(true)
	now = now.Add(g.CacheTTL + time.Minute)
	_, err = g.FetchCart(ctx)
	assert.Error(t, err, "an expired snapshot must not be served")

	_, err = store.Get(ctx, "rafal_cart_cache")
	assert.ErrorIs(t, err, storage.ErrNotFound, "expired snapshot should be deleted")
}

func TestAddItemSendsBody(t *testing.T) {
	var got map[string]any
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			assert.Equal(t, "/cart/add-to-cart/3/", r.URL.Path)
		}
		w.Write([]byte(cartBody))
	})

	_, err := g.AddItem(context.Background(), "3", 0, 5)
	require.NoError(t, err)
	assert.Equal(t, float64(1), got["quantity"], "quantity below 1 should clamp")
	assert.Equal(t, float64(5), got["color_id"])
	assert.NotEmpty(t, got["session_key"])
}

func TestRemoveItemUsesCartURL(t *testing.T) {
	g, store := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			assert.Equal(t, "/cart/42/", r.URL.Path)
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, float64(9), body["cartitem_id"])
		}
		w.Write([]byte(cartBody))
	})
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, CartIDKey, "42"))

	_, err := g.RemoveItem(ctx, "9")
	require.NoError(t, err)
}

func TestUpdateQuantityResolvesProductFromSnapshot(t *testing.T) {
	var got map[string]any
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		}
		w.Write([]byte(cartBody))
	})
	ctx := context.Background()

	// Seed the snapshot so item 9 maps to product 3.
	_, err := g.FetchCart(ctx)
	require.NoError(t, err)

	_, err = g.UpdateQuantity(ctx, "9", "", 4)
	require.NoError(t, err)
	assert.Equal(t, float64(3), got["product_id"])
	assert.Equal(t, float64(4), got["quantity"])
}

func TestUpdateQuantityPrefersExplicitProductID(t *testing.T) {
	var got map[string]any
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		}
		w.Write([]byte(cartBody))
	})

	_, err := g.UpdateQuantity(context.Background(), "9", "77", 2)
	require.NoError(t, err)
	assert.Equal(t, float64(77), got["product_id"])
}

func TestTestConnection(t *testing.T) {
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(cartBody))
	})
	status := g.TestConnection(context.Background())
	assert.True(t, status.Success)

	g.BaseURL = "http://127.0.0.1:1"
	status = g.TestConnection(context.Background())
	assert.False(t, status.Success)
	assert.NotEmpty(t, status.Message)
}
