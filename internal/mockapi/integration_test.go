package mockapi_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rafalstore/storefront/internal/cart"
	"github.com/rafalstore/storefront/internal/catalog"
	"github.com/rafalstore/storefront/internal/gateway"
	"github.com/rafalstore/storefront/internal/mockapi"
	"github.com/rafalstore/storefront/internal/models"
	"github.com/rafalstore/storefront/internal/session"
	"github.com/rafalstore/storefront/internal/storage"
)

type stack struct {
	baseURL string
	store   *storage.MemoryStore
	session *session.Provider
	gateway *gateway.CartGateway
	cart    *cart.Store
}

func newStack(t *testing.T) *stack {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	api, err := mockapi.New(db, []byte("integration-secret"), nil)
	require.NoError(t, err)
	require.NoError(t, api.Seed())

	e := echo.New()
	api.Register(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	store := storage.NewMemory()
	sess := session.New(store, nil)
	gw := gateway.NewCartGateway(srv.URL, store, sess, nil)
	return &stack{
		baseURL: srv.URL,
		store:   store,
		session: sess,
		gateway: gw,
		cart:    cart.NewStore(gw, nil),
	}
}

func TestAddToCartEndToEnd(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	dryer := models.Product{ID: "1", Name: "RAFAL Professional Hair Dryer"}
	require.NoError(t, s.cart.AddToCart(ctx, dryer, 1, 0))

	state := s.cart.Snapshot()
	require.Len(t, state.Items, 1)
	assert.Equal(t, "1600", state.Total.String())
	assert.Equal(t, 1, state.ItemCount)
	assert.True(t, state.DeliveryFee.IsZero(), "orders above the threshold ship free")
	assert.NotEmpty(t, state.CartID)
	assert.Empty(t, state.Err)
}

func TestDeliveryFeeBelowThreshold(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	kettle := models.Product{ID: "3", Name: "RAFAL Electric Kettle 1.7L"}
	require.NoError(t, s.cart.AddToCart(ctx, kettle, 1, 0))

	state := s.cart.Snapshot()
	assert.Equal(t, "350", state.Total.String())
	assert.Equal(t, "50", state.DeliveryFee.String())
}

func TestRemoveLastItemKeepsCartIdentity(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	require.NoError(t, s.cart.AddToCart(ctx, models.Product{ID: "1"}, 1, 0))
	before := s.cart.Snapshot()
	require.Len(t, before.Items, 1)

	require.NoError(t, s.cart.RemoveFromCart(ctx, before.Items[0].ID))
	after := s.cart.Snapshot()
	assert.Empty(t, after.Items)
	assert.Equal(t, before.CartID, after.CartID, "an emptied cart keeps its id")

	persisted, err := s.store.Get(ctx, gateway.CartIDKey)
	require.NoError(t, err)
	assert.Equal(t, before.CartID, persisted)
}

func TestUpdateQuantityEndToEnd(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	require.NoError(t, s.cart.AddToCart(ctx, models.Product{ID: "3"}, 1, 0))
	itemID := s.cart.Snapshot().Items[0].ID

	require.NoError(t, s.cart.UpdateQuantity(ctx, itemID, 2))
	state := s.cart.Snapshot()
	require.Len(t, state.Items, 1)
	assert.Equal(t, 2, state.Items[0].Quantity)
	assert.Equal(t, "700", state.Total.String())
	assert.Equal(t, "0", state.DeliveryFee.String())
}

func TestClearCartEndToEnd(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	require.NoError(t, s.cart.AddToCart(ctx, models.Product{ID: "1"}, 1, 0))
	require.NoError(t, s.cart.AddToCart(ctx, models.Product{ID: "2"}, 1, 0))
	require.Len(t, s.cart.Snapshot().Items, 2)

	require.NoError(t, s.cart.ClearCart(ctx))
	state := s.cart.Snapshot()
	assert.Empty(t, state.Items)
	assert.True(t, state.Total.IsZero())
}

func TestSessionKeySurvivesAcrossClients(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	require.NoError(t, s.cart.AddToCart(ctx, models.Product{ID: "1"}, 1, 0))
	key := s.session.GetOrCreate(ctx)

	// A second client sharing the store sees the same cart.
	gw2 := gateway.NewCartGateway(s.baseURL, s.store, session.New(s.store, nil), nil)
	cart2, err := gw2.FetchCart(ctx)
	require.NoError(t, err)
	require.NotNil(t, cart2)
	assert.Equal(t, key, cart2.SessionKey)
	assert.Len(t, cart2.Items, 1)
}

func TestAuthAndOrderHistoryEndToEnd(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	auth := gateway.NewAuthClient(s.baseURL, s.store, nil)
	user, err := auth.Register(ctx, "amr", "01012345678", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "01012345678", user.Phone)

	require.NoError(t, s.cart.AddToCart(ctx, models.Product{ID: "1"}, 1, 0))

	orders := gateway.NewOrdersClient(s.baseURL, s.store, s.session, nil)
	order, err := orders.Checkout(ctx, gateway.CheckoutRequest{
		FirstName:     "Amr",
		Phone:         "010 1234 5678",
		PaymentMethod: "cash_on_delivery",
	})
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, "1600", order.Total.String())

	history, err := orders.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, order.ID, history[0].ID)

	details, err := orders.Details(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, details.ID)
	assert.Equal(t, "1600", details.Total.String())
	require.Len(t, details.Items, 1)
	assert.Equal(t, "RAFAL Professional Hair Dryer", details.Items[0].Name)

	_, err = orders.Details(ctx, "9999")
	assert.Error(t, err, "an unknown order id must not resolve")

	// Checkout emptied the server-side cart.
	require.NoError(t, s.cart.RefreshCart(ctx))
	// The refresh throttle may serve local state; fetch directly instead.
	fresh, err := s.gateway.FetchCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, fresh.Items)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	auth := gateway.NewAuthClient(s.baseURL, s.store, nil)
	_, err := auth.Register(ctx, "amr", "01000000000", "right")
	require.NoError(t, err)

	_, err = auth.Login(ctx, "01000000000", "wrong")
	assert.Error(t, err)
}

func TestCatalogAgainstMockAPI(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	products := catalog.NewProducts(s.baseURL, s.store, nil)
	page := products.List(ctx, 1, 20)
	require.Len(t, page.Results, 5)
	assert.Equal(t, "RAFAL Professional Hair Dryer", page.Results[0].Name)

	featured := products.Featured(ctx)
	require.NotEmpty(t, featured)
	for _, p := range featured {
		assert.True(t, p.IsOffer)
	}

	kettles := products.Search(ctx, "kettle")
	require.Len(t, kettles, 1)

	categories := catalog.NewCategories(s.baseURL, s.store, nil)
	cats := categories.List(ctx)
	require.Len(t, cats, 3)
	assert.Equal(t, "Personal Care", cats[0].Name)
}
