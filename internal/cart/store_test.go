package cart

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rafalstore/storefront/internal/models"
)

// fakeGateway serves a scripted cart and counts calls per operation.
type fakeGateway struct {
	cart       *models.Cart
	err        error
	fetchCalls atomic.Int64

	lastProductID string
	lastQuantity  int
	removed       []string
	onAdd         func()
}

func (f *fakeGateway) FetchCart(ctx context.Context) (*models.Cart, error) {
	f.fetchCalls.Add(1)
	return f.cart, f.err
}

func (f *fakeGateway) AddItem(ctx context.Context, productID string, quantity, colorID int) (*models.Cart, error) {
	f.lastProductID = productID
	f.lastQuantity = quantity
	if f.onAdd != nil {
		f.onAdd()
	}
	return f.cart, f.err
}

func (f *fakeGateway) RemoveItem(ctx context.Context, itemID string) (*models.Cart, error) {
	f.removed = append(f.removed, itemID)
	return f.cart, f.err
}

func (f *fakeGateway) UpdateQuantity(ctx context.Context, itemID, productID string, quantity int) (*models.Cart, error) {
	f.lastProductID = productID
	f.lastQuantity = quantity
	return f.cart, f.err
}

func (f *fakeGateway) ClearCart(ctx context.Context) (*models.Cart, error) {
	return f.cart, f.err
}

func serverCart() *models.Cart {
	return &models.Cart{
		ID: "c1",
		Items: []models.CartItem{
			{ID: "i1", ProductID: "p1", Name: "Hair Dryer", Price: decimal.NewFromInt(1600), Quantity: 1},
		},
		Total:      decimal.NewFromInt(1600),
		ItemCount:  1,
		SessionKey: "sess-1",
	}
}

func TestRefreshSuccess(t *testing.T) {
	gw := &fakeGateway{cart: serverCart()}
	s := NewStore(gw, nil)

	require.NoError(t, s.RefreshCart(context.Background()))

	got := s.Snapshot()
	require.False(t, got.Loading)
	require.Empty(t, got.Err)
	require.Equal(t, "c1", got.CartID)
	require.Equal(t, "sess-1", got.SessionKey)
	require.Equal(t, 1, got.ItemCount)
	require.Equal(t, "1600", got.Total.String())
	require.Len(t, got.Items, 1)
}

func TestRefreshThrottle(t *testing.T) {
	gw := &fakeGateway{cart: serverCart()}
	s := NewStore(gw, nil)

	base := time.Now()
	s.now = func() time.Time { return base }

	require.NoError(t, s.RefreshCart(context.Background()))
	require.NoError(t, s.RefreshCart(context.Background())) // within 2s, no-op
	require.EqualValues(t, 1, gw.fetchCalls.Load())

	s.now = func() time.Time { return base.Add(RefreshThrottle + time.Millisecond) }
	require.NoError(t, s.RefreshCart(context.Background()))
	require.EqualValues(t, 2, gw.fetchCalls.Load())
}

func TestRefreshEmptyResetsState(t *testing.T) {
	gw := &fakeGateway{cart: serverCart()}
	s := NewStore(gw, nil)
	base := time.Now()
	s.now = func() time.Time { return base }
	require.NoError(t, s.RefreshCart(context.Background()))

	gw.cart = nil
	s.now = func() time.Time { return base.Add(3 * time.Second) }
	require.NoError(t, s.RefreshCart(context.Background()))

	got := s.Snapshot()
	require.Empty(t, got.Items)
	require.Empty(t, got.CartID)
	require.True(t, got.Total.IsZero())
	require.Zero(t, got.ItemCount)
	require.False(t, got.Loading, "reset ends the refresh that produced it")
}

func TestUpdateQuantityZeroDelegatesToRemove(t *testing.T) {
	gw := &fakeGateway{cart: serverCart()}
	s := NewStore(gw, nil)
	require.NoError(t, s.RefreshCart(context.Background()))

	require.NoError(t, s.UpdateQuantity(context.Background(), "i1", 0))
	require.Equal(t, []string{"i1"}, gw.removed)
	require.Zero(t, gw.lastQuantity, "no quantity update must reach the gateway")
}

func TestUpdateQuantityThreadsProductID(t *testing.T) {
	gw := &fakeGateway{cart: serverCart()}
	s := NewStore(gw, nil)
	require.NoError(t, s.RefreshCart(context.Background()))

	require.NoError(t, s.UpdateQuantity(context.Background(), "i1", 3))
	require.Equal(t, "p1", gw.lastProductID)
	require.Equal(t, 3, gw.lastQuantity)
}

func TestFailureLeavesStateIntact(t *testing.T) {
	gw := &fakeGateway{cart: serverCart()}
	s := NewStore(gw, nil)
	require.NoError(t, s.RefreshCart(context.Background()))
	before := s.Snapshot()

	gw.err = errors.New("connection refused")
	require.Error(t, s.RemoveFromCart(context.Background(), "i1"))

	after := s.Snapshot()
	require.Equal(t, before.Items, after.Items)
	require.True(t, before.Total.Equal(after.Total))
	require.Equal(t, before.ItemCount, after.ItemCount)
	require.Equal(t, before.CartID, after.CartID)
	require.False(t, after.Loading)
	require.NotEmpty(t, after.Err)
}

func TestRequestClearsPreviousError(t *testing.T) {
	gw := &fakeGateway{cart: serverCart(), err: errors.New("boom")}
	s := NewStore(gw, nil)

	require.Error(t, s.RefreshCart(context.Background()))
	require.NotEmpty(t, s.Err())

	gw.err = nil
	s.now = func() time.Time { return time.Now().Add(time.Minute) }
	require.NoError(t, s.RefreshCart(context.Background()))
	require.Empty(t, s.Err())
}

func TestAddClampsQuantity(t *testing.T) {
	gw := &fakeGateway{cart: serverCart()}
	s := NewStore(gw, nil)
	require.NoError(t, s.AddToCart(context.Background(), models.Product{ID: "p1"}, 0, 0))
	require.Empty(t, s.Err())
	require.Equal(t, 1, gw.lastQuantity)
}

func TestThrottleConfigurable(t *testing.T) {
	gw := &fakeGateway{cart: serverCart()}
	s := NewStore(gw, nil)
	s.Throttle = 50 * time.Millisecond

	base := time.Now()
	s.now = func() time.Time { return base }
	require.NoError(t, s.RefreshCart(context.Background()))

	s.now = func() time.Time { return base.Add(100 * time.Millisecond) }
	require.NoError(t, s.RefreshCart(context.Background()))
	require.EqualValues(t, 2, gw.fetchCalls.Load(), "a shortened throttle window must be honored")
}

func TestAddShowsPlaceholderWhileInFlight(t *testing.T) {
	gw := &fakeGateway{cart: serverCart()}
	s := NewStore(gw, nil)

	dryer := models.Product{ID: "p1", Name: "Hair Dryer", Price: decimal.NewFromInt(1600)}
	var inFlight []models.CartItem
	var inFlightTotal decimal.Decimal
	gw.onAdd = func() {
		inFlight = s.Items()
		inFlightTotal = s.CartTotal()
	}

	require.NoError(t, s.AddToCart(context.Background(), dryer, 2, 0))

	require.Len(t, inFlight, 1, "the line item must be visible before the server confirms")
	require.Contains(t, inFlight[0].ID, "temp-")
	require.Equal(t, "p1", inFlight[0].ProductID)
	require.Equal(t, 2, inFlight[0].Quantity)
	require.Equal(t, "3200", inFlightTotal.String())

	// The server response replaced the placeholder.
	got := s.Snapshot()
	require.Len(t, got.Items, 1)
	require.Equal(t, "i1", got.Items[0].ID)
	require.Equal(t, "1600", got.Total.String())
}

func TestAddPlaceholderRemovedOnFailure(t *testing.T) {
	gw := &fakeGateway{cart: serverCart()}
	s := NewStore(gw, nil)
	require.NoError(t, s.RefreshCart(context.Background()))
	before := s.Snapshot()

	gw.err = errors.New("connection refused")
	require.Error(t, s.AddToCart(context.Background(), models.Product{ID: "p2", Price: decimal.NewFromInt(350)}, 1, 0))

	after := s.Snapshot()
	require.Equal(t, before.Items, after.Items)
	require.True(t, before.Total.Equal(after.Total))
	require.Equal(t, before.ItemCount, after.ItemCount)
	require.NotEmpty(t, after.Err)
}
