package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()

	_, err = s.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "rafal_cart_id", "42"))
	v, err := s.Get(ctx, "rafal_cart_id")
	require.NoError(t, err)
	require.Equal(t, "42", v)

	require.NoError(t, s.Set(ctx, "rafal_cart_id", "43"))
	v, err = s.Get(ctx, "rafal_cart_id")
	require.NoError(t, err)
	require.Equal(t, "43", v)

	require.NoError(t, s.Delete(ctx, "rafal_cart_id"))
	_, err = s.Get(ctx, "rafal_cart_id")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestJSONHelpers(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	type snapshot struct {
		IDs []string `json:"ids"`
	}

	require.NoError(t, SetJSON(ctx, s, "rafal_favorites", snapshot{IDs: []string{"1", "7"}}))

	var got snapshot
	require.NoError(t, GetJSON(ctx, s, "rafal_favorites", &got))
	require.Equal(t, []string{"1", "7"}, got.IDs)

	require.ErrorIs(t, GetJSON(ctx, s, "absent", &got), ErrNotFound)
}
