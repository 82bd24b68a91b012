package session

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/rafalstore/storefront/internal/storage"
	"github.com/stretchr/testify/require"
)

var keyPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestGetOrCreateIsStable(t *testing.T) {
	p := New(storage.NewMemory(), nil)
	ctx := context.Background()

	first := p.GetOrCreate(ctx)
	second := p.GetOrCreate(ctx)

	require.Equal(t, first, second)
	require.Regexp(t, keyPattern, first)
}

func TestGeneratedKeysMatchPattern(t *testing.T) {
	for i := 0; i < 200; i++ {
		require.Regexp(t, keyPattern, generate())
	}
}

func TestRebindOverwrites(t *testing.T) {
	store := storage.NewMemory()
	p := New(store, nil)
	ctx := context.Background()

	_ = p.GetOrCreate(ctx)
	p.Rebind(ctx, "server-assigned-key")

	require.Equal(t, "server-assigned-key", p.GetOrCreate(ctx))

	v, err := store.Get(ctx, StorageKey)
	require.NoError(t, err)
	require.Equal(t, "server-assigned-key", v)
}

func TestStorageFailureDegradesToMemory(t *testing.T) {
	store := storage.NewMemory()
	store.FailWrites = errors.New("disk full")
	p := New(store, nil)
	ctx := context.Background()

	first := p.GetOrCreate(ctx)
	second := p.GetOrCreate(ctx)

	require.Regexp(t, keyPattern, first)
	require.Equal(t, first, second)
}
