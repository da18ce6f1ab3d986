package persist_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/gql-cache-patch/persist"
	"github.com/krisalay/gql-cache-patch/types"
)

func roundTrip(t *testing.T, s types.Storage) {
	t.Helper()
	ctx := context.Background()

	empty, err := s.Load(ctx, "User:1")
	require.NoError(t, err)
	assert.Nil(t, empty)

	fields := map[string]any{
		"__typename": "User",
		"id":         "1",
		"best":       types.Ref("User:2"),
	}
	require.NoError(t, s.Put(ctx, "User:1", fields))

	got, err := s.Load(ctx, "User:1")
	require.NoError(t, err)
	assert.Equal(t, fields, got)
}

func TestMemoryStorage(t *testing.T) {
	s := persist.NewMemoryStorage()
	roundTrip(t, s)
	assert.Equal(t, 1, s.Len())

	s.Delete("User:1")
	assert.Equal(t, 0, s.Len())
}

func TestBadgerStorage(t *testing.T) {
	s, err := persist.OpenBadger("")
	require.NoError(t, err)
	defer s.Close()

	roundTrip(t, s)
}

func TestBadgerStorageOnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := persist.OpenBadger(dir)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "ROOT_QUERY", map[string]any{"count": float64(3)}))
	require.NoError(t, s.Close())

	s, err = persist.OpenBadger(dir)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(ctx, "ROOT_QUERY")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"count": float64(3)}, got)
}
