package shard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/gql-cache-patch/eviction"
	"github.com/krisalay/gql-cache-patch/types"
)

func TestCOWStoreSnapshotsAreStable(t *testing.T) {
	s := NewCOWStore()
	s.Put("User:1", &types.Entry{ID: "User:1"})

	before := s.Snapshot()
	s.Put("User:2", &types.Entry{ID: "User:2"})
	s.Delete("User:1")

	assert.Len(t, before, 1)
	assert.Contains(t, before, "User:1")

	_, ok := s.Get("User:1")
	assert.False(t, ok)
	ent, ok := s.Get("User:2")
	require.True(t, ok)
	assert.Equal(t, "User:2", ent.ID)
	assert.Equal(t, int64(1), s.Len())
}

func TestCOWStoreDeleteUnknownKeepsSnapshot(t *testing.T) {
	s := NewCOWStore()
	s.Put("User:1", &types.Entry{ID: "User:1"})

	before := s.Snapshot()
	s.Delete("User:404")

	after := s.Snapshot()
	assert.Equal(t, fmt.Sprintf("%p", before), fmt.Sprintf("%p", after))
}

func TestHashSelectorIsStable(t *testing.T) {
	shards := make([]*Shard, 4)
	for i := range shards {
		ev, err := eviction.NewEvictionPolicy(eviction.LRU)
		require.NoError(t, err)
		shards[i] = NewShard(ev)
	}

	sel := HashSelector{}
	used := make(map[*Shard]bool)
	for i := 0; i < 100; i++ {
		id := fmt.Sprintf("User:%d", i)
		sh := sel.Select(id, shards)
		assert.Same(t, sh, sel.Select(id, shards))
		used[sh] = true
	}
	assert.Len(t, used, len(shards), "ids of one type spread over every shard")
}
