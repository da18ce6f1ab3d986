package shard

import (
	"sync/atomic"

	"github.com/krisalay/gql-cache-patch/types"
)

/*
This file defines how normalized entries are held inside a shard.
- Reads are far more frequent than writes (every query read walks many entries)
- Reads must not take locks
- A writer may pay for a full map copy

So the store is "Copy-On-Write": readers load an immutable map snapshot,
writers build a new map and swap it in.
*/

// EntryStore is what a shard uses to keep its entries.
type EntryStore interface {

	// Get returns the entry for a data id.
	Get(string) (*types.Entry, bool)

	// Put inserts or replaces the entry for a data id.
	Put(string, *types.Entry)

	// Delete removes the entry for a data id.
	Delete(string)

	// Len returns how many entries are stored.
	Len() int64

	// Snapshot returns the current immutable map of entries.
	Snapshot() map[string]*types.Entry
}

// cowStore is the Copy-On-Write EntryStore.
type cowStore struct {

	// data holds map[string]*types.Entry. Readers never see a map being written.
	data atomic.Value

	// n mirrors len(data) so Len does not need the map.
	n atomic.Int64
}

func NewCOWStore() *cowStore {
	s := &cowStore{}
	s.data.Store(make(map[string]*types.Entry))
	return s
}

func (s *cowStore) Get(id string) (*types.Entry, bool) {
	ent, ok := s.Snapshot()[id]
	return ent, ok
}

/*
Put replaces the map:
1. Load the current snapshot
2. Copy it into a map with room for one more entry
3. Set the entry
4. Swap the new map in
*/
func (s *cowStore) Put(id string, ent *types.Entry) {
	old := s.Snapshot()

	next := make(map[string]*types.Entry, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[id] = ent

	s.data.Store(next)
	s.n.Store(int64(len(next)))
}

// Delete is copy-on-write too. Deleting an unknown id keeps the snapshot.
func (s *cowStore) Delete(id string) {
	old := s.Snapshot()
	if _, ok := old[id]; !ok {
		return
	}

	next := make(map[string]*types.Entry, len(old))
	for k, v := range old {
		if k != id {
			next[k] = v
		}
	}

	s.data.Store(next)
	s.n.Store(int64(len(next)))
}

func (s *cowStore) Len() int64 {
	return s.n.Load()
}

// Snapshot must not be modified by the caller.
func (s *cowStore) Snapshot() map[string]*types.Entry {
	return s.data.Load().(map[string]*types.Entry)
}
