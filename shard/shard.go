package shard

import (
	"sync"

	"github.com/krisalay/gql-cache-patch/eviction"
)

/*
A Shard is one independent slice of the normalized store.
Each shard:
- Holds the entries whose data ids hash to it
- Tracks its own eviction order
- Serializes its own writes

Writes to different shards never contend.
*/
type Shard struct {

	// Store holds data id → entry. Reads are lock-free snapshots.
	Store EntryStore

	// Eviction picks the entry to drop when this shard is full.
	Eviction eviction.Policy

	// WriteMu serializes Store and Eviction updates.
	// Eviction policies are not safe for concurrent use, so reads that touch
	// them (OnGet) take it as well.
	WriteMu sync.Mutex
}

func NewShard(ev eviction.Policy) *Shard {
	return &Shard{
		Store:    NewCOWStore(),
		Eviction: ev,
	}
}
