package engine

import (
	"context"
	"time"

	"github.com/krisalay/gql-cache-patch/expiration"
	"github.com/krisalay/gql-cache-patch/types"
	"github.com/krisalay/gql-cache-patch/writepolicy"
)

/*
CacheEngine is the policy layer of the normalized store.
It does not hold entries; the shards do.

It decides:
- When an entry is expired
- How entry timestamps move on reads and writes
- Where entries missing from memory are loaded from
- How writes reach persistent storage
- Which events are reported to metrics
*/
type CacheEngine struct {

	// Expiration decides when an entry is too old. Nil means entries never expire.
	Expiration expiration.Strategy

	// Storage is consulted when an entry is not in memory. Nil means memory only.
	Storage types.Storage

	// WritePolicy forwards entry writes to storage. Nil means writes stay in memory.
	WritePolicy writepolicy.WritePolicy

	// Metrics is never nil.
	Metrics types.Metrics
}

func NewCacheEngine(
	exp expiration.Strategy,
	storage types.Storage,
	writePolicy writepolicy.WritePolicy,
	metrics types.Metrics,
) *CacheEngine {
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}

	return &CacheEngine{
		Expiration:  exp,
		Storage:     storage,
		WritePolicy: writePolicy,
		Metrics:     metrics,
	}
}

func (e *CacheEngine) IsExpired(ent *types.Entry) bool {
	return e.Expiration != nil && !types.IsRoot(ent.ID) &&
		e.Expiration.IsExpired(ent, time.Now())
}

// OnRead is called every time an entry is served from memory. For non-root
// entries the caller must hold the shard's write lock.
func (e *CacheEngine) OnRead(ent *types.Entry) {
	e.Metrics.Hit()
	if e.Expiration != nil && !types.IsRoot(ent.ID) {
		e.Expiration.OnAccess(ent, time.Now())
	}
}

/*
OnWrite is called for every new entry before it is stored.

Entries with a deadline are not persisted: a rehydrated copy would outlive
the deadline the in-memory copy was given.
*/
func (e *CacheEngine) OnWrite(ctx context.Context, ent *types.Entry) {
	e.Metrics.Write()

	now := time.Now()
	ent.CreatedAt = now
	ent.LastAccessedAt = now
	if e.Expiration != nil && !types.IsRoot(ent.ID) {
		e.Expiration.OnWrite(ent, now)
	}

	if !ent.ExpireAt.IsZero() {
		return
	}
	if e.WritePolicy != nil {
		e.WritePolicy.OnWrite(ctx, ent.ID, ent.Fields)
	}
}

// Load fetches an entry's fields from storage for a read that missed memory.
// It returns nil fields when there is no storage or storage has none.
func (e *CacheEngine) Load(ctx context.Context, id string) (map[string]any, error) {
	e.Metrics.Miss()
	return e.Fetch(ctx, id)
}

// Fetch is Load without counting a miss. Writes use it to merge over
// persisted fields.
func (e *CacheEngine) Fetch(ctx context.Context, id string) (map[string]any, error) {
	if e.Storage == nil {
		return nil, nil
	}
	return e.Storage.Load(ctx, id)
}

// Close flushes the write policy.
func (e *CacheEngine) Close() {
	if e.WritePolicy != nil {
		e.WritePolicy.Close()
	}
}
