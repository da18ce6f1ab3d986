package inmemory

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/krisalay/gql-cache-patch/engine"
	"github.com/krisalay/gql-cache-patch/eviction"
	"github.com/krisalay/gql-cache-patch/shard"
	"github.com/krisalay/gql-cache-patch/types"
)

/*
entityStore holds normalized entries keyed by data id.
It connects:
- shards (storage and write locking)
- eviction (per shard, root ids excluded)
- the engine (expiration, storage loads, write policy, metrics)
*/
type entityStore struct {
	shards   []*shard.Shard
	engine   *engine.CacheEngine
	selector shard.Selector

	// perShard is the entry limit of each shard; 0 means unbounded.
	perShard int64

	// sf collapses concurrent storage loads of the same id into one.
	sf singleflight.Group
}

func newEntityStore(shards, capacity int, policy eviction.PolicyType, eng *engine.CacheEngine) (*entityStore, error) {
	if shards < 1 {
		shards = 1
	}

	s := make([]*shard.Shard, shards)
	for i := range s {
		ev, err := eviction.NewEvictionPolicy(policy)
		if err != nil {
			return nil, err
		}
		s[i] = shard.NewShard(ev)
	}

	var perShard int64
	if capacity > 0 {
		perShard = max(int64(capacity/shards), 1)
	}

	return &entityStore{
		shards:   s,
		engine:   eng,
		selector: shard.HashSelector{},
		perShard: perShard,
	}, nil
}

/*
get returns the fields of an entry, or nil when neither memory nor storage
has it.

1. Memory hit, not expired → served
2. Memory hit, expired → dropped, then treated as a miss
3. Miss → loaded from storage once per id, installed in memory

Timestamps of stored non-root entries are only read and written under the
shard's WriteMu; root entries carry none and are read without it.
*/
func (s *entityStore) get(ctx context.Context, id string) (map[string]any, error) {
	sh := s.selector.Select(id, s.shards)

	if ent, ok := sh.Store.Get(id); ok {
		if types.IsRoot(id) {
			s.engine.OnRead(ent)
			return ent.Fields, nil
		}
		if fields, ok := s.touch(sh, id); ok {
			return fields, nil
		}
	}

	v, err, _ := s.sf.Do(id, func() (any, error) {
		return s.engine.Load(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	fields, _ := v.(map[string]any)
	if fields == nil {
		return nil, nil
	}

	s.install(id, fields)
	return fields, nil
}

// touch serves a non-root entry from memory, dropping it when it expired.
func (s *entityStore) touch(sh *shard.Shard, id string) (map[string]any, bool) {
	sh.WriteMu.Lock()
	defer sh.WriteMu.Unlock()

	ent, ok := sh.Store.Get(id)
	if !ok {
		return nil, false
	}
	if s.engine.IsExpired(ent) {
		s.engine.Metrics.Expire()
		s.removeLocked(sh, id)
		return nil, false
	}
	s.engine.OnRead(ent)
	sh.Eviction.OnGet(id)
	return ent.Fields, true
}

/*
merge stores fields over the current fields of an entry and returns the new
field set. The old map is never modified; readers holding it keep a
consistent view.

Writes are not reads: they count no hit or miss and never slide a TTL.
The new version gets its eviction position from OnPut alone.
*/
func (s *entityStore) merge(ctx context.Context, id string, fields map[string]any) (map[string]any, error) {
	sh := s.selector.Select(id, s.shards)

	// Pull a persisted entry into memory first so the merge keeps its fields.
	if _, ok := sh.Store.Get(id); !ok {
		persisted, err := s.engine.Fetch(ctx, id)
		if err != nil {
			return nil, err
		}
		if persisted != nil {
			s.install(id, persisted)
		}
	}

	sh.WriteMu.Lock()
	defer sh.WriteMu.Unlock()

	var old map[string]any
	if ent, ok := sh.Store.Get(id); ok && !s.engine.IsExpired(ent) {
		old = ent.Fields
	}
	next := make(map[string]any, len(old)+len(fields))
	for k, v := range old {
		next[k] = v
	}
	for k, v := range fields {
		next[k] = v
	}

	s.putLocked(ctx, sh, id, next, true)
	return next, nil
}

// install stores an entry loaded from storage without writing it back.
func (s *entityStore) install(id string, fields map[string]any) {
	sh := s.selector.Select(id, s.shards)
	sh.WriteMu.Lock()
	defer sh.WriteMu.Unlock()

	if _, ok := sh.Store.Get(id); ok {
		return
	}
	s.putLocked(context.Background(), sh, id, fields, false)
}

// putLocked must be called with sh.WriteMu held.
func (s *entityStore) putLocked(ctx context.Context, sh *shard.Shard, id string, fields map[string]any, persist bool) {
	root := types.IsRoot(id)

	if _, exists := sh.Store.Get(id); !exists && !root && s.perShard > 0 && sh.Store.Len() >= s.perShard {
		if victim := sh.Eviction.Evict(); victim != "" {
			s.engine.Metrics.Eviction()
			sh.Store.Delete(victim)
		}
	}

	ent := &types.Entry{ID: id, Fields: fields}
	if persist {
		s.engine.OnWrite(ctx, ent)
	} else {
		now := time.Now()
		ent.CreatedAt, ent.LastAccessedAt = now, now
		if s.engine.Expiration != nil && !root {
			s.engine.Expiration.OnWrite(ent, now)
		}
	}

	sh.Store.Put(id, ent)
	if !root {
		sh.Eviction.OnPut(id)
	}
}

// remove drops an entry from memory. Storage is not touched.
func (s *entityStore) remove(id string) bool {
	sh := s.selector.Select(id, s.shards)
	sh.WriteMu.Lock()
	defer sh.WriteMu.Unlock()

	return s.removeLocked(sh, id)
}

// removeLocked must be called with sh.WriteMu held.
func (s *entityStore) removeLocked(sh *shard.Shard, id string) bool {
	_, ok := sh.Store.Get(id)
	sh.Store.Delete(id)
	sh.Eviction.Remove(id)
	return ok
}

// snapshot merges the snapshots of every shard.
func (s *entityStore) snapshot() map[string]map[string]any {
	out := make(map[string]map[string]any)
	for _, sh := range s.shards {
		for id, ent := range sh.Store.Snapshot() {
			out[id] = ent.Fields
		}
	}
	return out
}

func (s *entityStore) close() {
	s.engine.Close()
}
