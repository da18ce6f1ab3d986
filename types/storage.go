package types

import "context"

// Storage is the contract between the cache and a persistent backing store.
type Storage interface {

	/*
		Load is called when an entry is not in memory.
		1. Cache looks up the id → not found
		2. Cache calls Load(id)
		3. Storage returns the persisted fields, or nil when it has none
		4. Cache installs the entry in memory and continues the read
	*/
	Load(ctx context.Context, id string) (map[string]any, error)

	/*
		Put persists the full field set of one entry.

		Write policies decide when this happens:
		- Write-through: during the cache write
		- Write-back: later, from a background worker
	*/
	Put(ctx context.Context, id string, fields map[string]any) error
}
