package shard

import "github.com/cespare/xxhash/v2"

/*
Selector decides which shard owns a data id.
All entries of one type ("User:1", "User:2", ...) share a prefix, so the
hash must spread on the whole id, not on its shape.
*/
type Selector interface {
	Select(string, []*Shard) *Shard
}

// HashSelector picks shards by the xxhash of the data id.
type HashSelector struct{}

// Select chooses the shard for a data id.
func (HashSelector) Select(id string, shards []*Shard) *Shard {
	return shards[xxhash.Sum64String(id)%uint64(len(shards))]
}
