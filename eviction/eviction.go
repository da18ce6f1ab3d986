package eviction

import "github.com/pkg/errors"

/*
Policy decides which normalized entry a full shard drops next.

The store calls it on every access and write; the policy only keeps
bookkeeping on data ids and never touches the entries themselves.
Root entries (ROOT_QUERY, ROOT_MUTATION) are never handed to a policy,
so they can never be evicted.
*/
type Policy interface {

	// OnGet is called when an entry is read.
	OnGet(string)

	// OnPut is called when an entry is written, new or not.
	OnPut(string)

	// Remove is called when an entry is deleted for any reason other than eviction.
	Remove(string)

	// Evict returns the id to drop and forgets it, or "" when nothing is tracked.
	Evict() string
}

// PolicyType names a supported eviction strategy. The values are what the
// YAML config uses.
type PolicyType string

const (
	// LRU drops the entry read or written least recently.
	LRU PolicyType = "lru"

	// LFU drops an entry with the fewest accesses.
	LFU PolicyType = "lfu"

	// FIFO drops the entry written first.
	FIFO PolicyType = "fifo"
)

// Valid reports whether t names a known policy.
func (t PolicyType) Valid() bool {
	switch t {
	case LRU, LFU, FIFO:
		return true
	}
	return false
}

// NewEvictionPolicy builds a fresh policy of the given type.
func NewEvictionPolicy(t PolicyType) (Policy, error) {
	switch t {
	case LRU:
		return newLRU(), nil
	case LFU:
		return newLFU(), nil
	case FIFO:
		return newFIFO(), nil
	}
	return nil, errors.Errorf("unknown eviction policy %q", t)
}
