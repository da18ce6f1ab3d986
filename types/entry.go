package types

import "time"

// Entry is one normalized object held by the cache, keyed by its data id
// ("User:1", "ROOT_QUERY").
//
// Fields is treated as immutable once the entry is stored. Writers build a new
// map and a new Entry; only the timestamps are touched in place, under the
// owning shard's write lock.
type Entry struct {
	ID             string
	Fields         map[string]any
	CreatedAt      time.Time
	LastAccessedAt time.Time
	ExpireAt       time.Time // zero => no TTL
}

// Root data ids. Root entries are never evicted and never expire.
const (
	RootQuery    = "ROOT_QUERY"
	RootMutation = "ROOT_MUTATION"
)

// IsRoot reports whether id names a root entry.
func IsRoot(id string) bool {
	return id == RootQuery || id == RootMutation
}

// RefKey is the field name marking a reference to another entry.
const RefKey = "__ref"

// TypenameKey is the field every GraphQL object uses for its concrete type.
const TypenameKey = "__typename"

// Ref builds the stored form of a reference to the entry with the given id.
func Ref(id string) map[string]any {
	return map[string]any{RefKey: id}
}

// AsRef reports whether v is a stored reference and returns its target id.
func AsRef(v any) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return "", false
	}
	id, ok := m[RefKey].(string)
	return id, ok
}
