// Package expiration decides when a normalized entry is too old to serve.
package expiration

import (
	"time"

	"github.com/krisalay/gql-cache-patch/types"
)

/*
Strategy is the rule set for entry age. An expired entry reads as missing,
which surfaces to callers as a "Can't find field" failure.
*/
type Strategy interface {

	// IsExpired reports whether ent must no longer be served at now.
	IsExpired(ent *types.Entry, now time.Time) bool

	// OnAccess is called after ent is served.
	OnAccess(ent *types.Entry, now time.Time)

	// OnWrite is called when ent is created or replaced.
	OnWrite(ent *types.Entry, now time.Time)
}

// New returns the strategy for a TTL: none for ttl <= 0, sliding when
// sliding is set, fixed otherwise.
func New(ttl time.Duration, sliding bool) Strategy {
	switch {
	case ttl <= 0:
		return nil
	case sliding:
		return &ExpireAfterAccess{TTL: ttl}
	default:
		return &ExpireAfterWrite{TTL: ttl}
	}
}
