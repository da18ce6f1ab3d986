package expiration

import (
	"time"

	"github.com/krisalay/gql-cache-patch/types"
)

// ExpireAfterWrite gives each entry a fixed lifetime from its last write.
type ExpireAfterWrite struct {
	TTL time.Duration
}

func (e *ExpireAfterWrite) IsExpired(ent *types.Entry, now time.Time) bool {
	return !ent.ExpireAt.IsZero() && now.After(ent.ExpireAt)
}

func (e *ExpireAfterWrite) OnAccess(ent *types.Entry, now time.Time) {
	ent.LastAccessedAt = now
}

func (e *ExpireAfterWrite) OnWrite(ent *types.Entry, now time.Time) {
	ent.LastAccessedAt = now
	ent.ExpireAt = now.Add(e.TTL)
}
