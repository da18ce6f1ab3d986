package expiration

import (
	"time"

	"github.com/krisalay/gql-cache-patch/types"
)

/*
ExpireAfterAccess is a sliding TTL: every read pushes the deadline forward,
so entities that queries keep resolving stay cached.
*/
type ExpireAfterAccess struct {
	TTL time.Duration
}

func (e *ExpireAfterAccess) IsExpired(ent *types.Entry, now time.Time) bool {
	return !ent.ExpireAt.IsZero() && now.After(ent.ExpireAt)
}

func (e *ExpireAfterAccess) OnAccess(ent *types.Entry, now time.Time) {
	ent.LastAccessedAt = now
	ent.ExpireAt = now.Add(e.TTL)
}

// OnWrite keeps an ExpireAt that was set explicitly before the write.
func (e *ExpireAfterAccess) OnWrite(ent *types.Entry, now time.Time) {
	ent.LastAccessedAt = now
	if ent.ExpireAt.IsZero() {
		ent.ExpireAt = now.Add(e.TTL)
	}
}
