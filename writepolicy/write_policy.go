package writepolicy

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/krisalay/gql-cache-patch/types"
)

/*
WritePolicy decides how entry writes reach persistent storage.
The engine calls it once per stored entry with the full new field set.
*/
type WritePolicy interface {

	// OnWrite is called after an entry is stored in memory.
	OnWrite(ctx context.Context, id string, fields map[string]any)

	// Close flushes pending writes and stops background work.
	Close()
}

// Mode names a write policy in configuration.
type Mode string

const (
	ModeThrough Mode = "write-through"
	ModeBack    Mode = "write-back"
)

// New builds the policy for mode. buffer only applies to write-back.
func New(mode Mode, store types.Storage, buffer int, logger *zap.Logger) (WritePolicy, error) {
	switch mode {
	case ModeThrough:
		return NewWriteThroughPolicy(store, logger), nil
	case ModeBack:
		return NewWriteBackPolicy(store, buffer, logger), nil
	}
	return nil, errors.Errorf("unknown write policy %q", mode)
}
