package writepolicy

import (
	"context"

	"go.uber.org/zap"

	"github.com/krisalay/gql-cache-patch/types"
)

/*
WriteThroughPolicy persists every entry during the cache write:

	cache write → storage write (synchronous)

A slow storage makes cache writes slow. Storage errors are logged; the
in-memory write has already happened and stays.
*/
type WriteThroughPolicy struct {
	store  types.Storage
	logger *zap.Logger
}

func NewWriteThroughPolicy(store types.Storage, logger *zap.Logger) *WriteThroughPolicy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WriteThroughPolicy{store: store, logger: logger}
}

func (w *WriteThroughPolicy) OnWrite(ctx context.Context, id string, fields map[string]any) {
	if err := w.store.Put(ctx, id, fields); err != nil {
		w.logger.Error("persist entry", zap.String("id", id), zap.Error(err))
	}
}

// Close has nothing to flush.
func (w *WriteThroughPolicy) Close() {}
