package writepolicy

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/krisalay/gql-cache-patch/types"
)

// writeReq is one entry waiting to be persisted.
type writeReq struct {
	ctx    context.Context
	id     string
	fields map[string]any
}

/*
WriteBackPolicy persists entries from one background worker.

Entry field maps are immutable once stored, so the worker can hold them
without copying.
*/
type WriteBackPolicy struct {
	store  types.Storage
	logger *zap.Logger

	// ch buffers bursts of writes; when it is full, writes are dropped.
	ch chan writeReq

	closeOnce sync.Once
	wg        sync.WaitGroup
}

func NewWriteBackPolicy(store types.Storage, buffer int, logger *zap.Logger) *WriteBackPolicy {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &WriteBackPolicy{
		store:  store,
		logger: logger,
		ch:     make(chan writeReq, buffer),
	}

	w.wg.Add(1)
	go w.worker()

	return w
}

// OnWrite never blocks the cache. A full queue drops the write; the entry
// is still in memory and the next write of the same id persists it.
func (w *WriteBackPolicy) OnWrite(ctx context.Context, id string, fields map[string]any) {
	select {
	case w.ch <- writeReq{context.WithoutCancel(ctx), id, fields}:
	default:
		w.logger.Warn("write-back queue full, dropping write", zap.String("id", id))
	}
}

func (w *WriteBackPolicy) worker() {
	defer w.wg.Done()

	for req := range w.ch {
		if err := w.store.Put(req.ctx, req.id, req.fields); err != nil {
			w.logger.Error("persist entry", zap.String("id", req.id), zap.Error(err))
		}
	}
}

/*
Close stops accepting writes and waits until the queue is drained.
It is safe to call more than once. OnWrite after Close panics.
*/
func (w *WriteBackPolicy) Close() {
	w.closeOnce.Do(func() {
		close(w.ch)
	})
	w.wg.Wait()
}
