package cachepatch

import (
	"context"

	"github.com/krisalay/gql-cache-patch/api"
	"github.com/krisalay/gql-cache-patch/types"
)

// UpdaterFunc is a mutation update handler written against a patchable cache.
type UpdaterFunc[T any] func(ctx context.Context, cache api.PatchProxy, result types.FetchResult[T]) error

// MutationUpdaterFunc is the handler a mutation pipeline runs once the
// mutation completed, with its own cache handle and the mutation result.
type MutationUpdaterFunc[T any] func(ctx context.Context, cache api.DataProxy, result types.FetchResult[T]) error

/*
Update adapts updater to the mutation pipeline.

BEHAVIOR:
---------
- Each invocation wraps the pipeline's cache handle in a new Proxy; the
  handle itself is left untouched
- updater runs exactly once, synchronously, and its error is returned as is
*/
func Update[T any](updater UpdaterFunc[T], opts ...Option) MutationUpdaterFunc[T] {
	return func(ctx context.Context, cache api.DataProxy, result types.FetchResult[T]) error {
		return updater(ctx, NewProxy(cache, opts...), result)
	}
}
