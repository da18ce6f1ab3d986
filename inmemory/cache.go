// Package inmemory is a normalized GraphQL cache.
//
// Query results are split into entries: objects with a data id are stored
// once under that id and referenced from wherever they appear, everything
// else is stored inline under ROOT_QUERY or its parent entry. Reads walk the
// query's selection set over the entries and rebuild the result.
package inmemory

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/ast"
	"go.uber.org/zap"

	"github.com/krisalay/gql-cache-patch/api"
	"github.com/krisalay/gql-cache-patch/document"
	"github.com/krisalay/gql-cache-patch/engine"
	"github.com/krisalay/gql-cache-patch/types"
)

// Cache is safe for concurrent use.
type Cache struct {
	store         *entityStore
	logger        *zap.Logger
	addTypename   bool
	dataID        DataIDFunc
	possibleTypes map[string]map[string]struct{}
}

var _ api.DataProxy = (*Cache)(nil)

// New builds a cache. It fails only on an unknown eviction policy.
func New(opts ...Option) (*Cache, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	eng := engine.NewCacheEngine(o.expiration, o.storage, o.writePolicy, o.metrics)
	store, err := newEntityStore(o.shards, o.capacity, o.policy, eng)
	if err != nil {
		return nil, err
	}

	possible := make(map[string]map[string]struct{}, len(o.possibleTypes))
	for abstract, members := range o.possibleTypes {
		set := make(map[string]struct{}, len(members))
		for _, m := range members {
			set[m] = struct{}{}
		}
		possible[abstract] = set
	}

	return &Cache{
		store:         store,
		logger:        o.logger,
		addTypename:   o.addTypename,
		dataID:        o.dataID,
		possibleTypes: possible,
	}, nil
}

// ReadQuery rebuilds a query result from ROOT_QUERY.
func (c *Cache) ReadQuery(ctx context.Context, opts types.QueryOptions) (any, error) {
	op, err := document.QueryDefinition(opts.Query)
	if err != nil {
		return nil, err
	}

	root, err := c.store.get(ctx, types.RootQuery)
	if err != nil {
		return nil, err
	}

	r := &reader{c: c, ctx: ctx, doc: opts.Query, vars: withDefaults(op, opts.Variables)}
	return r.object(types.RootQuery, root, op.SelectionSet)
}

// WriteQuery normalizes a query result into the store.
func (c *Cache) WriteQuery(ctx context.Context, opts types.WriteQueryOptions) error {
	op, err := document.QueryDefinition(opts.Query)
	if err != nil {
		return err
	}
	data, ok := opts.Data.(map[string]any)
	if !ok {
		return errors.Errorf("query data must be an object, got %T", opts.Data)
	}

	w := newWriter(c, opts.Query, withDefaults(op, opts.Variables))
	if err := w.object(types.RootQuery, op.SelectionSet, data); err != nil {
		return err
	}
	c.logger.Debug("write query",
		zap.String("operation", op.Name),
		zap.Int("entries", len(w.pending)))
	return w.commit(ctx)
}

// ReadFragment returns nil, nil when the entity is not cached at all.
func (c *Cache) ReadFragment(ctx context.Context, opts types.FragmentOptions) (any, error) {
	def, err := document.FragmentDefinition(opts.Fragment, opts.FragmentName)
	if err != nil {
		return nil, err
	}

	fields, err := c.store.get(ctx, opts.ID)
	if err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, nil
	}

	r := &reader{c: c, ctx: ctx, doc: opts.Fragment, vars: opts.Variables}
	return r.object(opts.ID, fields, def.SelectionSet)
}

// WriteFragment stores entity fields. The data must carry __typename.
func (c *Cache) WriteFragment(ctx context.Context, opts types.WriteFragmentOptions) error {
	def, err := document.FragmentDefinition(opts.Fragment, opts.FragmentName)
	if err != nil {
		return err
	}
	data, ok := opts.Data.(map[string]any)
	if !ok {
		return errors.Wrapf(types.ErrFragmentNotObject, "got %T for %s", opts.Data, opts.ID)
	}
	if typename, _ := data[types.TypenameKey].(string); typename == "" {
		return errors.Wrapf(types.ErrMissingTypename, "fragment %s written to %s", def.Name, opts.ID)
	}

	w := newWriter(c, opts.Fragment, opts.Variables)
	if err := w.object(opts.ID, def.SelectionSet, data); err != nil {
		return err
	}
	c.logger.Debug("write fragment",
		zap.String("fragment", def.Name),
		zap.String("id", opts.ID),
		zap.Int("entries", len(w.pending)))
	return w.commit(ctx)
}

// Extract returns the normalized entries by data id. The field maps are the
// stored ones and must not be modified.
func (c *Cache) Extract() map[string]map[string]any {
	return c.store.snapshot()
}

// Restore merges previously extracted entries into the store.
func (c *Cache) Restore(ctx context.Context, entries map[string]map[string]any) error {
	for id, fields := range entries {
		if _, err := c.store.merge(ctx, id, fields); err != nil {
			return errors.Wrapf(err, "restore %s", id)
		}
	}
	return nil
}

// Evict drops an entry from memory and reports whether it was there.
// References to it become dangling and read as missing fields.
func (c *Cache) Evict(id string) bool {
	return c.store.remove(id)
}

// Close flushes pending persistent writes.
func (c *Cache) Close() {
	c.store.close()
}

// matches reports whether a fragment on cond applies to an object of typename.
// Objects with no stored __typename match every fragment.
func (c *Cache) matches(cond, typename string) bool {
	if cond == "" || typename == "" || cond == typename {
		return true
	}
	_, ok := c.possibleTypes[cond][typename]
	return ok
}

// withDefaults fills variables the caller left out from their declared defaults.
func withDefaults(op *ast.OperationDefinition, vars map[string]any) map[string]any {
	out := make(map[string]any, len(vars))
	for k, v := range vars {
		out[k] = v
	}
	for _, def := range op.VariableDefinitions {
		if _, ok := out[def.Variable]; ok || def.DefaultValue == nil {
			continue
		}
		if v, err := def.DefaultValue.Value(nil); err == nil {
			out[def.Variable] = v
		}
	}
	return out
}
