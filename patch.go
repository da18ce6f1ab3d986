// Package cachepatch lets GraphQL mutation update handlers change cached data
// through in-place edits of a draft instead of hand-written immutable copies.
//
// A Proxy wraps any api.DataProxy. Each patch reads the cached value, runs the
// patch function on a structurally shared draft of it and writes the produced
// value back under the exact descriptor that was read.
package cachepatch

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/ast"
	"go.uber.org/zap"

	"github.com/krisalay/gql-cache-patch/api"
	"github.com/krisalay/gql-cache-patch/document"
	"github.com/krisalay/gql-cache-patch/draft"
	"github.com/krisalay/gql-cache-patch/types"
)

// PatchListener is told about every committed patch. target is
// "query <name>" or "fragment <name> <id>"; ops describe the change.
type PatchListener func(target string, ops []draft.Operation)

// Proxy is a cache handle with the patch operations added. Every DataProxy
// call goes straight to the wrapped cache.
type Proxy struct {
	api.DataProxy

	logger  *zap.Logger
	onPatch PatchListener
}

var _ api.PatchProxy = (*Proxy)(nil)

// Option configures a Proxy.
type Option func(*Proxy)

func WithLogger(l *zap.Logger) Option {
	return func(p *Proxy) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithPatchListener records the JSON Patch operations of each patch and hands
// them to fn once the write went through. Patches that change nothing are
// not reported.
func WithPatchListener(fn PatchListener) Option {
	return func(p *Proxy) { p.onPatch = fn }
}

// NewProxy wraps cache. The cache itself is not modified.
func NewProxy(cache api.DataProxy, opts ...Option) *Proxy {
	p := &Proxy{DataProxy: cache, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Unwrap returns the wrapped cache.
func (p *Proxy) Unwrap() api.DataProxy {
	return p.DataProxy
}

func (p *Proxy) PatchQuery(ctx context.Context, opts types.PatchQueryOptions, fn draft.PatchFunc) (any, error) {
	name := operationName(opts.Query)

	base, err := p.ReadQuery(ctx, opts.QueryOptions)
	if err != nil {
		if opts.IsLazy && isMissingField(err) {
			p.logger.Warn("lazy query not cached, patch skipped",
				zap.String("query", name),
				zap.Error(err))
			return nil, nil
		}
		return nil, err
	}

	next, ops, err := p.produce(base, fn)
	if err != nil {
		return nil, err
	}

	if err := p.WriteQuery(ctx, types.WriteQueryOptions{QueryOptions: opts.QueryOptions, Data: next}); err != nil {
		return nil, err
	}
	p.notify("query "+name, ops)
	return next, nil
}

func (p *Proxy) PatchFragment(ctx context.Context, opts types.FragmentOptions, fn draft.PatchFunc) error {
	typename, err := document.FragmentTypename(opts.Fragment)
	if err != nil {
		return err
	}

	base, err := p.ReadFragment(ctx, opts)
	if err != nil {
		return err
	}

	next, ops, err := p.produce(base, fn)
	if err != nil {
		return err
	}

	data, err := withTypename(next, typename)
	if err != nil {
		return errors.WithMessagef(err, "patch fragment on %s", opts.ID)
	}

	if err := p.WriteFragment(ctx, types.WriteFragmentOptions{FragmentOptions: opts, Data: data}); err != nil {
		return err
	}
	p.notify("fragment "+fragmentName(opts)+" "+opts.ID, ops)
	return nil
}

// produce records operations only when someone listens for them.
func (p *Proxy) produce(base any, fn draft.PatchFunc) (any, []draft.Operation, error) {
	if p.onPatch == nil {
		next, err := draft.Produce(base, fn)
		return next, nil, err
	}
	return draft.ProduceWithPatches(base, fn)
}

func (p *Proxy) notify(target string, ops []draft.Operation) {
	if p.onPatch != nil && len(ops) > 0 {
		p.onPatch(target, ops)
	}
}

/*
withTypename returns a shallow copy of the produced fragment data with
__typename set. The produced value may share maps with the cache, so it is
never edited in place.

A nil value (the patch built the entity from nothing) becomes an object
holding only __typename.
*/
func withTypename(v any, typename string) (map[string]any, error) {
	if v == nil {
		return map[string]any{types.TypenameKey: typename}, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errors.Wrapf(types.ErrFragmentNotObject, "got %T", v)
	}

	out := make(map[string]any, len(obj)+1)
	for k, e := range obj {
		out[k] = e
	}
	out[types.TypenameKey] = typename
	return out, nil
}

func operationName(doc *ast.QueryDocument) string {
	if doc == nil || len(doc.Operations) == 0 {
		return ""
	}
	return doc.Operations[0].Name
}

func fragmentName(opts types.FragmentOptions) string {
	if opts.FragmentName != "" {
		return opts.FragmentName
	}
	if opts.Fragment != nil && len(opts.Fragment.Fragments) > 0 {
		return opts.Fragment.Fragments[0].Name
	}
	return ""
}
