package inmemory

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/ast"
	"go.uber.org/zap"

	"github.com/krisalay/gql-cache-patch/document"
	"github.com/krisalay/gql-cache-patch/types"
)

// writer splits one result into entry field sets. Nothing is stored until
// commit, so a malformed result leaves the cache untouched.
type writer struct {
	c    *Cache
	doc  *ast.QueryDocument
	vars map[string]any

	// pending holds the fields to merge into each entry, by data id.
	pending map[string]map[string]any
	order   []string
}

func newWriter(c *Cache, doc *ast.QueryDocument, vars map[string]any) *writer {
	return &writer{c: c, doc: doc, vars: vars, pending: make(map[string]map[string]any)}
}

// object records the selected fields of data as fields of entry id.
func (w *writer) object(id string, sel ast.SelectionSet, data map[string]any) error {
	fields, ok := w.pending[id]
	if !ok {
		fields = make(map[string]any)
		w.pending[id] = fields
		w.order = append(w.order, id)
	}
	return w.fill(fields, id, sel, data)
}

func (w *writer) fill(dst map[string]any, path string, sel ast.SelectionSet, data map[string]any) error {
	typename, _ := data[types.TypenameKey].(string)
	if typename != "" {
		dst[types.TypenameKey] = typename
	}

	for _, s := range sel {
		switch s := s.(type) {
		case *ast.Field:
			if s.Name == types.TypenameKey {
				continue
			}
			key, err := document.StoreFieldName(s, w.vars)
			if err != nil {
				return err
			}
			v, ok := data[document.ResponseKey(s)]
			if !ok {
				w.c.logger.Debug("missing field in written data",
					zap.String("field", document.ResponseKey(s)),
					zap.String("object", path))
				continue
			}
			nv, err := w.value(s, v, path+"."+key)
			if err != nil {
				return err
			}
			dst[key] = nv

		case *ast.InlineFragment:
			if w.c.matches(s.TypeCondition, typename) {
				if err := w.fill(dst, path, s.SelectionSet, data); err != nil {
					return err
				}
			}

		case *ast.FragmentSpread:
			def := w.doc.Fragments.ForName(s.Name)
			if def == nil {
				return errors.Errorf("unknown fragment %s", s.Name)
			}
			if w.c.matches(def.TypeCondition, typename) {
				if err := w.fill(dst, path, def.SelectionSet, data); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

/*
value converts one field value to its stored form:
- scalars, and any value of a field without a selection set, as is
- lists element by element
- objects with a data id become references to their own entry
- other objects are stored inline
*/
func (w *writer) value(f *ast.Field, v any, path string) (any, error) {
	if v == nil || len(f.SelectionSet) == 0 {
		return v, nil
	}

	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, elem := range x {
			nv, err := w.value(f, elem, path+"."+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil

	case map[string]any:
		if id, ok := w.c.dataID(x); ok {
			if err := w.object(id, f.SelectionSet, x); err != nil {
				return nil, err
			}
			return types.Ref(id), nil
		}
		nested := make(map[string]any)
		if err := w.fill(nested, path, f.SelectionSet, x); err != nil {
			return nil, err
		}
		return nested, nil
	}

	return nil, errors.Errorf("field %s has a selection set but its value is %T", path, v)
}

// commit merges every pending field set into the store, in first-seen order.
func (w *writer) commit(ctx context.Context) error {
	for _, id := range w.order {
		if _, err := w.c.store.merge(ctx, id, w.pending[id]); err != nil {
			return errors.Wrapf(err, "store %s", id)
		}
	}
	return nil
}
