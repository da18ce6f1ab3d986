package inmemory

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/krisalay/gql-cache-patch/document"
	"github.com/krisalay/gql-cache-patch/types"
)

// reader rebuilds a result from entries. Every map and slice it returns is
// new, so callers may keep or edit results without touching the store.
type reader struct {
	c    *Cache
	ctx  context.Context
	doc  *ast.QueryDocument
	vars map[string]any
}

func missingField(field, object string) error {
	return errors.WithMessagef(types.ErrMissingField, "%s %s on object %s", types.MissingFieldMessage, field, object)
}

func (r *reader) object(id string, fields map[string]any, sel ast.SelectionSet) (map[string]any, error) {
	out := make(map[string]any)
	if err := r.fill(out, id, fields, sel); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reader) fill(out map[string]any, id string, fields map[string]any, sel ast.SelectionSet) error {
	typename, _ := fields[types.TypenameKey].(string)
	if typename == "" && id == types.RootQuery {
		typename = "Query"
	}
	if r.c.addTypename && fields[types.TypenameKey] != nil {
		out[types.TypenameKey] = typename
	}

	for _, s := range sel {
		switch s := s.(type) {
		case *ast.Field:
			rk := document.ResponseKey(s)
			if s.Name == types.TypenameKey {
				if typename == "" {
					return missingField(s.Name, id)
				}
				out[rk] = typename
				continue
			}

			key, err := document.StoreFieldName(s, r.vars)
			if err != nil {
				return err
			}
			v, ok := fields[key]
			if !ok {
				return missingField(key, id)
			}
			if out[rk], err = r.value(s, v, id+"."+key); err != nil {
				return err
			}

		case *ast.InlineFragment:
			if r.c.matches(s.TypeCondition, typename) {
				if err := r.fill(out, id, fields, s.SelectionSet); err != nil {
					return err
				}
			}

		case *ast.FragmentSpread:
			def := r.doc.Fragments.ForName(s.Name)
			if def == nil {
				return errors.Errorf("unknown fragment %s", s.Name)
			}
			if r.c.matches(def.TypeCondition, typename) {
				if err := r.fill(out, id, fields, def.SelectionSet); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// value resolves one stored field value. path names inline objects in errors.
func (r *reader) value(f *ast.Field, v any, path string) (any, error) {
	if v == nil {
		return nil, nil
	}

	if target, ok := types.AsRef(v); ok && len(f.SelectionSet) > 0 {
		// A dangling reference reads as an entry without fields.
		fields, err := r.c.store.get(r.ctx, target)
		if err != nil {
			return nil, err
		}
		return r.object(target, fields, f.SelectionSet)
	}

	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, elem := range x {
			nv, err := r.value(f, elem, path+"."+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil

	case map[string]any:
		if len(f.SelectionSet) == 0 {
			return copyJSON(x), nil
		}
		return r.object(path, x, f.SelectionSet)
	}

	return v, nil
}

// copyJSON deep-copies the maps and slices of a JSON scalar value.
func copyJSON(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = copyJSON(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = copyJSON(e)
		}
		return out
	}
	return v
}
