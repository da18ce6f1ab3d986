// Package document holds the GraphQL document helpers the cache and the patch
// helpers share.
package document

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

var (
	// ErrNoFragmentDefinition is returned for documents without any fragment definition.
	ErrNoFragmentDefinition = errors.New("document has no fragment definition")

	// ErrNoQueryDefinition is returned for documents without a query operation.
	ErrNoQueryDefinition = errors.New("document has no query definition")

	// ErrFragmentName is returned when a fragment cannot be picked by name.
	ErrFragmentName = errors.New("cannot select fragment")
)

// Parse parses an executable GraphQL document.
func Parse(src string) (*ast.QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: src})
	if err != nil {
		return nil, errors.Wrap(err, "parse document")
	}
	return doc, nil
}

// MustParse is Parse for documents known at compile time. It panics on error.
func MustParse(src string) *ast.QueryDocument {
	doc, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return doc
}

// FragmentTypename returns the type condition of the first fragment
// definition in doc.
func FragmentTypename(doc *ast.QueryDocument) (string, error) {
	if doc == nil || len(doc.Fragments) == 0 {
		return "", ErrNoFragmentDefinition
	}
	return doc.Fragments[0].TypeCondition, nil
}

// QueryDefinition returns the first operation of doc, which must be a query.
func QueryDefinition(doc *ast.QueryDocument) (*ast.OperationDefinition, error) {
	if doc == nil || len(doc.Operations) == 0 {
		return nil, ErrNoQueryDefinition
	}
	op := doc.Operations[0]
	if op.Operation != ast.Query {
		return nil, errors.Wrapf(ErrNoQueryDefinition, "first operation is a %s", op.Operation)
	}
	return op, nil
}

/*
FragmentDefinition picks the fragment a fragment read or write applies to.

BEHAVIOR:
---------
- name given: the fragment with that name
- name empty: the only fragment of the document; zero or several is an error
*/
func FragmentDefinition(doc *ast.QueryDocument, name string) (*ast.FragmentDefinition, error) {
	if doc == nil || len(doc.Fragments) == 0 {
		return nil, ErrNoFragmentDefinition
	}
	if name != "" {
		if def := doc.Fragments.ForName(name); def != nil {
			return def, nil
		}
		return nil, errors.Wrapf(ErrFragmentName, "no fragment named %s", name)
	}
	if n := len(doc.Fragments); n != 1 {
		return nil, errors.Wrapf(ErrFragmentName,
			"found %d fragments, a fragment name must be provided when there is not exactly 1", n)
	}
	return doc.Fragments[0], nil
}

// ResponseKey is the key a field's value has in a result object.
func ResponseKey(f *ast.Field) string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

/*
StoreFieldName is the key a field's value has in a normalized entry.

Fields without arguments are stored under their name. Fields with arguments
are stored as name(<json>) where <json> holds the resolved argument values
with sorted keys, so user(id: 1) and user(id: $id) with id=1 share an entry.
*/
func StoreFieldName(f *ast.Field, vars map[string]any) (string, error) {
	if len(f.Arguments) == 0 {
		return f.Name, nil
	}

	args := make(map[string]any, len(f.Arguments))
	for _, a := range f.Arguments {
		v, err := a.Value.Value(vars)
		if err != nil {
			return "", errors.Wrapf(err, "resolve argument %s of %s", a.Name, f.Name)
		}
		args[a.Name] = v
	}

	// encoding/json sorts map keys, which keeps the name stable.
	raw, err := json.Marshal(args)
	if err != nil {
		return "", errors.Wrapf(err, "encode arguments of %s", f.Name)
	}

	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteByte('(')
	b.Write(raw)
	b.WriteByte(')')
	return b.String(), nil
}
