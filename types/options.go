package types

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// QueryOptions identifies one cached query result.
type QueryOptions struct {
	Query     *ast.QueryDocument
	Variables map[string]any
}

// WriteQueryOptions is a query write. The embedded QueryOptions is the key.
type WriteQueryOptions struct {
	QueryOptions
	Data any
}

// PatchQueryOptions describes a query patch.
type PatchQueryOptions struct {
	QueryOptions

	// IsLazy marks a query that may not be in the cache yet. A missing-field
	// read is then logged and skipped instead of returned.
	IsLazy bool
}

// FragmentOptions identifies one cached entity as seen through a fragment.
type FragmentOptions struct {
	Fragment *ast.QueryDocument

	// FragmentName selects the fragment when the document defines more than one.
	FragmentName string

	// ID is the data id of the entity, e.g. "User:1".
	ID string

	// Variables resolves field arguments that reference variables.
	Variables map[string]any
}

// WriteFragmentOptions is a fragment write. The embedded FragmentOptions is the key.
type WriteFragmentOptions struct {
	FragmentOptions
	Data any
}

// FetchResult is the payload a completed mutation hands to its update handler.
type FetchResult[T any] struct {
	Data       T
	Errors     gqlerror.List
	Extensions map[string]any
}
