package api

import (
	"context"

	"github.com/krisalay/gql-cache-patch/draft"
	"github.com/krisalay/gql-cache-patch/types"
)

//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks

/*
DataProxy is the contract a normalized GraphQL cache exposes to mutation
update handlers. The patch helpers only ever talk to a cache through it,
so any cache implementation can sit underneath.
*/
type DataProxy interface {

	/*
		ReadQuery returns the cached result of a query.

		BEHAVIOR:
		---------
		- The result is keyed by (Query, Variables)
		- If any selected field is not cached, the read fails with an error
		  whose message contains "Can't find field"
	*/
	ReadQuery(ctx context.Context, opts types.QueryOptions) (any, error)

	/*
		WriteQuery stores a query result under (Query, Variables).
	*/
	WriteQuery(ctx context.Context, opts types.WriteQueryOptions) error

	/*
		ReadFragment returns the fields of one entity selected by a fragment.

		BEHAVIOR:
		---------
		- The entity is keyed by ID
		- FragmentName selects the fragment when the document holds several
		- Returns nil when the entity is unknown
		- Fails the same way as ReadQuery when a selected field is missing
	*/
	ReadFragment(ctx context.Context, opts types.FragmentOptions) (any, error)

	/*
		WriteFragment stores entity fields selected by a fragment.

		IMPORTANT:
		----------
		- Data must carry __typename; the cache routes the write by it
	*/
	WriteFragment(ctx context.Context, opts types.WriteFragmentOptions) error
}

/*
PatchProxy is a DataProxy that can also patch cached data in place.

Both patch operations follow the same sequence:

 1. read the current value with the descriptor given
 2. run the patch function on a draft of that value
 3. write the new immutable value back with the exact same descriptor
*/
type PatchProxy interface {
	DataProxy

	/*
		PatchQuery patches a cached query result and returns the new value.

		BEHAVIOR:
		---------
		- Not cached and IsLazy is false: the read error is returned
		- Not cached and IsLazy is true: returns (nil, nil), nothing is written
		- Any other failure is returned unchanged
	*/
	PatchQuery(ctx context.Context, opts types.PatchQueryOptions, fn draft.PatchFunc) (any, error)

	/*
		PatchFragment patches a cached entity through a fragment.

		BEHAVIOR:
		---------
		- __typename on the written data is always set from the fragment's
		  type condition, whatever the patch function left there
		- There is no lazy mode: every failure is returned
	*/
	PatchFragment(ctx context.Context, opts types.FragmentOptions, fn draft.PatchFunc) error
}
