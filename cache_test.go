package cachepatch_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	cachepatch "github.com/krisalay/gql-cache-patch"
	"github.com/krisalay/gql-cache-patch/api"
	"github.com/krisalay/gql-cache-patch/api/mocks"
	"github.com/krisalay/gql-cache-patch/document"
	"github.com/krisalay/gql-cache-patch/draft"
	"github.com/krisalay/gql-cache-patch/inmemory"
	"github.com/krisalay/gql-cache-patch/types"
)

var (
	todosQuery   = document.MustParse(`query GetTodos { todos { id done } }`)
	profileQuery = document.MustParse(`query GetProfile { profile { name } }`)
)

//
// ================= HELPER: NORMALIZED CACHE =================
//

func newCache(t *testing.T) *inmemory.Cache {
	t.Helper()
	c, err := inmemory.New()
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func seedTodos(t *testing.T, c *inmemory.Cache) {
	t.Helper()
	require.NoError(t, c.WriteQuery(context.Background(), types.WriteQueryOptions{
		QueryOptions: types.QueryOptions{Query: todosQuery},
		Data:         map[string]any{"todos": []any{map[string]any{"id": 1, "done": false}}},
	}))
}

//
// ================= SCENARIOS =================
//

func TestPatchQueryUpdatesCachedResult(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)
	seedTodos(t, c)

	opts := types.PatchQueryOptions{QueryOptions: types.QueryOptions{Query: todosQuery}}
	got, err := cachepatch.NewProxy(c).PatchQuery(ctx, opts, markFirstDone)
	require.NoError(t, err)

	want := map[string]any{"todos": []any{map[string]any{"id": 1, "done": true}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("patched result mismatch (-want +got):\n%s", diff)
	}

	stored, err := c.ReadQuery(ctx, opts.QueryOptions)
	require.NoError(t, err)
	if diff := cmp.Diff(want, stored); diff != "" {
		t.Fatalf("stored result mismatch (-want +got):\n%s", diff)
	}
}

func TestPatchLazyQueryNotCached(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	got, err := cachepatch.NewProxy(c).PatchQuery(ctx,
		types.PatchQueryOptions{QueryOptions: types.QueryOptions{Query: profileQuery}, IsLazy: true},
		func(d *draft.Draft) error {
			d.Set("name", "x")
			return nil
		},
	)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NotContains(t, c.Extract(), types.RootQuery)
	_, err = c.ReadQuery(ctx, types.QueryOptions{Query: profileQuery})
	assert.ErrorIs(t, err, types.ErrMissingField)
}

func TestPatchQueryNotCached(t *testing.T) {
	c := newCache(t)

	_, err := cachepatch.NewProxy(c).PatchQuery(context.Background(),
		types.PatchQueryOptions{QueryOptions: types.QueryOptions{Query: profileQuery}},
		func(d *draft.Draft) error {
			d.Set("name", "x")
			return nil
		},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can't find field")
	assert.ErrorIs(t, err, types.ErrMissingField)
}

func TestPatchFragmentSetsTypename(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)
	require.NoError(t, c.Restore(ctx, map[string]map[string]any{
		"User:1": {"id": 1, "name": "A"},
	}))

	err := cachepatch.NewProxy(c).PatchFragment(ctx,
		types.FragmentOptions{Fragment: userFields, ID: "User:1"},
		func(d *draft.Draft) error {
			d.Set("name", "B")
			return nil
		},
	)
	require.NoError(t, err)

	want := map[string]any{"id": 1, "name": "B", "__typename": "User"}
	if diff := cmp.Diff(want, c.Extract()["User:1"]); diff != "" {
		t.Fatalf("entry mismatch (-want +got):\n%s", diff)
	}

	got, err := c.ReadFragment(ctx, types.FragmentOptions{Fragment: userFields, ID: "User:1"})
	require.NoError(t, err)
	assert.Equal(t, "User", got.(map[string]any)["__typename"])
}

func TestPatchFragmentReachesEveryQuery(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	feed := document.MustParse(`query Feed { feed { __typename id name } }`)
	me := document.MustParse(`query Me { me { __typename id name } }`)
	user := map[string]any{"__typename": "User", "id": "1", "name": "A"}
	require.NoError(t, c.WriteQuery(ctx, types.WriteQueryOptions{
		QueryOptions: types.QueryOptions{Query: feed},
		Data:         map[string]any{"feed": []any{user}},
	}))
	require.NoError(t, c.WriteQuery(ctx, types.WriteQueryOptions{
		QueryOptions: types.QueryOptions{Query: me},
		Data:         map[string]any{"me": user},
	}))

	err := cachepatch.NewProxy(c).PatchFragment(ctx,
		types.FragmentOptions{Fragment: userFields, ID: "User:1"},
		func(d *draft.Draft) error {
			d.Set("name", "B")
			return nil
		},
	)
	require.NoError(t, err)

	got, err := c.ReadQuery(ctx, types.QueryOptions{Query: me})
	require.NoError(t, err)
	assert.Equal(t, "B", got.(map[string]any)["me"].(map[string]any)["name"])

	got, err = c.ReadQuery(ctx, types.QueryOptions{Query: feed})
	require.NoError(t, err)
	assert.Equal(t, "B", got.(map[string]any)["feed"].([]any)[0].(map[string]any)["name"])
}

//
// ================= UPDATE =================
//

type addTodo struct {
	ID   int
	Done bool
}

func TestUpdateCallsUpdaterOnce(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)
	seedTodos(t, c)

	calls := 0
	handler := cachepatch.Update(func(ctx context.Context, cache api.PatchProxy, result types.FetchResult[addTodo]) error {
		calls++

		proxy, ok := cache.(*cachepatch.Proxy)
		require.True(t, ok)
		assert.Same(t, c, proxy.Unwrap())

		_, err := cache.PatchQuery(ctx,
			types.PatchQueryOptions{QueryOptions: types.QueryOptions{Query: todosQuery}},
			func(d *draft.Draft) error {
				d.Get("todos").Append(map[string]any{"id": result.Data.ID, "done": result.Data.Done})
				return nil
			},
		)
		return err
	})

	require.NoError(t, handler(ctx, c, types.FetchResult[addTodo]{Data: addTodo{ID: 2}}))
	assert.Equal(t, 1, calls)

	got, err := c.ReadQuery(ctx, types.QueryOptions{Query: todosQuery})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"todos": []any{
		map[string]any{"id": 1, "done": false},
		map[string]any{"id": 2, "done": false},
	}}, got)
}

func TestUpdateReturnsUpdaterError(t *testing.T) {
	c := newCache(t)

	handler := cachepatch.Update(func(ctx context.Context, cache api.PatchProxy, _ types.FetchResult[addTodo]) error {
		_, err := cache.PatchQuery(ctx,
			types.PatchQueryOptions{QueryOptions: types.QueryOptions{Query: todosQuery}},
			markFirstDone,
		)
		return err
	})

	err := handler(context.Background(), c, types.FetchResult[addTodo]{})
	assert.ErrorIs(t, err, types.ErrMissingField)
}

// Updaters depend on api.PatchProxy only, so they can be tested against a mock.
func TestUpdaterAgainstMockProxy(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockPatchProxy(ctrl)

	updater := func(ctx context.Context, cache api.PatchProxy, result types.FetchResult[addTodo]) error {
		return cache.PatchFragment(ctx,
			types.FragmentOptions{Fragment: userFields, ID: "User:1"},
			func(d *draft.Draft) error { return nil },
		)
	}

	cache.EXPECT().
		PatchFragment(gomock.Any(), types.FragmentOptions{Fragment: userFields, ID: "User:1"}, gomock.Any()).
		Return(nil)

	require.NoError(t, updater(context.Background(), cache, types.FetchResult[addTodo]{}))
}
