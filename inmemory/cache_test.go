package inmemory_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/gql-cache-patch/document"
	"github.com/krisalay/gql-cache-patch/eviction"
	"github.com/krisalay/gql-cache-patch/expiration"
	"github.com/krisalay/gql-cache-patch/inmemory"
	"github.com/krisalay/gql-cache-patch/metrics"
	"github.com/krisalay/gql-cache-patch/persist"
	"github.com/krisalay/gql-cache-patch/types"
	"github.com/krisalay/gql-cache-patch/writepolicy"
)

var (
	getTodos = document.MustParse(`query GetTodos { todos { id done } }`)

	getUsers = document.MustParse(`query GetUsers { users { __typename id name } }`)

	getUser = document.MustParse(`
		query GetUser($id: ID!) {
			user(id: $id) { __typename id name ...Contact }
		}
		fragment Contact on User { email }
	`)

	userFields = document.MustParse(`fragment UserFields on User { id name }`)
)

//
// ================= TEST HELPERS =================
//

type countingMetrics struct {
	hits, misses, evictions, expired, writes atomic.Int64
}

func (m *countingMetrics) Hit()      { m.hits.Add(1) }
func (m *countingMetrics) Miss()     { m.misses.Add(1) }
func (m *countingMetrics) Eviction() { m.evictions.Add(1) }
func (m *countingMetrics) Expire()   { m.expired.Add(1) }
func (m *countingMetrics) Write()    { m.writes.Add(1) }

func newTestCache(t *testing.T, opts ...inmemory.Option) *inmemory.Cache {
	t.Helper()
	c, err := inmemory.New(opts...)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func users(n int) map[string]any {
	list := make([]any, n)
	for i := range list {
		list[i] = map[string]any{
			"__typename": "User",
			"id":         fmt.Sprint(i + 1),
			"name":       fmt.Sprintf("user-%d", i+1),
		}
	}
	return map[string]any{"users": list}
}

//
// ================= QUERIES =================
//

func TestWriteAndReadQuery(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	data := map[string]any{"todos": []any{map[string]any{"id": 1, "done": false}}}
	require.NoError(t, c.WriteQuery(ctx, types.WriteQueryOptions{
		QueryOptions: types.QueryOptions{Query: getTodos},
		Data:         data,
	}))

	got, err := c.ReadQuery(ctx, types.QueryOptions{Query: getTodos})
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestReadQueryMissingField(t *testing.T) {
	c := newTestCache(t)

	_, err := c.ReadQuery(context.Background(), types.QueryOptions{Query: getTodos})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrMissingField)
	assert.Contains(t, err.Error(), "Can't find field todos on object ROOT_QUERY")
}

func TestReadQueryRejectsMutation(t *testing.T) {
	c := newTestCache(t)

	_, err := c.ReadQuery(context.Background(), types.QueryOptions{
		Query: document.MustParse(`mutation Add { add }`),
	})
	assert.ErrorIs(t, err, document.ErrNoQueryDefinition)
}

func TestWriteQueryNormalizesEntities(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	data := map[string]any{"user": map[string]any{
		"__typename": "User", "id": "1", "name": "Ada", "email": "ada@example.com",
	}}
	opts := types.QueryOptions{Query: getUser, Variables: map[string]any{"id": "1"}}
	require.NoError(t, c.WriteQuery(ctx, types.WriteQueryOptions{QueryOptions: opts, Data: data}))

	entries := c.Extract()
	assert.Equal(t, types.Ref("User:1"), entries[types.RootQuery][`user({"id":"1"})`])
	assert.Equal(t, map[string]any{
		"__typename": "User", "id": "1", "name": "Ada", "email": "ada@example.com",
	}, entries["User:1"])

	got, err := c.ReadQuery(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	// other variables are another entry
	_, err = c.ReadQuery(ctx, types.QueryOptions{Query: getUser, Variables: map[string]any{"id": "2"}})
	assert.ErrorIs(t, err, types.ErrMissingField)
}

func TestReadResultIsDetachedFromStore(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	require.NoError(t, c.WriteQuery(ctx, types.WriteQueryOptions{
		QueryOptions: types.QueryOptions{Query: getUsers},
		Data:         users(2),
	}))

	got, err := c.ReadQuery(ctx, types.QueryOptions{Query: getUsers})
	require.NoError(t, err)
	got.(map[string]any)["users"].([]any)[0].(map[string]any)["name"] = "changed"

	again, err := c.ReadQuery(ctx, types.QueryOptions{Query: getUsers})
	require.NoError(t, err)
	assert.Equal(t, users(2), again)
}

func TestInlineFragmentsFollowTypename(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, inmemory.WithPossibleTypes(map[string][]string{"Node": {"User", "Post"}}))

	q := document.MustParse(`query Node {
		node { __typename ... on Node { id } ... on User { name } ... on Post { title } }
	}`)
	require.NoError(t, c.WriteQuery(ctx, types.WriteQueryOptions{
		QueryOptions: types.QueryOptions{Query: q},
		Data: map[string]any{"node": map[string]any{
			"__typename": "User", "id": "7", "name": "Ada", "title": "ignored",
		}},
	}))

	assert.NotContains(t, c.Extract()["User:7"], "title")

	got, err := c.ReadQuery(ctx, types.QueryOptions{Query: q})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"node": map[string]any{
		"__typename": "User", "id": "7", "name": "Ada",
	}}, got)
}

func TestVariableDefaults(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	q := document.MustParse(`query Feed($first: Int = 10) { feed(first: $first) }`)
	require.NoError(t, c.WriteQuery(ctx, types.WriteQueryOptions{
		QueryOptions: types.QueryOptions{Query: q},
		Data:         map[string]any{"feed": []any{"a", "b"}},
	}))

	got, err := c.ReadQuery(ctx, types.QueryOptions{Query: q, Variables: map[string]any{"first": 10}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"feed": []any{"a", "b"}}, got)
}

//
// ================= FRAGMENTS =================
//

func TestReadFragmentOfNormalizedEntity(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	require.NoError(t, c.WriteQuery(ctx, types.WriteQueryOptions{
		QueryOptions: types.QueryOptions{Query: getUsers},
		Data:         users(2),
	}))

	got, err := c.ReadFragment(ctx, types.FragmentOptions{Fragment: userFields, ID: "User:2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"__typename": "User", "id": "2", "name": "user-2"}, got)
}

func TestReadFragmentUnknownID(t *testing.T) {
	c := newTestCache(t)

	got, err := c.ReadFragment(context.Background(), types.FragmentOptions{Fragment: userFields, ID: "User:404"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReadFragmentMissingField(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	require.NoError(t, c.Restore(ctx, map[string]map[string]any{"User:1": {"id": "1"}}))

	_, err := c.ReadFragment(ctx, types.FragmentOptions{Fragment: userFields, ID: "User:1"})
	assert.ErrorIs(t, err, types.ErrMissingField)
	assert.Contains(t, err.Error(), "Can't find field name on object User:1")
}

func TestWriteFragmentNeedsTypename(t *testing.T) {
	c := newTestCache(t)

	err := c.WriteFragment(context.Background(), types.WriteFragmentOptions{
		FragmentOptions: types.FragmentOptions{Fragment: userFields, ID: "User:1"},
		Data:            map[string]any{"id": "1", "name": "Ada"},
	})
	assert.ErrorIs(t, err, types.ErrMissingTypename)
	assert.Empty(t, c.Extract())
}

func TestWriteFragmentMergesFields(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	require.NoError(t, c.WriteQuery(ctx, types.WriteQueryOptions{
		QueryOptions: types.QueryOptions{Query: getUser, Variables: map[string]any{"id": "1"}},
		Data: map[string]any{"user": map[string]any{
			"__typename": "User", "id": "1", "name": "Ada", "email": "ada@example.com",
		}},
	}))
	before := c.Extract()["User:1"]

	require.NoError(t, c.WriteFragment(ctx, types.WriteFragmentOptions{
		FragmentOptions: types.FragmentOptions{Fragment: userFields, ID: "User:1"},
		Data:            map[string]any{"__typename": "User", "id": "1", "name": "Grace"},
	}))

	assert.Equal(t, map[string]any{
		"__typename": "User", "id": "1", "name": "Grace", "email": "ada@example.com",
	}, c.Extract()["User:1"])
	assert.Equal(t, "Ada", before["name"], "stored field maps are never edited in place")
}

func TestFragmentNameSelection(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	doc := document.MustParse(`
		fragment UserName on User { name }
		fragment UserEmail on User { email }
	`)
	require.NoError(t, c.Restore(ctx, map[string]map[string]any{
		"User:1": {"__typename": "User", "name": "Ada", "email": "ada@example.com"},
	}))

	_, err := c.ReadFragment(ctx, types.FragmentOptions{Fragment: doc, ID: "User:1"})
	assert.ErrorIs(t, err, document.ErrFragmentName)

	got, err := c.ReadFragment(ctx, types.FragmentOptions{Fragment: doc, FragmentName: "UserEmail", ID: "User:1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"__typename": "User", "email": "ada@example.com"}, got)
}

//
// ================= CAPACITY, TTL, PERSISTENCE =================
//

func TestEvictionKeepsRootQuery(t *testing.T) {
	ctx := context.Background()
	m := &countingMetrics{}
	c := newTestCache(t,
		inmemory.WithShards(1),
		inmemory.WithCapacity(2),
		inmemory.WithEviction(eviction.LRU),
		inmemory.WithMetrics(m),
	)

	require.NoError(t, c.WriteQuery(ctx, types.WriteQueryOptions{
		QueryOptions: types.QueryOptions{Query: getUsers},
		Data:         users(3),
	}))

	entries := c.Extract()
	assert.Contains(t, entries, types.RootQuery)
	assert.Contains(t, entries, "User:3")
	assert.Len(t, entries, 2)
	assert.Equal(t, int64(2), m.evictions.Load())

	_, err := c.ReadQuery(ctx, types.QueryOptions{Query: getUsers})
	assert.ErrorIs(t, err, types.ErrMissingField)
}

func TestUnknownEvictionPolicy(t *testing.T) {
	_, err := inmemory.New(inmemory.WithEviction("random"))
	assert.Error(t, err)
}

func TestExpiredEntityReadsAsMissing(t *testing.T) {
	ctx := context.Background()
	m := &countingMetrics{}
	c := newTestCache(t,
		inmemory.WithExpiration(&expiration.ExpireAfterWrite{TTL: 5 * time.Millisecond}),
		inmemory.WithMetrics(m),
	)

	require.NoError(t, c.WriteQuery(ctx, types.WriteQueryOptions{
		QueryOptions: types.QueryOptions{Query: getUsers},
		Data:         users(1),
	}))

	time.Sleep(20 * time.Millisecond)

	got, err := c.ReadFragment(ctx, types.FragmentOptions{Fragment: userFields, ID: "User:1"})
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, int64(1), m.expired.Load())

	// ROOT_QUERY never expires, its reference now dangles
	_, err = c.ReadQuery(ctx, types.QueryOptions{Query: getUsers})
	assert.ErrorIs(t, err, types.ErrMissingField)
	assert.Contains(t, err.Error(), "on object User:1")
}

func TestEntriesRehydrateFromStorage(t *testing.T) {
	ctx := context.Background()
	store := persist.NewMemoryStorage()

	first := newTestCache(t,
		inmemory.WithStorage(store),
		inmemory.WithWritePolicy(writepolicy.NewWriteThroughPolicy(store, nil)),
	)
	require.NoError(t, first.WriteQuery(ctx, types.WriteQueryOptions{
		QueryOptions: types.QueryOptions{Query: getUsers},
		Data:         users(2),
	}))
	assert.Equal(t, 3, store.Len())

	m := &countingMetrics{}
	second := newTestCache(t, inmemory.WithStorage(store), inmemory.WithMetrics(m))
	got, err := second.ReadQuery(ctx, types.QueryOptions{Query: getUsers})
	require.NoError(t, err)
	assert.Equal(t, users(2), got)
	assert.Equal(t, int64(3), m.misses.Load())

	// now in memory
	_, err = second.ReadQuery(ctx, types.QueryOptions{Query: getUsers})
	require.NoError(t, err)
	assert.Equal(t, int64(3), m.misses.Load())
}

func TestEvictDropsFromMemoryOnly(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	require.NoError(t, c.Restore(ctx, map[string]map[string]any{
		"User:1": {"__typename": "User", "id": "1", "name": "Ada"},
	}))

	assert.True(t, c.Evict("User:1"))
	assert.False(t, c.Evict("User:1"))

	got, err := c.ReadFragment(ctx, types.FragmentOptions{Fragment: userFields, ID: "User:1"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPrometheusMetricsWiring(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m, err := metrics.NewPrometheus(reg, "test")
	require.NoError(t, err)
	c := newTestCache(t, inmemory.WithMetrics(m))

	require.NoError(t, c.WriteQuery(ctx, types.WriteQueryOptions{
		QueryOptions: types.QueryOptions{Query: getUsers},
		Data:         users(1),
	}))
	_, err = c.ReadQuery(ctx, types.QueryOptions{Query: getUsers})
	require.NoError(t, err)

	// ROOT_QUERY and User:1 each: one write, then one hit on read. Writes count no misses.
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP test_cache_writes_total Entries stored by query and fragment writes.
# TYPE test_cache_writes_total counter
test_cache_writes_total 2
# HELP test_cache_hits_total Entries served from memory.
# TYPE test_cache_hits_total counter
test_cache_hits_total 2
# HELP test_cache_misses_total Entries not in memory.
# TYPE test_cache_misses_total counter
test_cache_misses_total 0
`), "test_cache_writes_total", "test_cache_hits_total", "test_cache_misses_total"))
}

//
// ================= CONCURRENCY =================
//

func TestWritesAreNotReads(t *testing.T) {
	ctx := context.Background()
	m := &countingMetrics{}
	c := newTestCache(t,
		inmemory.WithExpiration(expiration.New(time.Hour, true)),
		inmemory.WithMetrics(m),
	)

	for i := 0; i < 3; i++ {
		require.NoError(t, c.WriteFragment(ctx, types.WriteFragmentOptions{
			FragmentOptions: types.FragmentOptions{Fragment: userFields, ID: "User:1"},
			Data:            map[string]any{"__typename": "User", "id": "1", "name": fmt.Sprint("v", i)},
		}))
	}

	assert.Equal(t, int64(3), m.writes.Load())
	assert.Zero(t, m.hits.Load())
	assert.Zero(t, m.misses.Load())
	assert.Equal(t, "v2", c.Extract()["User:1"]["name"])
}

func TestConcurrentReadsAndWrites(t *testing.T) {
	tests := []struct {
		name string
		opts []inmemory.Option
	}{
		{"no ttl", nil},
		{"fixed ttl", []inmemory.Option{inmemory.WithExpiration(expiration.New(time.Minute, false))}},
		{"sliding ttl", []inmemory.Option{inmemory.WithExpiration(expiration.New(time.Minute, true))}},
		{"sliding ttl lfu", []inmemory.Option{
			inmemory.WithExpiration(expiration.New(time.Minute, true)),
			inmemory.WithEviction(eviction.LFU),
			inmemory.WithCapacity(1000),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			c := newTestCache(t, append([]inmemory.Option{inmemory.WithShards(8)}, tt.opts...)...)

			require.NoError(t, c.WriteQuery(ctx, types.WriteQueryOptions{
				QueryOptions: types.QueryOptions{Query: getUsers},
				Data:         users(10),
			}))

			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < 100; j++ {
						if _, err := c.ReadFragment(ctx, types.FragmentOptions{Fragment: userFields, ID: "User:1"}); err != nil {
							t.Errorf("read fragment: %v", err)
							return
						}
					}
				}()
			}
			for i := 0; i < 10; i++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					if _, err := c.ReadQuery(ctx, types.QueryOptions{Query: getUsers}); err != nil {
						t.Errorf("read: %v", err)
					}
				}()
				go func(id int) {
					defer wg.Done()
					err := c.WriteFragment(ctx, types.WriteFragmentOptions{
						FragmentOptions: types.FragmentOptions{Fragment: userFields, ID: fmt.Sprintf("User:%d", id)},
						Data:            map[string]any{"__typename": "User", "id": fmt.Sprint(id), "name": "renamed"},
					})
					if err != nil {
						t.Errorf("write: %v", err)
					}
				}(i + 1)
			}
			wg.Wait()

			got, err := c.ReadFragment(ctx, types.FragmentOptions{Fragment: userFields, ID: "User:5"})
			require.NoError(t, err)
			assert.Equal(t, "renamed", got.(map[string]any)["name"])
		})
	}
}
