package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cachepatch "github.com/krisalay/gql-cache-patch"
	"github.com/krisalay/gql-cache-patch/api"
	"github.com/krisalay/gql-cache-patch/document"
	"github.com/krisalay/gql-cache-patch/draft"
	"github.com/krisalay/gql-cache-patch/inmemory"
	"github.com/krisalay/gql-cache-patch/metrics"
	"github.com/krisalay/gql-cache-patch/types"
)

var (
	getTodos   = document.MustParse(`query GetTodos { todos { __typename id text done } }`)
	getProfile = document.MustParse(`query GetProfile { profile { name } }`)
	userFields = document.MustParse(`fragment UserFields on User { id name }`)

	banner = color.New(color.FgCyan, color.Bold)
	label  = color.New(color.FgYellow)
	failed = color.New(color.FgRed)
)

type addTodoResult struct {
	ID   string
	Text string
}

func (c *cli) newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the patch scenarios against an in-memory normalized cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := c.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			reg := prometheus.NewRegistry()
			m, err := metrics.NewPrometheus(reg, "gqlpatch")
			if err != nil {
				return err
			}

			opts, closeStore, err := cfg.CacheOptions(logger)
			if err != nil {
				return err
			}
			defer closeStore()

			cache, err := inmemory.New(append(opts, inmemory.WithMetrics(m))...)
			if err != nil {
				return err
			}
			defer cache.Close()

			if err := runDemo(cmd.Context(), cache, logger); err != nil {
				return err
			}
			return printMetrics(reg)
		},
	}
}

func section(title string) {
	banner.Printf("\n==================== %s ====================\n", title)
}

func runDemo(ctx context.Context, cache *inmemory.Cache, logger *zap.Logger) error {
	proxy := cachepatch.NewProxy(cache, cachepatch.WithLogger(logger))

	// ====================================================
	section("1) PATCH QUERY")
	err := cache.WriteQuery(ctx, types.WriteQueryOptions{
		QueryOptions: types.QueryOptions{Query: getTodos},
		Data: map[string]any{"todos": []any{
			map[string]any{"__typename": "Todo", "id": "1", "text": "write docs", "done": false},
		}},
	})
	if err != nil {
		return err
	}
	before, err := cache.ReadQuery(ctx, types.QueryOptions{Query: getTodos})
	if err != nil {
		return err
	}
	after, err := proxy.PatchQuery(ctx,
		types.PatchQueryOptions{QueryOptions: types.QueryOptions{Query: getTodos}},
		func(d *draft.Draft) error {
			d.Get("todos").Index(0).Set("done", true)
			return nil
		},
	)
	if err != nil {
		return err
	}
	printDiff(before, after)

	// ====================================================
	section("2) LAZY QUERY NOT CACHED")
	got, err := proxy.PatchQuery(ctx,
		types.PatchQueryOptions{QueryOptions: types.QueryOptions{Query: getProfile}, IsLazy: true},
		func(d *draft.Draft) error {
			d.Get("profile").Set("name", "x")
			return nil
		},
	)
	if err != nil {
		return err
	}
	label.Print("RESULT → ")
	fmt.Println(got, "(skipped, nothing written)")

	// ====================================================
	section("3) QUERY NOT CACHED")
	_, err = proxy.PatchQuery(ctx,
		types.PatchQueryOptions{QueryOptions: types.QueryOptions{Query: getProfile}},
		func(*draft.Draft) error { return nil },
	)
	failed.Print("ERROR  → ")
	fmt.Println(err)

	// ====================================================
	section("4) PATCH FRAGMENT")
	if err := cache.Restore(ctx, map[string]map[string]any{"User:1": {"id": 1, "name": "A"}}); err != nil {
		return err
	}
	entryBefore := cache.Extract()["User:1"]
	err = proxy.PatchFragment(ctx,
		types.FragmentOptions{Fragment: userFields, ID: "User:1"},
		func(d *draft.Draft) error {
			d.Set("name", "B")
			return nil
		},
	)
	if err != nil {
		return err
	}
	printDiff(entryBefore, cache.Extract()["User:1"])

	// ====================================================
	section("5) MUTATION UPDATE")
	handler := cachepatch.Update(
		func(ctx context.Context, cache api.PatchProxy, result types.FetchResult[addTodoResult]) error {
			_, err := cache.PatchQuery(ctx,
				types.PatchQueryOptions{QueryOptions: types.QueryOptions{Query: getTodos}},
				func(d *draft.Draft) error {
					d.Get("todos").Append(map[string]any{
						"__typename": "Todo", "id": result.Data.ID, "text": result.Data.Text, "done": false,
					})
					return nil
				},
			)
			return err
		},
		cachepatch.WithLogger(logger),
		cachepatch.WithPatchListener(func(target string, ops []draft.Operation) {
			raw, _ := json.Marshal(ops)
			label.Printf("PATCH  → %s ", target)
			fmt.Println(string(raw))
		}),
	)
	return handler(ctx, cache, types.FetchResult[addTodoResult]{Data: addTodoResult{ID: "2", Text: "ship it"}})
}

// printDiff shows the change between two JSON values, character by character.
func printDiff(before, after any) {
	a, _ := json.MarshalIndent(before, "", "  ")
	b, _ := json.MarshalIndent(after, "", "  ")

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(string(a), string(b), false))
	fmt.Println(dmp.DiffPrettyText(diffs))
}

func printMetrics(g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}

	section("METRICS")
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			fmt.Printf("%-32s: %.0f\n", mf.GetName(), metric.GetCounter().GetValue())
		}
	}
	return nil
}
