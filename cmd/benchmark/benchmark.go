package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	cachepatch "github.com/krisalay/gql-cache-patch"
	"github.com/krisalay/gql-cache-patch/document"
	"github.com/krisalay/gql-cache-patch/draft"
	"github.com/krisalay/gql-cache-patch/eviction"
	"github.com/krisalay/gql-cache-patch/inmemory"
	"github.com/krisalay/gql-cache-patch/persist"
	"github.com/krisalay/gql-cache-patch/types"
	"github.com/krisalay/gql-cache-patch/writepolicy"
)

var userVisits = document.MustParse(`fragment Visits on User { id visits }`)

// ================= BENCHMARK =================

func main() {
	ctx := context.Background()

	// ---------------- Cache Config ----------------
	const (
		shards     = 8
		capacity   = 200000
		entities   = 100000
		goroutines = 200
		opsPerG    = 5000
	)

	fmt.Println("\n================ PATCH LOAD BENCHMARK =================")
	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Shards       :", shards)
	fmt.Println("Capacity     :", capacity)
	fmt.Println("Entities     :", entities)
	fmt.Println("Goroutines   :", goroutines)
	fmt.Println("Ops/Goroutine:", opsPerG)
	fmt.Println("---------------------------------")

	// ---------------- Backing Store ----------------
	store := persist.NewMemoryStorage()

	c, err := inmemory.New(
		inmemory.WithShards(shards),
		inmemory.WithCapacity(capacity),
		inmemory.WithEviction(eviction.LRU),
		inmemory.WithStorage(store),
		inmemory.WithWritePolicy(writepolicy.NewWriteBackPolicy(store, 4096, nil)),
	)
	if err != nil {
		panic(err)
	}
	proxy := cachepatch.NewProxy(c)

	// ---------------- Preload Cache ----------------
	fmt.Println("Preloading entities...")
	entries := make(map[string]map[string]any, entities)
	for i := 0; i < entities; i++ {
		entries[fmt.Sprintf("User:%d", i)] = map[string]any{"__typename": "User", "id": i, "visits": 0}
	}
	if err := c.Restore(ctx, entries); err != nil {
		panic(err)
	}
	fmt.Println("Preload complete.")

	// ---------------- Load Test ----------------
	fmt.Println("Running concurrent fragment patches...")

	var failures atomic.Int64
	start := time.Now()

	wg := sync.WaitGroup{}
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < opsPerG; j++ {
				opts := types.FragmentOptions{
					Fragment: userVisits,
					ID:       fmt.Sprintf("User:%d", (id*opsPerG+j)%entities),
				}
				err := proxy.PatchFragment(ctx, opts, func(d *draft.Draft) error {
					n, _ := d.Get("visits").Value().(int)
					d.Set("visits", n+1)
					return nil
				})
				if err != nil {
					failures.Add(1)
				}
			}
		}(g)
	}
	wg.Wait()

	duration := time.Since(start)
	totalOps := goroutines * opsPerG

	c.Close()

	fmt.Println("\n================ RESULTS =================")
	fmt.Printf("Total Patches    : %d\n", totalOps)
	fmt.Printf("Failed Patches   : %d\n", failures.Load())
	fmt.Printf("Total Time       : %v\n", duration)
	fmt.Printf("Throughput       : %.2f patches/sec\n", float64(totalOps)/duration.Seconds())
	fmt.Printf("Persisted        : %d entities\n", store.Len())
	fmt.Println("=========================================")
}
