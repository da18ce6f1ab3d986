package types

// This file defines how the cache reports what it is doing.

/*
Metrics is the set of events the cache reports.
Each method is one event in the life of a normalized entry.
*/
type Metrics interface {

	// Hit is called when an entry is served from memory.
	Hit()

	// Miss is called when an entry is not in memory and storage is consulted.
	Miss()

	// Eviction is called when an entry is dropped because its shard is full.
	Eviction()

	// Expire is called when an entry is dropped because its TTL passed.
	Expire()

	// Write is called once per entry stored by a query or fragment write.
	Write()
}

/*
NoopMetrics ignores every event.

The cache always holds a non-nil Metrics so the hot paths never branch on nil.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()      {}
func (NoopMetrics) Miss()     {}
func (NoopMetrics) Eviction() {}
func (NoopMetrics) Expire()   {}
func (NoopMetrics) Write()    {}
