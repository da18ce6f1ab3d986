// Package metrics exports cache events to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/krisalay/gql-cache-patch/types"
)

// Prometheus implements types.Metrics with one counter per event.
type Prometheus struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
	expired   prometheus.Counter
	writes    prometheus.Counter
}

var _ types.Metrics = (*Prometheus)(nil)

// NewPrometheus creates the counters under namespace and registers them on reg.
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      name,
			Help:      help,
		})
	}

	p := &Prometheus{
		hits:      counter("hits_total", "Entries served from memory."),
		misses:    counter("misses_total", "Entries not in memory."),
		evictions: counter("evictions_total", "Entries dropped because a shard was full."),
		expired:   counter("expired_total", "Entries dropped because their TTL passed."),
		writes:    counter("writes_total", "Entries stored by query and fragment writes."),
	}

	for _, c := range []prometheus.Collector{p.hits, p.misses, p.evictions, p.expired, p.writes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) Hit()      { p.hits.Inc() }
func (p *Prometheus) Miss()     { p.misses.Inc() }
func (p *Prometheus) Eviction() { p.evictions.Inc() }
func (p *Prometheus) Expire()   { p.expired.Inc() }
func (p *Prometheus) Write()    { p.writes.Inc() }
