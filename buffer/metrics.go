package buffer

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the pool's Prometheus instruments: hit/miss counters,
// eviction and dirty-eviction-write counters, flush/delete counters, and
// a gauge of currently pinned frames.
type Metrics struct {
	hits           prometheus.Counter
	misses         prometheus.Counter
	evictions      prometheus.Counter
	dirtyEvictions prometheus.Counter
	flushes        prometheus.Counter
	deletes        prometheus.Counter
	pinned         prometheus.Gauge
}

// NewMetrics builds a private, unregistered Metrics instance, safe to
// construct any number of times without colliding on the default
// registry. Call Register to expose it on one.
func NewMetrics() *Metrics {
	return &Metrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "driftdb_buffer_pool_hits_total",
			Help: "Number of FetchPage calls served without disk I/O.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "driftdb_buffer_pool_misses_total",
			Help: "Number of FetchPage calls that loaded the page from disk, plus NewPage/FetchPage calls that failed for lack of a frame.",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "driftdb_buffer_pool_evictions_total",
			Help: "Number of frames reclaimed from the replacer (excludes free-list reuse).",
		}),
		dirtyEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "driftdb_buffer_pool_dirty_evictions_total",
			Help: "Number of evictions that required a write-through to disk first.",
		}),
		flushes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "driftdb_buffer_pool_flushes_total",
			Help: "Number of pages written to disk via FlushPage/FlushAllPages.",
		}),
		deletes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "driftdb_buffer_pool_deletes_total",
			Help: "Number of pages successfully removed via DeletePage.",
		}),
		pinned: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "driftdb_buffer_pool_pinned_frames",
			Help: "Number of frames with a non-zero pin count right now.",
		}),
	}
}

// Register registers every instrument on reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.hits, m.misses, m.evictions, m.dirtyEvictions, m.flushes, m.deletes, m.pinned,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
