package cache

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus counters for cache lookups. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	hits   prometheus.Counter
	misses prometheus.Counter
}

// NewMetrics creates and registers cache metrics with the provided registerer.
func NewMetrics(reg prometheus.Registerer, component string) (*Metrics, error) {
	m := &Metrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "aarhus_data",
			Subsystem:   "cache",
			Name:        "hits_total",
			ConstLabels: prometheus.Labels{"component": component},
			Help:        "Total number of cache hits",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "aarhus_data",
			Subsystem:   "cache",
			Name:        "misses_total",
			ConstLabels: prometheus.Labels{"component": component},
			Help:        "Total number of cache misses",
		}),
	}

	if err := reg.Register(m.hits); err != nil {
		return nil, err
	}
	if err := reg.Register(m.misses); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) hit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.misses.Inc()
	}
}
