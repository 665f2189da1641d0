package processor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments batch runs. All methods are nil-safe so the processor
// can run without a registry in tests.
type Metrics struct {
	runs          prometheus.Counter
	slidesUpdated prometheus.Counter
	fetchFailures *prometheus.CounterVec
}

// NewMetrics registers the processor counters on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aarhus_data",
			Subsystem: "processor",
			Name:      "runs_total",
			Help:      "Number of batch runs started.",
		}),
		slidesUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aarhus_data",
			Subsystem: "processor",
			Name:      "slides_updated_total",
			Help:      "Number of slides that received fresh data.",
		}),
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aarhus_data",
			Subsystem: "processor",
			Name:      "fetch_failures_total",
			Help:      "Number of failed data function executions.",
		}, []string{"data_function"}),
	}
	reg.MustRegister(m.runs, m.slidesUpdated, m.fetchFailures)
	return m
}

func (m *Metrics) runStarted() {
	if m != nil {
		m.runs.Inc()
	}
}

func (m *Metrics) runFinished(summary *Summary) {
	if m != nil {
		m.slidesUpdated.Add(float64(summary.Updated))
	}
}

func (m *Metrics) fetchFailed(functionID string) {
	if m != nil {
		m.fetchFailures.WithLabelValues(functionID).Inc()
	}
}
