package worker

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts indexing events by outcome: indexed, failed or skipped.
type Metrics struct {
	events  *prometheus.CounterVec
	flushes prometheus.Histogram
}

// NewMetrics registers the worker collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "searchbridge_worker_events_total",
			Help: "Indexing events consumed, by outcome.",
		}, []string{"result"}),
		flushes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "searchbridge_worker_batch_size",
			Help:    "Number of operations submitted per bulk request.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 7),
		}),
	}
	for _, c := range []prometheus.Collector{m.events, m.flushes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) count(result string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.events.WithLabelValues(result).Add(float64(n))
}

func (m *Metrics) batch(n int) {
	if m == nil {
		return
	}
	m.flushes.Observe(float64(n))
}
