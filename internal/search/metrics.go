package search

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records the latency of engine calls.
type Metrics struct {
	requestDuration *prometheus.HistogramVec
}

// NewMetrics registers the client histogram on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "search_client_request_duration_seconds",
				Help:    "Duration of search engine requests by operation and status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "status"},
		),
	}
	if err := reg.Register(m.requestDuration); err != nil {
		return nil, err
	}
	return m, nil
}

// observe is safe on a nil receiver so clients built without metrics skip recording.
func (m *Metrics) observe(op string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requestDuration.WithLabelValues(op, label).Observe(elapsed.Seconds())
}
