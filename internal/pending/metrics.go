package pending

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for the pending-candidate store.
type Metrics struct {
	Size          prometheus.Gauge
	ExpiriesTotal prometheus.Counter
	SweptTotal    prometheus.Counter
}

// NewMetrics creates and registers store metrics. Registration happens once
// per process; repeated calls return the same instance.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			Size: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "taskflow_pending_candidates",
				Help: "Current number of candidates awaiting confirmation",
			}),
			ExpiriesTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "taskflow_pending_expiries_total",
				Help: "Total candidates found expired at resolution time",
			}),
			SweptTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "taskflow_pending_swept_total",
				Help: "Total expired candidates reclaimed by the sweeper",
			}),
		}
	})
	return globalMetrics
}

// SetSize updates the store size gauge.
func (m *Metrics) SetSize(n int) {
	m.Size.Set(float64(n))
}

// RecordExpiry records an entry found expired by a taker.
func (m *Metrics) RecordExpiry() {
	m.ExpiriesTotal.Inc()
}

// RecordSweep records entries reclaimed by a sweep pass.
func (m *Metrics) RecordSweep(n int) {
	m.SweptTotal.Add(float64(n))
}
