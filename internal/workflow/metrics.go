package workflow

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for detection and workflow resolution.
type Metrics struct {
	DetectionsTotal *prometheus.CounterVec
	ActionsTotal    *prometheus.CounterVec
}

// NewMetrics creates and registers workflow metrics. Registration happens
// once per process; repeated calls return the same instance.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			DetectionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "taskflow_detections_total",
					Help: "Messages run through detection, by outcome",
				},
				[]string{"outcome"}, // "candidate" or "no_candidate"
			),
			ActionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "taskflow_actions_total",
					Help: "User actions resolved, by result",
				},
				[]string{"result"},
			),
		}
	})
	return globalMetrics
}

// RecordDetection records one detection pass.
func (m *Metrics) RecordDetection(candidate bool) {
	outcome := "no_candidate"
	if candidate {
		outcome = "candidate"
	}
	m.DetectionsTotal.WithLabelValues(outcome).Inc()
}

// RecordAction records one resolved user action.
func (m *Metrics) RecordAction(r Result) {
	m.ActionsTotal.WithLabelValues(string(r)).Inc()
}
