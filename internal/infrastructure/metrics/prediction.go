// Package metrics provides Prometheus metrics for the prediction pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"cropadvisor/internal/ports/output"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

var _ output.PredictionMetrics = (*PredictionMetrics)(nil)

// PredictionMetrics counts prediction runs and their latency.
type PredictionMetrics struct {
	predictionsTotal   *prometheus.CounterVec
	predictionDuration *prometheus.HistogramVec
	knownCrops         map[string]struct{}
}

// NewPredictionMetrics creates and registers the metrics. Crops outside
// knownCrops are reported as "other" to bound label cardinality.
func NewPredictionMetrics(registry prometheus.Registerer, knownCrops []string) (*PredictionMetrics, error) {
	m := &PredictionMetrics{
		predictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cropadvisor",
				Name:      "predictions_total",
				Help:      "Total number of prediction runs",
			},
			[]string{"crop", "status"}, // status: success, error
		),
		predictionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "cropadvisor",
				Name:      "prediction_duration_seconds",
				Help:      "Time taken to compute and persist a prediction",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"status"},
		),
		knownCrops: make(map[string]struct{}, len(knownCrops)),
	}
	for _, c := range knownCrops {
		m.knownCrops[c] = struct{}{}
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *PredictionMetrics) ObservePrediction(crop string, err error, elapsed time.Duration) {
	status := statusSuccess
	if err != nil {
		status = statusError
	}
	if _, ok := m.knownCrops[crop]; !ok {
		crop = "other"
	}
	m.predictionsTotal.WithLabelValues(crop, status).Inc()
	m.predictionDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}

// Describe implements prometheus.Collector.
func (m *PredictionMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.predictionsTotal.Describe(ch)
	m.predictionDuration.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *PredictionMetrics) Collect(ch chan<- prometheus.Metric) {
	m.predictionsTotal.Collect(ch)
	m.predictionDuration.Collect(ch)
}
