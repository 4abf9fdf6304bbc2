package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"starttls-hq/everywhere/pkg/config"
)

// UpdateMetrics tracks fetch and render activity.
type UpdateMetrics struct {
	updatesTotal     *prometheus.CounterVec
	updateDuration   *prometheus.HistogramVec
	generationsTotal *prometheus.CounterVec
}

// NewUpdateMetrics creates and registers update metrics with the provided registry.
func NewUpdateMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *UpdateMetrics {
	um := &UpdateMetrics{
		updatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "updates_total",
				Help:      "Total number of policy update attempts",
			},
			[]string{"source", "result"},
		),

		updateDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "update_duration_seconds",
				Help:      "Duration of policy updates in seconds",
				// Network fetches, 50ms to ~100s
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
			},
			[]string{"source"},
		),

		generationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "generations_total",
				Help:      "Total number of MTA configuration renders",
			},
			[]string{"mta", "result"},
		),
	}

	registry.MustRegister(um.updatesTotal, um.updateDuration, um.generationsTotal)

	return um
}

// RecordUpdate records one update attempt.
func (um *UpdateMetrics) RecordUpdate(source, result string, duration time.Duration) {
	um.updatesTotal.WithLabelValues(source, result).Inc()
	um.updateDuration.WithLabelValues(source).Observe(duration.Seconds())
}
