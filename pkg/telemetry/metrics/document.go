package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"starttls-hq/everywhere/pkg/config"
)

// DocumentMetrics describes the cached policy document.
type DocumentMetrics struct {
	timestamp        prometheus.Gauge
	expires          prometheus.Gauge
	domains          prometheus.Gauge
	validationErrors *prometheus.CounterVec
}

// NewDocumentMetrics creates and registers document metrics with the provided registry.
func NewDocumentMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *DocumentMetrics {
	dm := &DocumentMetrics{
		timestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "document_timestamp_seconds",
			Help:      "Issuance time of the cached policy document as a Unix timestamp",
		}),
		expires: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "document_expires_seconds",
			Help:      "Expiry time of the cached policy document as a Unix timestamp",
		}),
		domains: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "document_domains",
			Help:      "Number of domains with a policy in the cached document",
		}),
		validationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validation_errors_total",
				Help:      "Total number of rejected policy documents by error category",
			},
			[]string{"category"},
		),
	}

	registry.MustRegister(dm.timestamp, dm.expires, dm.domains, dm.validationErrors)

	return dm
}

// Set publishes document metadata.
func (dm *DocumentMetrics) Set(timestamp, expires time.Time, domains int) {
	dm.timestamp.Set(float64(timestamp.Unix()))
	dm.expires.Set(float64(expires.Unix()))
	dm.domains.Set(float64(domains))
}
