package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"starttls-hq/everywhere/pkg/config"
)

// Update results.
const (
	ResultReplaced  = "replaced"
	ResultUnchanged = "unchanged"
	ResultFailed    = "failed"
)

// Generation results.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Collector owns every metric of the tool and the registry they live in.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	updateMetrics   *UpdateMetrics
	documentMetrics *DocumentMetrics
}

// NewCollector creates a collector registering its metrics with registry.
// A nil registry creates a fresh one.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}

	return &Collector{
		config:          cfg,
		registry:        registry,
		updateMetrics:   NewUpdateMetrics(cfg, registry),
		documentMetrics: NewDocumentMetrics(cfg, registry),
	}
}

// Registry returns the registry backing the collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Enabled reports whether metrics are recorded.
func (c *Collector) Enabled() bool {
	return c.config.Enabled
}

// RecordUpdate records one update attempt.
func (c *Collector) RecordUpdate(source, result string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.updateMetrics.RecordUpdate(source, result, duration)
}

// RecordDocument publishes the metadata of the cached document.
func (c *Collector) RecordDocument(timestamp, expires time.Time, domains int) {
	if !c.config.Enabled {
		return
	}
	c.documentMetrics.Set(timestamp, expires, domains)
}

// RecordValidationError counts a rejected document by error category.
func (c *Collector) RecordValidationError(category string) {
	if !c.config.Enabled {
		return
	}
	c.documentMetrics.validationErrors.WithLabelValues(category).Inc()
}

// RecordGeneration counts one MTA configuration render.
func (c *Collector) RecordGeneration(mta, result string) {
	if !c.config.Enabled {
		return
	}
	c.updateMetrics.generationsTotal.WithLabelValues(mta, result).Inc()
}
