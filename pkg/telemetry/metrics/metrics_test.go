package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"starttls-hq/everywhere/pkg/config"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:   true,
		Namespace: "test",
		Subsystem: "policy",
	}
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
	if !collector.Enabled() {
		t.Error("expected collector to be enabled")
	}
}

func TestCollector_DefaultNames(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}
	NewCollector(cfg, nil)

	if cfg.Namespace != config.DefaultMetricsNamespace || cfg.Subsystem != config.DefaultMetricsSubsystem {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestCollector_RecordUpdate(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	tests := []struct {
		name   string
		source string
		result string
	}{
		{name: "replaced", source: "http", result: ResultReplaced},
		{name: "unchanged", source: "http", result: ResultUnchanged},
		{name: "failed", source: "git", result: ResultFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector.RecordUpdate(tt.source, tt.result, 200*time.Millisecond)
			count := testutil.ToFloat64(collector.updateMetrics.updatesTotal.WithLabelValues(tt.source, tt.result))
			if count != 1 {
				t.Errorf("Expected update count 1, got %f", count)
			}
		})
	}
}

func TestCollector_RecordDocument(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	issued := time.Unix(1401093333, 0)
	expires := issued.Add(24 * time.Hour)
	collector.RecordDocument(issued, expires, 42)

	if got := testutil.ToFloat64(collector.documentMetrics.timestamp); got != 1401093333 {
		t.Errorf("timestamp gauge = %f", got)
	}
	if got := testutil.ToFloat64(collector.documentMetrics.expires); got != float64(expires.Unix()) {
		t.Errorf("expires gauge = %f", got)
	}
	if got := testutil.ToFloat64(collector.documentMetrics.domains); got != 42 {
		t.Errorf("domains gauge = %f", got)
	}
}

func TestCollector_Counters(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordValidationError("missing_field")
	collector.RecordGeneration("postfix", ResultSuccess)

	if got := testutil.ToFloat64(collector.documentMetrics.validationErrors.WithLabelValues("missing_field")); got != 1 {
		t.Errorf("validation errors = %f, want 1", got)
	}
	if got := testutil.ToFloat64(collector.updateMetrics.generationsTotal.WithLabelValues("postfix", ResultSuccess)); got != 1 {
		t.Errorf("generations = %f, want 1", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, prometheus.NewRegistry())

	collector.RecordUpdate("http", ResultReplaced, time.Second)
	collector.RecordValidationError("invalid_value")

	if got := testutil.ToFloat64(collector.updateMetrics.updatesTotal.WithLabelValues("http", ResultReplaced)); got != 0 {
		t.Errorf("Expected no updates recorded when disabled, got %f", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.RecordUpdate("http", ResultReplaced, time.Second)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "test_policy_updates_total") {
		t.Errorf("metrics output missing updates_total:\n%s", rec.Body.String())
	}
}
