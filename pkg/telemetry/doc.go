// Package telemetry groups the observability packages of the starttls-policy
// tool.
//
//   - logging: structured slog logging configured from telemetry.logging
//   - metrics: Prometheus counters and gauges for updates and generation
//   - tracing: OpenTelemetry spans exported over OTLP/gRPC
//   - health: liveness, readiness and version endpoints
//
// The long-running commands (update --schedule, watch) serve metrics and
// health endpoints on telemetry.metrics.listen_address:
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("policy", health.PolicyCheck(cfg.PolicyPath(), time.Now))
package telemetry
