// Package metrics provides Prometheus metrics for the starttls-policy tool.
//
// # Metrics
//
//   - <ns>_<sub>_updates_total{source,result}: update attempts by outcome
//   - <ns>_<sub>_update_duration_seconds{source}: update latency
//   - <ns>_<sub>_document_timestamp_seconds: issuance time of the cached document
//   - <ns>_<sub>_document_expires_seconds: expiry time of the cached document
//   - <ns>_<sub>_document_domains: number of domains in the cached document
//   - <ns>_<sub>_validation_errors_total{category}: rejected documents by error category
//   - <ns>_<sub>_generations_total{mta,result}: MTA configuration renders
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordUpdate("http", metrics.ResultReplaced, time.Since(start))
//	http.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// All recording methods are no-ops when metrics are disabled.
package metrics
