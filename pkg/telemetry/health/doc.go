// Package health serves liveness and readiness probes for the scheduled
// updater.
//
// Liveness only reports that the process runs. Readiness runs every
// registered check: by default the cached policy must parse and be
// unexpired, and the last successful update must be recent enough.
//
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("policy", health.PolicyCheck(cfg.PolicyPath(), time.Now))
//	checker.RegisterCheck("freshness", health.FreshnessCheck(history.LastSuccess, time.Hour, time.Now))
//	health.Register(mux, checker, cfg.Telemetry.Health, health.VersionInfo{Version: version})
package health
