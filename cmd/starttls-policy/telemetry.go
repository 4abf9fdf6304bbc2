package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"starttls-hq/everywhere/pkg/config"
	"starttls-hq/everywhere/pkg/telemetry/health"
	"starttls-hq/everywhere/pkg/telemetry/metrics"
	"starttls-hq/everywhere/pkg/telemetry/tracing"
)

// telemetry bundles the observability components of long-running commands.
type telemetry struct {
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	health  *health.Checker
	server  *http.Server
}

func newTelemetry(cfg *config.Config) (*telemetry, error) {
	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	return &telemetry{
		metrics: metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
		tracer:  tracer,
		health:  health.New(5 * time.Second),
	}, nil
}

// serve starts the metrics and health endpoints when either is enabled.
func (t *telemetry) serve(cfg *config.Config) error {
	if !cfg.Telemetry.Metrics.Enabled && !cfg.Telemetry.Health.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	if cfg.Telemetry.Metrics.Enabled {
		mux.Handle(cfg.Telemetry.Metrics.Path, t.metrics.Handler())
	}
	if cfg.Telemetry.Health.Enabled {
		health.Register(mux, t.health, cfg.Telemetry.Health, health.VersionInfo{
			Version:   Version,
			Commit:    GitCommit,
			BuildTime: BuildDate,
		})
	}

	listener, err := net.Listen("tcp", cfg.Telemetry.Metrics.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Telemetry.Metrics.ListenAddress, err)
	}

	t.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := t.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("telemetry server failed", "error", err)
		}
	}()

	slog.Info("telemetry endpoints listening",
		"address", listener.Addr().String(),
		"metrics", cfg.Telemetry.Metrics.Enabled,
		"health", cfg.Telemetry.Health.Enabled,
	)
	return nil
}

func (t *telemetry) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if t.server != nil {
		if err := t.server.Shutdown(ctx); err != nil {
			slog.Warn("failed to stop telemetry server", "error", err)
		}
	}
	if err := t.tracer.Shutdown(ctx); err != nil {
		slog.Warn("failed to flush traces", "error", err)
	}
}
