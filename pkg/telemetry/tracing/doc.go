// Package tracing provides OpenTelemetry tracing for policy updates.
//
// When tracing is disabled a no-op tracer is used, so instrumented code never
// checks whether tracing is on. When enabled, spans are exported over OTLP
// gRPC and the tracer provider is installed globally.
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, cmd.Version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "policy.update")
//	defer span.End()
package tracing
