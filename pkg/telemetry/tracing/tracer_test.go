package tracing

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"starttls-hq/everywhere/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *config.TracingConfig
		wantErr bool
	}{
		{name: "nil config", config: nil, wantErr: true},
		{name: "disabled tracing", config: &config.TracingConfig{ServiceName: "test"}},
		{
			name: "enabled with always sampler",
			config: &config.TracingConfig{
				Enabled:     true,
				Sampler:     SamplerAlways,
				Endpoint:    "localhost:4317",
				ServiceName: "test",
				Insecure:    true,
				Timeout:     time.Second,
			},
		},
		{
			name: "unknown sampler",
			config: &config.TracingConfig{
				Enabled:  true,
				Sampler:  "sometimes",
				Endpoint: "localhost:4317",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(tt.config, "test")
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer tracer.Shutdown(context.Background())

			if tracer.Enabled() != tt.config.Enabled {
				t.Errorf("Enabled() = %v, want %v", tracer.Enabled(), tt.config.Enabled)
			}
			ctx, span := tracer.Start(context.Background(), "test")
			span.End()
			if ctx == nil {
				t.Error("expected non-nil context")
			}
		})
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{strategy: SamplerAlways},
		{strategy: SamplerNever},
		{strategy: SamplerRatio, ratio: 0.5},
		{strategy: SamplerRatio, ratio: 1.5, wantErr: true},
		{strategy: "bogus", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			_, err := createSampler(tt.strategy, tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Errorf("createSampler() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetStatus(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := provider.Tracer("test")

	ctx, span := tracer.Start(context.Background(), "failing")
	if TraceID(ctx) == "" {
		t.Error("expected trace id in span context")
	}
	SetStatus(span, errors.New("boom"))
	span.End()

	_, span = tracer.Start(context.Background(), "ok")
	SetStatus(span, nil)
	span.End()

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("first span status = %v, want error", spans[0].Status().Code)
	}
	if spans[1].Status().Code != codes.Ok {
		t.Errorf("second span status = %v, want ok", spans[1].Status().Code)
	}

	if TraceID(context.Background()) != "" {
		t.Error("expected empty trace id without span")
	}
}
