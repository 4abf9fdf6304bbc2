package tracing

import (
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Sampling strategies accepted in telemetry.tracing.sampler.
const (
	SamplerAlways = "always"
	SamplerNever  = "never"
	SamplerRatio  = "ratio"
)

// createSampler returns a parent-based sampler so that update spans started
// under a sampled parent are always kept.
func createSampler(strategy string, ratio float64) (sdktrace.Sampler, error) {
	var root sdktrace.Sampler
	switch strategy {
	case SamplerAlways:
		root = sdktrace.AlwaysSample()
	case SamplerNever:
		root = sdktrace.NeverSample()
	case SamplerRatio:
		if ratio < 0 || ratio > 1 {
			return nil, fmt.Errorf("sample ratio %g out of range [0, 1]", ratio)
		}
		root = sdktrace.TraceIDRatioBased(ratio)
	default:
		return nil, fmt.Errorf("unknown sampler %q", strategy)
	}
	return sdktrace.ParentBased(root), nil
}
