package logging

import "context"

type contextKey string

const (
	// UpdateIDKey is the context key for update run identifiers.
	UpdateIDKey contextKey = "update_id"

	// SourceKey is the context key for the policy source name.
	SourceKey contextKey = "source"

	// MTAKey is the context key for the generator name.
	MTAKey contextKey = "mta"
)

// WithUpdateID adds an update run identifier to the context.
func WithUpdateID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, UpdateIDKey, id)
}

// GetUpdateID retrieves the update run identifier from the context.
func GetUpdateID(ctx context.Context) string {
	id, _ := ctx.Value(UpdateIDKey).(string)
	return id
}

// WithSource adds the policy source name to the context.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, SourceKey, source)
}

// GetSource retrieves the policy source name from the context.
func GetSource(ctx context.Context) string {
	source, _ := ctx.Value(SourceKey).(string)
	return source
}

// WithMTA adds the generator name to the context.
func WithMTA(ctx context.Context, mta string) context.Context {
	return context.WithValue(ctx, MTAKey, mta)
}

// GetMTA retrieves the generator name from the context.
func GetMTA(ctx context.Context) string {
	mta, _ := ctx.Value(MTAKey).(string)
	return mta
}

func extractContextFields(ctx context.Context) []any {
	var fields []any
	if id := GetUpdateID(ctx); id != "" {
		fields = append(fields, string(UpdateIDKey), id)
	}
	if source := GetSource(ctx); source != "" {
		fields = append(fields, string(SourceKey), source)
	}
	if mta := GetMTA(ctx); mta != "" {
		fields = append(fields, string(MTAKey), mta)
	}
	return fields
}
