package update

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"starttls-hq/everywhere/pkg/policy/codec"
	policyErrors "starttls-hq/everywhere/pkg/policy/errors"
	"starttls-hq/everywhere/pkg/policy/model"
	"starttls-hq/everywhere/pkg/telemetry/logging"
	"starttls-hq/everywhere/pkg/telemetry/metrics"
	"starttls-hq/everywhere/pkg/telemetry/tracing"
)

// Update results.
const (
	ResultReplaced  = metrics.ResultReplaced
	ResultUnchanged = metrics.ResultUnchanged
	ResultFailed    = metrics.ResultFailed
)

// Result describes the outcome of one Update call.
type Result struct {
	ID              string
	Source          string
	StartedAt       time.Time
	Duration        time.Duration
	Replaced        bool
	LocalTimestamp  time.Time
	RemoteTimestamp time.Time
	Domains         int
}

// Outcome returns the result label used in metrics and history.
func (r *Result) Outcome(err error) string {
	switch {
	case err != nil:
		return ResultFailed
	case r.Replaced:
		return ResultReplaced
	default:
		return ResultUnchanged
	}
}

// Option configures an Updater.
type Option func(*Updater)

// WithHistory records every attempt in h.
func WithHistory(h Recorder) Option {
	return func(u *Updater) { u.history = h }
}

// WithMetrics publishes update metrics to c.
func WithMetrics(c *metrics.Collector) Option {
	return func(u *Updater) { u.metrics = c }
}

// WithTracer wraps each update in a span from t.
func WithTracer(t trace.Tracer) Option {
	return func(u *Updater) { u.tracer = t }
}

// WithStore overrides the default FileStore.
func WithStore(s Store) Option {
	return func(u *Updater) { u.store = s }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(u *Updater) { u.now = now }
}

// Updater refreshes the cached policy document from a Fetcher.
type Updater struct {
	fetcher Fetcher
	store   Store
	path    string
	source  string

	history Recorder
	metrics *metrics.Collector
	tracer  trace.Tracer
	now     func() time.Time
	logger  *slog.Logger

	// mu serializes updates so overlapping runs never race on the cache.
	mu   sync.Mutex
	last *Result
}

// NewUpdater creates an updater writing the document fetched by fetcher
// to path.
func NewUpdater(fetcher Fetcher, path string, opts ...Option) *Updater {
	u := &Updater{
		fetcher: fetcher,
		store:   FileStore{},
		path:    path,
		source:  sourceName(fetcher),
		tracer:  noop.NewTracerProvider().Tracer("policy.update"),
		now:     time.Now,
		logger:  slog.Default().With("component", "policy.update"),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Path returns the location of the cached document.
func (u *Updater) Path() string {
	return u.path
}

// Last returns the result of the most recent successful update, or nil.
func (u *Updater) Last() *Result {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.last
}

// Update fetches the remote document and replaces the cached copy when the
// remote one is newer. The returned Result is non-nil even on error.
func (u *Updater) Update(ctx context.Context) (*Result, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	result := &Result{
		ID:        uuid.NewString(),
		Source:    u.source,
		StartedAt: u.now(),
	}

	ctx = logging.WithUpdateID(ctx, result.ID)
	ctx = logging.WithSource(ctx, result.Source)
	ctx, span := u.tracer.Start(ctx, "policy.update",
		trace.WithAttributes(tracing.AttrSource.String(result.Source)))
	defer span.End()

	err := u.update(ctx, result)
	result.Duration = u.now().Sub(result.StartedAt)

	span.SetAttributes(
		tracing.AttrReplaced.Bool(result.Replaced),
		tracing.AttrDomains.Int(result.Domains),
	)
	tracing.SetStatus(span, err)

	outcome := result.Outcome(err)
	if u.metrics != nil {
		u.metrics.RecordUpdate(result.Source, outcome, result.Duration)
	}
	u.record(ctx, result, outcome, err)

	if err != nil {
		u.logger.ErrorContext(ctx, "policy update failed",
			"update_id", result.ID,
			"source", result.Source,
			"error", err,
		)
		return result, err
	}

	u.last = result
	u.logger.InfoContext(ctx, "policy update completed",
		"update_id", result.ID,
		"source", result.Source,
		"result", outcome,
		"remote_timestamp", result.RemoteTimestamp,
		"local_timestamp", result.LocalTimestamp,
		"duration", result.Duration,
	)
	return result, nil
}

func (u *Updater) update(ctx context.Context, result *Result) error {
	data, err := u.fetcher.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch policy: %w", err)
	}

	remote, err := codec.Deserialize(data)
	if err != nil {
		u.recordValidationError(err)
		return fmt.Errorf("fetched policy rejected: %w", err)
	}
	result.RemoteTimestamp = remote.Timestamp()
	result.Domains = remote.Len()

	if remote.Expired(u.now()) {
		u.logger.WarnContext(ctx, "fetched policy has already expired",
			"expires", remote.Expires(),
		)
	}

	local, err := u.loadLocal()
	if err != nil {
		u.logger.WarnContext(ctx, "cached policy unusable, replacing it",
			"path", u.path,
			"error", err,
		)
	}

	if local != nil {
		result.LocalTimestamp = local.Timestamp()
		if !ShouldReplace(local, remote) {
			u.publish(local)
			return nil
		}
	}

	if err := u.store.WriteAll(u.path, data); err != nil {
		return fmt.Errorf("failed to store policy: %w", err)
	}
	result.Replaced = true
	u.publish(remote)

	return nil
}

// loadLocal reads the cached document. A missing file yields (nil, nil).
func (u *Updater) loadLocal() (*model.Config, error) {
	data, err := u.store.ReadAll(u.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return codec.Deserialize(data)
}

func (u *Updater) publish(cfg *model.Config) {
	if u.metrics == nil {
		return
	}
	u.metrics.RecordDocument(cfg.Timestamp(), cfg.Expires(), cfg.Len())
}

func (u *Updater) recordValidationError(err error) {
	if u.metrics == nil {
		return
	}
	category := string(policyErrors.ErrorTypeMalformedDocument)
	var perr *policyErrors.Error
	if errors.As(err, &perr) {
		category = string(perr.Type)
	}
	u.metrics.RecordValidationError(category)
}

func (u *Updater) record(ctx context.Context, result *Result, outcome string, err error) {
	if u.history == nil {
		return
	}
	rec := &Record{
		ID:              result.ID,
		Source:          result.Source,
		StartedAt:       result.StartedAt,
		Duration:        result.Duration,
		Result:          outcome,
		LocalTimestamp:  result.LocalTimestamp,
		RemoteTimestamp: result.RemoteTimestamp,
		Domains:         result.Domains,
	}
	if err != nil {
		rec.Error = err.Error()
	}
	if herr := u.history.Record(ctx, rec); herr != nil {
		u.logger.WarnContext(ctx, "failed to record update history", "error", herr)
	}
}
