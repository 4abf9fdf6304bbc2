package update

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"starttls-hq/everywhere/pkg/config"
)

// Record describes one update attempt.
type Record struct {
	ID              string
	Source          string
	StartedAt       time.Time
	Duration        time.Duration
	Result          string
	LocalTimestamp  time.Time
	RemoteTimestamp time.Time
	Domains         int
	Error           string
}

// Recorder persists update attempts.
type Recorder interface {
	Record(ctx context.Context, record *Record) error
}

// History stores update records in SQLite.
type History struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

// OpenHistory opens (creating if needed) the history database.
func OpenHistory(cfg *config.HistoryConfig) (*History, error) {
	if cfg == nil {
		return nil, errors.New("history config cannot be nil")
	}

	driver := cfg.Driver
	if driver == "" {
		driver = config.DefaultHistoryDriver
	}
	if driver != "sqlite3" && driver != "sqlite" {
		return nil, fmt.Errorf("unsupported history driver: %s", driver)
	}

	logger := slog.Default().With("component", "policy.update.history")

	db, err := sql.Open(driver, cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	h := &History{
		db:     db,
		driver: driver,
		logger: logger,
	}

	if err := h.initialize(cfg.BusyTimeout); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("update history initialized",
		"path", cfg.Path,
		"driver", driver,
	)

	return h, nil
}

// initialize enables WAL mode and creates the schema.
func (h *History) initialize(busyTimeout time.Duration) error {
	if _, err := h.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if busyTimeout <= 0 {
		busyTimeout = config.DefaultHistoryBusyTimeout
	}
	if _, err := h.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := h.db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create history schema: %w", err)
	}

	if _, err := h.db.Exec(insertSchemaVersion, SchemaVersion); err != nil {
		return fmt.Errorf("failed to insert schema version: %w", err)
	}

	var version int
	err := h.db.QueryRow(getSchemaVersion).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version != SchemaVersion {
		return fmt.Errorf("expected history schema version %d, got %d", SchemaVersion, version)
	}

	return nil
}

// Driver returns the database/sql driver name in use.
func (h *History) Driver() string {
	return h.driver
}

// Record stores one update attempt.
func (h *History) Record(ctx context.Context, record *Record) error {
	var errVal any
	if record.Error != "" {
		errVal = record.Error
	}

	_, err := h.db.ExecContext(ctx, insertUpdate,
		record.ID,
		record.Source,
		record.StartedAt.UnixNano(),
		record.Duration.Milliseconds(),
		record.Result,
		epoch(record.LocalTimestamp),
		epoch(record.RemoteTimestamp),
		record.Domains,
		errVal,
	)
	if err != nil {
		return fmt.Errorf("failed to record update: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]*Record, error) {
	rows, err := h.db.QueryContext(ctx, selectRecent, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var (
			r                     Record
			startedAt, durationMs int64
			local, remote         int64
			errText               sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Source, &startedAt, &durationMs, &r.Result,
			&local, &remote, &r.Domains, &errText); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		r.StartedAt = time.Unix(0, startedAt).UTC()
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.LocalTimestamp = fromEpoch(local)
		r.RemoteTimestamp = fromEpoch(remote)
		r.Error = errText.String
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return records, nil
}

// LastSuccess returns the start time of the newest attempt that did not
// fail. The boolean is false when no such attempt exists.
func (h *History) LastSuccess(ctx context.Context) (time.Time, bool, error) {
	var startedAt int64
	err := h.db.QueryRowContext(ctx, selectLastSuccess, ResultFailed).Scan(&startedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to query last success: %w", err)
	}
	return time.Unix(0, startedAt).UTC(), true, nil
}

// Close closes the database.
func (h *History) Close() error {
	if err := h.db.Close(); err != nil {
		return fmt.Errorf("failed to close history: %w", err)
	}
	return nil
}

func epoch(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func fromEpoch(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
