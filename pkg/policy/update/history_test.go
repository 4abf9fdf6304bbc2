package update

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"starttls-hq/everywhere/pkg/config"
)

func TestHistory(t *testing.T) {
	for _, driver := range []string{"sqlite3", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			h, err := OpenHistory(&config.HistoryConfig{
				Driver:      driver,
				Path:        filepath.Join(t.TempDir(), "history.db"),
				BusyTimeout: time.Second,
			})
			if err != nil {
				t.Fatalf("OpenHistory() error = %v", err)
			}
			defer h.Close()

			if h.Driver() != driver {
				t.Errorf("Driver() = %q, want %q", h.Driver(), driver)
			}

			ctx := context.Background()
			if _, ok, err := h.LastSuccess(ctx); err != nil || ok {
				t.Fatalf("LastSuccess() on empty history = %v, %v", ok, err)
			}

			base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			records := []*Record{
				{
					ID:              "a",
					Source:          "http",
					StartedAt:       base,
					Duration:        1500 * time.Millisecond,
					Result:          ResultReplaced,
					RemoteTimestamp: time.Unix(1401093333, 0).UTC(),
					Domains:         3,
				},
				{
					ID:        "b",
					Source:    "http",
					StartedAt: base.Add(time.Hour),
					Result:    ResultFailed,
					Error:     "failed to fetch policy: boom",
				},
			}
			for _, r := range records {
				if err := h.Record(ctx, r); err != nil {
					t.Fatalf("Record() error = %v", err)
				}
			}

			got, err := h.Recent(ctx, 10)
			if err != nil {
				t.Fatalf("Recent() error = %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("Recent() returned %d records, want 2", len(got))
			}
			if got[0].ID != "b" || got[0].Error == "" {
				t.Errorf("newest record = %+v", got[0])
			}
			if !got[1].RemoteTimestamp.Equal(records[0].RemoteTimestamp) {
				t.Errorf("RemoteTimestamp = %v, want %v", got[1].RemoteTimestamp, records[0].RemoteTimestamp)
			}
			if !got[1].LocalTimestamp.IsZero() {
				t.Errorf("LocalTimestamp = %v, want zero", got[1].LocalTimestamp)
			}
			if got[1].Duration != 1500*time.Millisecond || got[1].Domains != 3 {
				t.Errorf("record fields not preserved: %+v", got[1])
			}

			last, ok, err := h.LastSuccess(ctx)
			if err != nil || !ok {
				t.Fatalf("LastSuccess() = %v, %v", ok, err)
			}
			if !last.Equal(base) {
				t.Errorf("LastSuccess() = %v, want %v", last, base)
			}
		})
	}
}

func TestOpenHistory_InvalidDriver(t *testing.T) {
	_, err := OpenHistory(&config.HistoryConfig{
		Driver: "postgres",
		Path:   filepath.Join(t.TempDir(), "history.db"),
	})
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestOpenHistory_ReopenKeepsRecords(t *testing.T) {
	cfg := &config.HistoryConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "history.db")}

	h, err := OpenHistory(cfg)
	if err != nil {
		t.Fatalf("OpenHistory() error = %v", err)
	}
	if err := h.Record(context.Background(), &Record{ID: "x", Source: "git", StartedAt: time.Now(), Result: ResultUnchanged}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	h.Close()

	h, err = OpenHistory(cfg)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer h.Close()

	got, err := h.Recent(context.Background(), 1)
	if err != nil || len(got) != 1 || got[0].Source != "git" {
		t.Errorf("Recent() = %v, %v", got, err)
	}
}
