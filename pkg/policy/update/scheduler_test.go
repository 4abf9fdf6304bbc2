package update

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestScheduler_Start(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		wantRunning bool
		wantError   bool
	}{
		{name: "every six hours", schedule: "0 */6 * * *", wantRunning: true},
		{name: "daily", schedule: "0 3 * * *", wantRunning: true},
		{name: "empty schedule", schedule: "", wantError: true},
		{name: "invalid schedule", schedule: "invalid cron", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updater := NewUpdater(&staticFetcher{data: []byte(document(1))},
				filepath.Join(t.TempDir(), "policy.json"))
			scheduler := NewScheduler(updater, tt.schedule)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err := scheduler.Start(ctx)
			if (err != nil) != tt.wantError {
				t.Errorf("Start() error = %v, wantError %v", err, tt.wantError)
			}
			if scheduler.IsRunning() != tt.wantRunning {
				t.Errorf("IsRunning() = %v, want %v", scheduler.IsRunning(), tt.wantRunning)
			}

			if tt.wantRunning {
				next := scheduler.NextRun()
				if next == nil {
					t.Fatal("NextRun() returned nil for running scheduler")
				}
				if !next.After(time.Now()) {
					t.Errorf("NextRun() = %v, want a future time", next)
				}
				if err := scheduler.Start(ctx); err == nil {
					t.Error("second Start() should fail")
				}
			}

			scheduler.Stop()
			if scheduler.IsRunning() {
				t.Error("scheduler still running after Stop()")
			}
		})
	}
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	updater := NewUpdater(&staticFetcher{data: []byte(document(1))},
		filepath.Join(t.TempDir(), "policy.json"))
	scheduler := NewScheduler(updater, "0 * * * *")

	ctx, cancel := context.WithCancel(context.Background())
	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for scheduler.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if scheduler.IsRunning() {
		t.Error("scheduler still running after context cancellation")
	}
}

func TestScheduler_RunNow(t *testing.T) {
	fetcher := &staticFetcher{data: []byte(document(1))}
	updater := NewUpdater(fetcher, filepath.Join(t.TempDir(), "policy.json"))
	scheduler := NewScheduler(updater, "0 * * * *")

	scheduler.RunNow(context.Background())
	if fetcher.calls != 1 {
		t.Errorf("fetch calls = %d, want 1", fetcher.calls)
	}
	if updater.Last() == nil || !updater.Last().Replaced {
		t.Error("expected a successful replacing update")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	scheduler.RunNow(ctx)
	if fetcher.calls != 1 {
		t.Error("RunNow should not fetch with a cancelled context")
	}
}
