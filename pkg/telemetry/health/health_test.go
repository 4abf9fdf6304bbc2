package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"starttls-hq/everywhere/pkg/config"
)

func TestCheckReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
	}{
		{name: "no checks", checks: nil, wantStatus: StatusReady},
		{
			name: "all healthy",
			checks: map[string]CheckFunc{
				"a": func(context.Context) error { return nil },
				"b": func(context.Context) error { return nil },
			},
			wantStatus: StatusReady,
		},
		{
			name: "one unhealthy",
			checks: map[string]CheckFunc{
				"a": func(context.Context) error { return nil },
				"b": func(context.Context) error { return errors.New("stale") },
			},
			wantStatus: StatusDegraded,
		},
		{
			name: "timeout",
			checks: map[string]CheckFunc{
				"slow": func(ctx context.Context) error {
					<-ctx.Done()
					time.Sleep(10 * time.Millisecond)
					return nil
				},
			},
			wantStatus: StatusDegraded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(50 * time.Millisecond)
			for name, check := range tt.checks {
				c.RegisterCheck(name, check)
			}

			status := c.CheckReadiness(context.Background())
			if status.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q (%+v)", status.Status, tt.wantStatus, status.Checks)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("got %d results, want %d", len(status.Checks), len(tt.checks))
			}
		})
	}
}

func TestListChecks(t *testing.T) {
	c := New(0)
	c.RegisterCheck("policy", func(context.Context) error { return nil })
	c.RegisterCheck("freshness", func(context.Context) error { return nil })

	got := c.ListChecks()
	if strings.Join(got, ",") != "freshness,policy" {
		t.Errorf("ListChecks() = %v", got)
	}
}

func TestPolicyCheck(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "valid.json")
	if err := os.WriteFile(valid, []byte(`{"timestamp": 1, "expires": "2100-01-01T00:00:00+0000", "policies": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	expired := filepath.Join(dir, "expired.json")
	if err := os.WriteFile(expired, []byte(`{"timestamp": 1, "expires": 2, "policies": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "valid", path: valid},
		{name: "expired", path: expired, wantErr: true},
		{name: "missing", path: filepath.Join(dir, "missing.json"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PolicyCheck(tt.path, time.Now)(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("PolicyCheck() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFreshnessCheck(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	tests := []struct {
		name    string
		at      time.Time
		ok      bool
		err     error
		wantErr bool
	}{
		{name: "recent", at: now.Add(-time.Hour), ok: true},
		{name: "stale", at: now.Add(-48 * time.Hour), ok: true, wantErr: true},
		{name: "never", wantErr: true},
		{name: "lookup failure", err: errors.New("db locked"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			last := func(context.Context) (time.Time, bool, error) { return tt.at, tt.ok, tt.err }
			err := FreshnessCheck(last, 24*time.Hour, clock)(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("FreshnessCheck() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	c := New(time.Second)
	c.RegisterCheck("broken", func(context.Context) error { return errors.New("boom") })

	mux := http.NewServeMux()
	Register(mux, c, config.HealthConfig{LivenessPath: "/health", ReadinessPath: "/ready"},
		VersionInfo{Version: "1.2.3", Commit: "abc"})

	tests := []struct {
		method   string
		path     string
		wantCode int
		wantBody string
	}{
		{method: http.MethodGet, path: "/health", wantCode: http.StatusOK, wantBody: `"status":"ok"`},
		{method: http.MethodGet, path: "/ready", wantCode: http.StatusServiceUnavailable, wantBody: `"boom"`},
		{method: http.MethodGet, path: "/version", wantCode: http.StatusOK, wantBody: `"version":"1.2.3"`},
		{method: http.MethodHead, path: "/health", wantCode: http.StatusOK},
		{method: http.MethodPost, path: "/health", wantCode: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want containing %s", rec.Body.String(), tt.wantBody)
			}
			if tt.method == http.MethodHead && rec.Body.Len() != 0 {
				t.Error("HEAD response should have no body")
			}
		})
	}
}

func TestReadinessHandler_JSON(t *testing.T) {
	c := New(time.Second)
	c.RegisterCheck("ok", func(context.Context) error { return nil })

	rec := httptest.NewRecorder()
	c.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	var status HealthStatus
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if status.Status != StatusReady || status.Checks["ok"].Status != StatusOK {
		t.Errorf("status = %+v", status)
	}
}
