package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{
			name:   "defaults are valid",
			modify: func(*Config) {},
		},
		{
			name:      "empty policy dir",
			modify:    func(c *Config) { c.Policy.Dir = "" },
			wantField: "policy.dir",
		},
		{
			name:      "filename with separator",
			modify:    func(c *Config) { c.Policy.Filename = "a/policy.json" },
			wantField: "policy.filename",
		},
		{
			name:      "remote url without scheme",
			modify:    func(c *Config) { c.Policy.RemoteURL = "example.com/policy.json" },
			wantField: "policy.remote_url",
		},
		{
			name:      "unknown source",
			modify:    func(c *Config) { c.Update.Source = "ftp" },
			wantField: "update.source",
		},
		{
			name: "git token auth without token",
			modify: func(c *Config) {
				c.Update.Source = "git"
				c.Update.Git.Repository = "https://example.com/repo.git"
				c.Update.Git.Auth.Type = "token"
			},
			wantField: "update.git.auth.token",
		},
		{
			name:      "bad schedule",
			modify:    func(c *Config) { c.Update.Schedule = "every day" },
			wantField: "update.schedule",
		},
		{
			name:      "unknown driver",
			modify:    func(c *Config) { c.History.Driver = "postgres" },
			wantField: "history.driver",
		},
		{
			name:      "negative debounce",
			modify:    func(c *Config) { c.Generate.Debounce = -1 },
			wantField: "generate.debounce",
		},
		{
			name: "metrics path without slash",
			modify: func(c *Config) {
				c.Telemetry.Metrics.Enabled = true
				c.Telemetry.Metrics.Path = "metrics"
			},
			wantField: "telemetry.metrics.path",
		},
		{
			name:      "tracing without endpoint",
			modify:    func(c *Config) { c.Telemetry.Tracing.Enabled = true },
			wantField: "telemetry.tracing.endpoint",
		},
		{
			name:      "sample ratio out of range",
			modify:    func(c *Config) { c.Telemetry.Tracing.SampleRatio = 1.5 },
			wantField: "telemetry.tracing.sample_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := Validate(cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error for %q, got %v", tt.wantField, verr)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	single := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if got := single.Error(); got != "configuration validation failed: a: bad" {
		t.Errorf("unexpected message %q", got)
	}

	multi := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}}
	if got := multi.Error(); !strings.Contains(got, "2 errors") || !strings.Contains(got, "b: worse") {
		t.Errorf("unexpected message %q", got)
	}
}
