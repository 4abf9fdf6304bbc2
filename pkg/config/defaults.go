package config

import (
	"path/filepath"
	"time"
)

// Default values for configuration fields.
const (
	// Policy defaults
	DefaultPolicyDir       = "/etc/starttls-policy/"
	DefaultPolicyFilename  = "policy.json"
	DefaultPolicyRemoteURL = "https://raw.githubusercontent.com/sydneyli/starttls-everywhere/policy.json"

	// Update defaults
	DefaultUpdateSource   = "http"
	DefaultUpdateTimeout  = 30 * time.Second
	DefaultUpdateSchedule = "0 */6 * * *"
	DefaultGitBranch      = "master"
	DefaultGitPath        = "policy.json"
	DefaultGitAuthType    = "none"

	// History defaults
	DefaultHistoryDriver      = "sqlite3"
	DefaultHistoryPath        = "/var/lib/starttls-policy/history.db"
	DefaultHistoryBusyTimeout = 5 * time.Second

	// Generate defaults
	DefaultGenerateMTA      = "postfix"
	DefaultGenerateDebounce = 500 * time.Millisecond

	// Telemetry defaults
	DefaultLogLevel             = "info"
	DefaultLogFormat            = "text"
	DefaultMetricsListenAddress = "127.0.0.1:9464"
	DefaultMetricsPath          = "/metrics"
	DefaultMetricsNamespace     = "starttls"
	DefaultMetricsSubsystem     = "policy"
	DefaultTracingSampler       = "always"
	DefaultTracingSampleRatio   = 1.0
	DefaultTracingServiceName   = "starttls-policy"
	DefaultTracingTimeout       = 10 * time.Second
	DefaultHealthLivenessPath   = "/health"
	DefaultHealthReadinessPath  = "/ready"
	DefaultHealthMaxStaleness   = 24 * time.Hour
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
func ApplyDefaults(cfg *Config) {
	// Policy defaults
	if cfg.Policy.Dir == "" {
		cfg.Policy.Dir = DefaultPolicyDir
	}
	if cfg.Policy.Filename == "" {
		cfg.Policy.Filename = DefaultPolicyFilename
	}
	if cfg.Policy.RemoteURL == "" {
		cfg.Policy.RemoteURL = DefaultPolicyRemoteURL
	}

	// Update defaults
	if cfg.Update.Source == "" {
		cfg.Update.Source = DefaultUpdateSource
	}
	if cfg.Update.Timeout == 0 {
		cfg.Update.Timeout = DefaultUpdateTimeout
	}
	if cfg.Update.Schedule == "" {
		cfg.Update.Schedule = DefaultUpdateSchedule
	}
	if cfg.Update.Git.Branch == "" {
		cfg.Update.Git.Branch = DefaultGitBranch
	}
	if cfg.Update.Git.Path == "" {
		cfg.Update.Git.Path = DefaultGitPath
	}
	if cfg.Update.Git.Auth.Type == "" {
		cfg.Update.Git.Auth.Type = DefaultGitAuthType
	}

	// History defaults
	if cfg.History.Driver == "" {
		cfg.History.Driver = DefaultHistoryDriver
	}
	if cfg.History.Path == "" {
		cfg.History.Path = DefaultHistoryPath
	}
	if cfg.History.BusyTimeout == 0 {
		cfg.History.BusyTimeout = DefaultHistoryBusyTimeout
	}

	// Generate defaults
	if cfg.Generate.MTA == "" {
		cfg.Generate.MTA = DefaultGenerateMTA
	}
	if cfg.Generate.Debounce == 0 {
		cfg.Generate.Debounce = DefaultGenerateDebounce
	}

	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.Logging.Level == "" {
		t.Logging.Level = DefaultLogLevel
	}
	if t.Logging.Format == "" {
		t.Logging.Format = DefaultLogFormat
	}

	if t.Metrics.ListenAddress == "" {
		t.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if t.Metrics.Path == "" {
		t.Metrics.Path = DefaultMetricsPath
	}
	if t.Metrics.Namespace == "" {
		t.Metrics.Namespace = DefaultMetricsNamespace
	}
	if t.Metrics.Subsystem == "" {
		t.Metrics.Subsystem = DefaultMetricsSubsystem
	}

	if t.Tracing.Sampler == "" {
		t.Tracing.Sampler = DefaultTracingSampler
	}
	if t.Tracing.SampleRatio == 0 {
		t.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if t.Tracing.ServiceName == "" {
		t.Tracing.ServiceName = DefaultTracingServiceName
	}
	if t.Tracing.Timeout == 0 {
		t.Tracing.Timeout = DefaultTracingTimeout
	}

	if t.Health.LivenessPath == "" {
		t.Health.LivenessPath = DefaultHealthLivenessPath
	}
	if t.Health.ReadinessPath == "" {
		t.Health.ReadinessPath = DefaultHealthReadinessPath
	}
	if t.Health.MaxStaleness == 0 {
		t.Health.MaxStaleness = DefaultHealthMaxStaleness
	}
}

func joinPath(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}
