package config

import "time"

// Config is the root configuration of the starttls-policy tool.
type Config struct {
	// Policy locates the policy document and its optional overrides.
	Policy PolicyConfig `yaml:"policy"`

	// Update controls how fresh policy documents are fetched.
	Update UpdateConfig `yaml:"update"`

	// History controls the record of update attempts.
	History HistoryConfig `yaml:"history"`

	// Generate controls MTA configuration rendering.
	Generate GenerateConfig `yaml:"generate"`

	// Telemetry contains logging, metrics, tracing and health settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// PolicyConfig locates the policy document.
type PolicyConfig struct {
	// Dir is the directory holding the cached policy document.
	// Default: "/etc/starttls-policy/"
	Dir string `yaml:"dir"`

	// Filename is the name of the cached policy document inside Dir.
	// Default: "policy.json"
	Filename string `yaml:"filename"`

	// RemoteURL is the location of the published policy document.
	// Default: "https://raw.githubusercontent.com/sydneyli/starttls-everywhere/policy.json"
	RemoteURL string `yaml:"remote_url"`

	// OverridesFile is an optional local document merged over the policy
	// before rendering. Relative paths are resolved against Dir.
	OverridesFile string `yaml:"overrides_file"`
}

// UpdateConfig controls policy fetching.
type UpdateConfig struct {
	// Source selects the fetcher.
	// Options: "http", "git"
	// Default: "http"
	Source string `yaml:"source"`

	// Timeout bounds a single fetch.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// Schedule is the cron expression used by "update --schedule".
	// Default: "0 */6 * * *"
	Schedule string `yaml:"schedule"`

	// Git configures the git source.
	Git GitSourceConfig `yaml:"git"`
}

// GitSourceConfig locates a policy document inside a git repository.
type GitSourceConfig struct {
	// Repository is the clone URL.
	Repository string `yaml:"repository"`

	// Branch is the branch to read.
	// Default: "master"
	Branch string `yaml:"branch"`

	// Path is the document path inside the repository.
	// Default: "policy.json"
	Path string `yaml:"path"`

	// Auth contains optional credentials.
	Auth GitAuthConfig `yaml:"auth"`
}

// GitAuthConfig contains git credentials.
type GitAuthConfig struct {
	// Type selects the authentication method.
	// Options: "none", "token", "ssh"
	// Default: "none"
	Type string `yaml:"type"`

	// Token is used with Type "token".
	Token string `yaml:"token"`

	// SSHKeyPath is used with Type "ssh".
	SSHKeyPath string `yaml:"ssh_key_path"`

	// SSHKeyPassphrase unlocks an encrypted SSH key.
	SSHKeyPassphrase string `yaml:"ssh_key_passphrase"`
}

// HistoryConfig controls the update history database.
type HistoryConfig struct {
	// Enabled turns on history recording.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Driver selects the SQLite driver.
	// Options: "sqlite3" (cgo), "sqlite" (pure Go)
	// Default: "sqlite3"
	Driver string `yaml:"driver"`

	// Path is the database file.
	// Default: "/var/lib/starttls-policy/history.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long to wait on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// GenerateConfig controls rendering.
type GenerateConfig struct {
	// MTA is the default generator name.
	// Default: "postfix"
	MTA string `yaml:"mta"`

	// OutputDir is where rendered files are written. Empty means the policy
	// directory.
	OutputDir string `yaml:"output_dir"`

	// Debounce is the quiet period the watch command waits for after a
	// policy change.
	// Default: 500ms
	Debounce time.Duration `yaml:"debounce"`
}

// TelemetryConfig groups observability settings.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`

	// Health contains health endpoint configuration.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is where the metrics endpoint is served during
	// scheduled updates.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path of the Prometheus endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "starttls"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "policy"
	Subsystem string `yaml:"subsystem"`
}

// TracingConfig contains tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample with Sampler "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "starttls-policy"
	ServiceName string `yaml:"service_name"`

	// Insecure disables TLS for the collector connection.
	Insecure bool `yaml:"insecure"`

	// Timeout bounds span exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// HealthConfig contains health endpoint configuration.
type HealthConfig struct {
	// Enabled serves health endpoints next to metrics.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// LivenessPath is the path for the liveness probe.
	// Default: "/health"
	LivenessPath string `yaml:"liveness_path"`

	// ReadinessPath is the path for the readiness probe.
	// Default: "/ready"
	ReadinessPath string `yaml:"readiness_path"`

	// MaxStaleness marks the service unready when the last successful update
	// is older than this.
	// Default: 24h
	MaxStaleness time.Duration `yaml:"max_staleness"`
}

// PolicyPath returns the path of the cached policy document.
func (c *Config) PolicyPath() string {
	return joinPath(c.Policy.Dir, c.Policy.Filename)
}

// OverridesPath returns the path of the overrides document, or "" when none
// is configured.
func (c *Config) OverridesPath() string {
	if c.Policy.OverridesFile == "" {
		return ""
	}
	return joinPath(c.Policy.Dir, c.Policy.OverridesFile)
}

// OutputDir returns the directory rendered files are written to.
func (c *Config) OutputDir() string {
	if c.Generate.OutputDir != "" {
		return c.Generate.OutputDir
	}
	return c.Policy.Dir
}
