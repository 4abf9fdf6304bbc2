package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STARTTLS_POLICY_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides named STARTTLS_POLICY_SECTION_FIELD
// (e.g., STARTTLS_POLICY_POLICY_DIR). Environment variables always take
// precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	// Policy overrides
	setString(&cfg.Policy.Dir, "POLICY_DIR")
	setString(&cfg.Policy.Filename, "POLICY_FILENAME")
	setString(&cfg.Policy.RemoteURL, "POLICY_REMOTE_URL")
	setString(&cfg.Policy.OverridesFile, "POLICY_OVERRIDES_FILE")

	// Update overrides
	setString(&cfg.Update.Source, "UPDATE_SOURCE")
	setDuration(&cfg.Update.Timeout, "UPDATE_TIMEOUT")
	setString(&cfg.Update.Schedule, "UPDATE_SCHEDULE")
	setString(&cfg.Update.Git.Repository, "UPDATE_GIT_REPOSITORY")
	setString(&cfg.Update.Git.Branch, "UPDATE_GIT_BRANCH")
	setString(&cfg.Update.Git.Path, "UPDATE_GIT_PATH")
	setString(&cfg.Update.Git.Auth.Type, "UPDATE_GIT_AUTH_TYPE")
	setString(&cfg.Update.Git.Auth.Token, "UPDATE_GIT_AUTH_TOKEN")
	setString(&cfg.Update.Git.Auth.SSHKeyPath, "UPDATE_GIT_AUTH_SSH_KEY_PATH")

	// History overrides
	setBool(&cfg.History.Enabled, "HISTORY_ENABLED")
	setString(&cfg.History.Driver, "HISTORY_DRIVER")
	setString(&cfg.History.Path, "HISTORY_PATH")

	// Generate overrides
	setString(&cfg.Generate.MTA, "GENERATE_MTA")
	setString(&cfg.Generate.OutputDir, "GENERATE_OUTPUT_DIR")
	setDuration(&cfg.Generate.Debounce, "GENERATE_DEBOUNCE")

	// Telemetry overrides
	setString(&cfg.Telemetry.Logging.Level, "TELEMETRY_LOGGING_LEVEL")
	setString(&cfg.Telemetry.Logging.Format, "TELEMETRY_LOGGING_FORMAT")
	setBool(&cfg.Telemetry.Metrics.Enabled, "TELEMETRY_METRICS_ENABLED")
	setString(&cfg.Telemetry.Metrics.ListenAddress, "TELEMETRY_METRICS_LISTEN_ADDRESS")
	setString(&cfg.Telemetry.Metrics.Path, "TELEMETRY_METRICS_PATH")
	setBool(&cfg.Telemetry.Tracing.Enabled, "TELEMETRY_TRACING_ENABLED")
	setString(&cfg.Telemetry.Tracing.Endpoint, "TELEMETRY_TRACING_ENDPOINT")
	setFloat(&cfg.Telemetry.Tracing.SampleRatio, "TELEMETRY_TRACING_SAMPLE_RATIO")
	setBool(&cfg.Telemetry.Health.Enabled, "TELEMETRY_HEALTH_ENABLED")
}

func setString(dst *string, name string) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		*dst = val
	}
}

func setBool(dst *bool, name string) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, name string) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

func setFloat(dst *float64, name string) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			*dst = f
		}
	}
}
