package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "policy.dir").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validatePolicy(&cfg.Policy)...)
	errs = append(errs, validateUpdate(&cfg.Update)...)
	if cfg.Update.Source == "http" {
		if err := validateURL(cfg.Policy.RemoteURL, "https", "http"); err != nil {
			errs = append(errs, FieldError{Field: "policy.remote_url", Message: err.Error()})
		}
	}
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateGenerate(&cfg.Generate)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validatePolicy(cfg *PolicyConfig) []FieldError {
	var errs []FieldError

	if cfg.Dir == "" {
		errs = append(errs, FieldError{Field: "policy.dir", Message: "policy directory is required"})
	}
	if cfg.Filename == "" {
		errs = append(errs, FieldError{Field: "policy.filename", Message: "policy filename is required"})
	} else if strings.ContainsRune(cfg.Filename, '/') {
		errs = append(errs, FieldError{Field: "policy.filename", Message: "policy filename must not contain a path separator"})
	}

	return errs
}

func validateUpdate(cfg *UpdateConfig) []FieldError {
	var errs []FieldError

	switch cfg.Source {
	case "http":
	case "git":
		if cfg.Git.Repository == "" {
			errs = append(errs, FieldError{
				Field:   "update.git.repository",
				Message: "repository is required when update source is git",
			})
		}
		switch cfg.Git.Auth.Type {
		case "none":
		case "token":
			if cfg.Git.Auth.Token == "" {
				errs = append(errs, FieldError{Field: "update.git.auth.token", Message: "token is required for token auth"})
			}
		case "ssh":
			if cfg.Git.Auth.SSHKeyPath == "" {
				errs = append(errs, FieldError{Field: "update.git.auth.ssh_key_path", Message: "key path is required for ssh auth"})
			}
		default:
			errs = append(errs, FieldError{
				Field:   "update.git.auth.type",
				Message: fmt.Sprintf("invalid auth type %q: must be 'none', 'token', or 'ssh'", cfg.Git.Auth.Type),
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "update.source",
			Message: fmt.Sprintf("invalid update source %q: must be 'http' or 'git'", cfg.Source),
		})
	}

	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{Field: "update.timeout", Message: "timeout must not be negative"})
	}
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		errs = append(errs, FieldError{
			Field:   "update.schedule",
			Message: fmt.Sprintf("invalid cron schedule %q: %v", cfg.Schedule, err),
		})
	}

	return errs
}

func validateHistory(cfg *HistoryConfig) []FieldError {
	var errs []FieldError

	if cfg.Driver != "sqlite3" && cfg.Driver != "sqlite" {
		errs = append(errs, FieldError{
			Field:   "history.driver",
			Message: fmt.Sprintf("invalid driver %q: must be 'sqlite3' or 'sqlite'", cfg.Driver),
		})
	}
	if cfg.Enabled && cfg.Path == "" {
		errs = append(errs, FieldError{Field: "history.path", Message: "path is required when history is enabled"})
	}

	return errs
}

func validateGenerate(cfg *GenerateConfig) []FieldError {
	var errs []FieldError

	if cfg.MTA == "" {
		errs = append(errs, FieldError{Field: "generate.mta", Message: "mta is required"})
	}
	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{Field: "generate.debounce", Message: "debounce must not be negative"})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json', 'text', or 'console'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.ListenAddress == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.listen_address",
				Message: "listen address is required when metrics are enabled",
			})
		}
		if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			errs = append(errs, FieldError{Field: "telemetry.metrics.path", Message: "metrics path must start with /"})
		}
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	if cfg.Health.Enabled {
		if !strings.HasPrefix(cfg.Health.LivenessPath, "/") {
			errs = append(errs, FieldError{Field: "telemetry.health.liveness_path", Message: "liveness path must start with /"})
		}
		if !strings.HasPrefix(cfg.Health.ReadinessPath, "/") {
			errs = append(errs, FieldError{Field: "telemetry.health.readiness_path", Message: "readiness path must start with /"})
		}
	}

	return errs
}

func validateURL(raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	for _, s := range schemes {
		if u.Scheme == s && u.Host != "" {
			return nil
		}
	}
	return fmt.Errorf("URL %q must use one of %s", raw, strings.Join(schemes, ", "))
}
