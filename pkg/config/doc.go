// Package config provides configuration management for the starttls-policy
// tool.
//
// Configuration is read from an optional YAML file, completed with defaults,
// overridden from the environment and validated:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("/etc/starttls-policy/config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention
// STARTTLS_POLICY_SECTION_FIELD. For example:
//
//   - STARTTLS_POLICY_POLICY_DIR overrides policy.dir
//   - STARTTLS_POLICY_UPDATE_SOURCE overrides update.source
//   - STARTTLS_POLICY_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	policy:
//	  dir: /etc/starttls-policy/
//	  overrides_file: local-overrides.json
//
//	update:
//	  source: git
//	  schedule: "0 */6 * * *"
//	  git:
//	    repository: https://github.com/EFForg/starttls-everywhere.git
//	    path: policy.json
//
//	history:
//	  enabled: true
//	  driver: sqlite
//
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
//	  metrics:
//	    enabled: true
//
// # Singleton Pattern
//
// The CLI stores the loaded configuration with Initialize and reads it with
// GetConfig. Library code takes explicit values instead.
package config
