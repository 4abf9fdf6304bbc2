package cli

import "fmt"

// UsageError reports an invalid or missing command-line flag.
type UsageError struct {
	Flag   string
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("--%s: %s", e.Flag, e.Reason)
}

// NewUsageError creates a UsageError for flag.
func NewUsageError(flag, reason string) *UsageError {
	return &UsageError{Flag: flag, Reason: reason}
}

// ConfigError reports a configuration file or setting that could not be
// loaded. Source is the file path or setting name; empty means the built-in
// defaults.
type ConfigError struct {
	Source string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("configuration: %v", e.Err)
	}
	return fmt.Sprintf("configuration %s: %v", e.Source, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError creates a ConfigError for source.
func NewConfigError(source string, err error) *ConfigError {
	return &ConfigError{Source: source, Err: err}
}

// CommandError wraps the failure of a subcommand with its name.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// NewCommandError creates a CommandError for command.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{Command: command, Err: err}
}

// ExitError carries a process exit code without an additional message.
// Commands return it after they already reported the failure.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}
