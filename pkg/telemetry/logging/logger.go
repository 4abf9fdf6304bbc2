package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"starttls-hq/everywhere/pkg/config"
)

// LogFormat represents the output format for logs.
type LogFormat string

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON LogFormat = "json"
	// FormatText outputs logs in plain text format.
	FormatText LogFormat = "text"
	// FormatConsole outputs logs in human-readable console format.
	FormatConsole LogFormat = "console"
)

// Logger provides structured logging with credential redaction.
type Logger struct {
	slog     *slog.Logger
	redactor *Redactor
	level    slog.Level
	format   LogFormat
}

// Config contains configuration for the Logger.
type Config struct {
	// Level is the minimum log level ("debug", "info", "warn", "error")
	Level string

	// Format is the output format ("json", "text", "console")
	Format string

	// AddSource includes file and line number in logs
	AddSource bool

	// DisableRedaction turns off credential redaction
	DisableRedaction bool

	// Writer is the output writer (defaults to os.Stderr)
	Writer io.Writer
}

// FromConfig converts the application logging settings.
func FromConfig(cfg config.LoggingConfig) Config {
	return Config{
		Level:     cfg.Level,
		Format:    cfg.Format,
		AddSource: cfg.AddSource,
	}
}

// New creates a new Logger with the given configuration.
func New(cfg Config) (*Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	format, err := parseFormat(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("invalid log format: %w", err)
	}

	writer := cfg.Writer
	if writer == nil {
		writer = os.Stderr
	}

	var redactor *Redactor
	if !cfg.DisableRedaction {
		redactor = NewRedactor()
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}
	if redactor != nil {
		opts.ReplaceAttr = redactor.ReplaceAttr
	}

	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(writer, opts)
	case FormatConsole:
		// Console drops the timestamp; output goes to a terminal.
		consoleOpts := *opts
		consoleOpts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			if redactor != nil {
				return redactor.ReplaceAttr(groups, a)
			}
			return a
		}
		handler = slog.NewTextHandler(writer, &consoleOpts)
	default:
		handler = slog.NewTextHandler(writer, opts)
	}

	return &Logger{
		slog:     slog.New(handler),
		redactor: redactor,
		level:    level,
		format:   format,
	}, nil
}

// Slog returns the underlying *slog.Logger, suitable for slog.SetDefault.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.slog.Log(context.Background(), slog.LevelDebug, msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.slog.Log(context.Background(), slog.LevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.slog.Log(context.Background(), slog.LevelWarn, msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.slog.Log(context.Background(), slog.LevelError, msg, args...)
}

// InfoContext logs an info message with the context's fields.
func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.slog.Log(ctx, slog.LevelInfo, msg, append(extractContextFields(ctx), args...)...)
}

// ErrorContext logs an error message with the context's fields.
func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.slog.Log(ctx, slog.LevelError, msg, append(extractContextFields(ctx), args...)...)
}

// With creates a new logger with additional fields.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:     l.slog.With(args...),
		redactor: l.redactor,
		level:    l.level,
		format:   l.format,
	}
}

// WithContext creates a new logger carrying the context's fields.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	args := extractContextFields(ctx)
	if len(args) == 0 {
		return l
	}
	return l.With(args...)
}

// Level returns the minimum level.
func (l *Logger) Level() slog.Level {
	return l.level
}

func parseLevel(levelStr string) (slog.Level, error) {
	switch levelStr {
	case "debug", "DEBUG":
		return slog.LevelDebug, nil
	case "info", "INFO", "":
		return slog.LevelInfo, nil
	case "warn", "WARN", "warning", "WARNING":
		return slog.LevelWarn, nil
	case "error", "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", levelStr)
	}
}

func parseFormat(formatStr string) (LogFormat, error) {
	switch formatStr {
	case "json", "JSON":
		return FormatJSON, nil
	case "text", "TEXT", "":
		return FormatText, nil
	case "console", "CONSOLE":
		return FormatConsole, nil
	default:
		return FormatText, fmt.Errorf("unknown log format: %s", formatStr)
	}
}
