// Package logging provides structured logging capabilities using Go's log/slog package.
// It knows how to render the hlc kit's timestamp and error types as structured
// attributes so embedding applications get useful diagnostics for free.
package logging

import (
	"context"
	"log/slog"
	"os"

	"github.com/c0deZ3R0/go-hlc-kit/errors"
)

// Logger is our wrapper around slog.Logger with additional convenience methods
type Logger struct {
	*slog.Logger
}

// Config holds logger configuration
type Config struct {
	Level       string `json:"level"`       // debug, info, warn, error
	Format      string `json:"format"`      // text, json
	AddSource   bool   `json:"add_source"`  // whether to add source code information
	Environment string `json:"environment"` // dev, prod, test
}

// Default configuration
var DefaultConfig = Config{
	Level:       "info",
	Format:      "json",
	AddSource:   false,
	Environment: "dev",
}

// Global logger instance
var defaultLogger *Logger

// LogValuer implementations for consistent representation of custom types
type Operation string

func (o Operation) LogValue() slog.Value {
	return slog.StringValue(string(o))
}

// DriftErrorValuer provides structured logging for errors.DriftError
type DriftErrorValuer struct {
	*errors.DriftError
}

func (e DriftErrorValuer) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("operation", string(e.Op)),
		slog.String("code", string(e.DriftError.Code())),
		slog.Duration("max_drift", e.MaxDrift),
		slog.Duration("observed_drift", e.ObservedDrift),
	)
}

// CounterOverflowErrorValuer provides structured logging for errors.CounterOverflowError
type CounterOverflowErrorValuer struct {
	*errors.CounterOverflowError
}

func (e CounterOverflowErrorValuer) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("operation", string(e.Op)),
		slog.String("code", string(e.CounterOverflowError.Code())),
		slog.Int64("max", e.Max),
		slog.Int64("current", e.Current),
	)
}

// ParseErrorValuer provides structured logging for errors.ParseError
type ParseErrorValuer struct {
	*errors.ParseError
}

func (e ParseErrorValuer) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("code", string(e.ParseError.Code())),
		slog.String("input", e.Input),
		slog.String("reason", string(e.Reason)),
	}
	if e.ParseError.Unwrap() != nil {
		attrs = append(attrs, slog.String("cause", e.ParseError.Unwrap().Error()))
	}
	return slog.GroupValue(attrs...)
}

// NewLogger creates a new logger with the provided configuration
func NewLogger(config Config) *Logger {
	var level slog.Level
	switch config.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if config.Format == "text" || config.Environment == "dev" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// Init initializes the global logger with the provided configuration
func Init(config Config) {
	defaultLogger = NewLogger(config)
	slog.SetDefault(defaultLogger.Logger)
}

// Default returns the default logger instance
func Default() *Logger {
	if defaultLogger == nil {
		Init(DefaultConfig)
	}
	return defaultLogger
}

// WithOperation creates a child logger with operation context
func (l *Logger) WithOperation(op Operation) *Logger {
	return &Logger{Logger: l.With(slog.Any("operation", op))}
}

// WithNode creates a child logger carrying the node identity of a clock instance
func (l *Logger) WithNode(nodeID string) *Logger {
	return &Logger{Logger: l.With(slog.String("node_id", nodeID))}
}

// LogClockError logs an hlc kit error with its structured payload attached.
// Unrecognized error types fall back to a plain error string.
func (l *Logger) LogClockError(ctx context.Context, err error, msg string, attrs ...slog.Attr) {
	allAttrs := make([]any, 0, len(attrs)+1)

	switch e := err.(type) {
	case *errors.DriftError:
		allAttrs = append(allAttrs, slog.Any("clock_error", DriftErrorValuer{DriftError: e}))
	case *errors.CounterOverflowError:
		allAttrs = append(allAttrs, slog.Any("clock_error", CounterOverflowErrorValuer{CounterOverflowError: e}))
	case *errors.ParseError:
		allAttrs = append(allAttrs, slog.Any("clock_error", ParseErrorValuer{ParseError: e}))
	default:
		allAttrs = append(allAttrs, slog.String("error", err.Error()))
	}

	for _, attr := range attrs {
		allAttrs = append(allAttrs, attr)
	}

	l.ErrorContext(ctx, msg, allAttrs...)
}

// Convenience methods that use the default logger
func Debug(msg string, attrs ...slog.Attr) {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	Default().Debug(msg, args...)
}

func Info(msg string, attrs ...slog.Attr) {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	Default().Info(msg, args...)
}

func Warn(msg string, attrs ...slog.Attr) {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	Default().Warn(msg, args...)
}

func Error(msg string, attrs ...slog.Attr) {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	Default().Error(msg, args...)
}
