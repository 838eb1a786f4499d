package logging

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/c0deZ3R0/go-hlc-kit/errors"
)

func TestLogger(t *testing.T) {
	// Test different environments
	configs := []Config{
		{Level: "debug", Format: "text", Environment: EnvDevelopment, AddSource: true},
		{Level: "info", Format: "json", Environment: EnvProduction, AddSource: false},
	}

	for _, config := range configs {
		t.Run("Environment_"+config.Environment, func(t *testing.T) {
			logger := NewLogger(config)

			// Test basic logging
			logger.Debug("Debug message", slog.String("key", "value"))
			logger.Info("Info message", slog.Int("count", 42))
			logger.Warn("Warning message", slog.Bool("enabled", true))

			// Test clock error logging for each error kind
			driftErr := errors.NewDriftError(errors.OpReceive, 5*time.Minute, 10*time.Minute)
			logger.LogClockError(context.Background(), driftErr, "Drift bound exceeded")

			overflowErr := errors.NewCounterOverflowError(errors.OpSend, 99999999, 100000000)
			logger.LogClockError(context.Background(), overflowErr, "Counter exhausted")

			parseErr := errors.NewParseError("bad|input", errors.ReasonFieldCount, nil)
			logger.LogClockError(context.Background(), parseErr, "Decode rejected input")

			// Unrecognized errors fall back to a plain string
			logger.LogClockError(context.Background(), fmt.Errorf("plain error"), "Something failed")

			// Test child loggers
			childLogger := logger.WithNode("node-1").WithOperation(Operation("send"))
			childLogger.Info("Child logger message")
		})
	}
}

func TestValuersDoNotPanic(t *testing.T) {
	driftErr := errors.NewDriftError(errors.OpSend, time.Second, 2*time.Second)
	if v := (DriftErrorValuer{DriftError: driftErr}).LogValue(); v.Kind() != slog.KindGroup {
		t.Errorf("DriftErrorValuer kind = %v, want group", v.Kind())
	}

	overflowErr := errors.NewCounterOverflowError(errors.OpSend, 10, 11)
	if v := (CounterOverflowErrorValuer{CounterOverflowError: overflowErr}).LogValue(); v.Kind() != slog.KindGroup {
		t.Errorf("CounterOverflowErrorValuer kind = %v, want group", v.Kind())
	}

	parseErr := errors.NewParseError("x", errors.ReasonBadCounter, fmt.Errorf("cause"))
	if v := (ParseErrorValuer{ParseError: parseErr}).LogValue(); v.Kind() != slog.KindGroup {
		t.Errorf("ParseErrorValuer kind = %v, want group", v.Kind())
	}
}

func TestDefaultLogger(t *testing.T) {
	Init(Config{Level: "debug", Format: "text", Environment: EnvTest})

	if Default() == nil {
		t.Fatal("Default() returned nil after Init")
	}

	Debug("debug via package helper")
	Info("info via package helper", slog.String("key", "value"))
	Warn("warn via package helper")
	Error("error via package helper")
}

func TestGetConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "TEXT")
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("LOG_ADD_SOURCE", "false")

	config := GetConfigFromEnv()

	if config.Level != "warn" {
		t.Errorf("Level = %q, want %q", config.Level, "warn")
	}
	if config.Format != "text" {
		t.Errorf("Format = %q, want %q", config.Format, "text")
	}
	if config.Environment != EnvTest {
		t.Errorf("Environment = %q, want %q", config.Environment, EnvTest)
	}
	if config.AddSource {
		t.Error("AddSource should be false in test environment")
	}
}
