// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     logging
// Description: Component loggers on top of a process-wide zerolog sink
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// sink is shared by all component loggers so Configure also affects
// loggers created before it ran.
var sink atomic.Pointer[zerolog.Logger]

func init() {
	Configure(DefaultLoggerConfig("lauscher"))
}

// LoggerConfig holds configuration for the process-wide log sink
type LoggerConfig struct {
	// Service name, attached to every entry
	ServiceName string

	// Log level (debug, info, warn, error)
	Level string

	// Output format: "json" or "console" (default: console)
	Format string

	// Output writer (default: stderr)
	Output io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "console",
	}
}

// Configure replaces the process-wide sink
func Configure(cfg LoggerConfig) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly, NoColor: cfg.Output != nil}
	}

	zl := zerolog.New(out).
		Level(ParseLevel(cfg.Level).zerolog()).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Logger()
	sink.Store(&zl)
}

// Logger is a named component logger with key-value methods
type Logger struct {
	name  string
	level *Level
}

// New creates a logger for one component
func New(name string) *Logger {
	return &Logger{name: name}
}

// Name returns the component name
func (l *Logger) Name() string {
	return l.name
}

// WithLevel returns a logger that additionally filters below level
func (l *Logger) WithLevel(level Level) *Logger {
	return &Logger{name: l.name, level: &level}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.log(LevelDebug, msg, keysAndValues)
}

// Info logs an info message
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.log(LevelInfo, msg, keysAndValues)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.log(LevelWarn, msg, keysAndValues)
}

// Error logs an error message
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.log(LevelError, msg, keysAndValues)
}

func (l *Logger) log(level Level, msg string, keysAndValues []interface{}) {
	if l.level != nil && level < *l.level {
		return
	}
	zl := sink.Load()
	ev := zl.WithLevel(level.zerolog())
	if ev == nil {
		return
	}
	ev.Str("component", l.name).Fields(toFields(keysAndValues...)).Msg(msg)
}

// toFields converts key-value pairs to a zerolog field map.
// Non-string keys and a trailing orphan value are dropped.
func toFields(keysAndValues ...interface{}) map[string]interface{} {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		if err, isErr := keysAndValues[i+1].(error); isErr {
			fields[key] = err.Error()
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
