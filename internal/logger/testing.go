// Package logger provides test helpers for structured logging.
package logger

import (
	"log/slog"
	"os"
)

// EnvTestDebug enables debug output in tests when set to any value.
const EnvTestDebug = "GOSCOPE_TEST_DEBUG"

// NewTestLogger creates a logger for tests.
// It logs at WARN to stderr unless EnvTestDebug is set.
func NewTestLogger() *slog.Logger {
	cfg := Config{
		Level:  slog.LevelWarn,
		Format: "text",
		Output: os.Stderr,
	}
	if os.Getenv(EnvTestDebug) != "" {
		cfg.Level = slog.LevelDebug
	}
	return NewLogger(cfg)
}
