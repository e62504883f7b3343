// Package logger builds the structured slog logger shared by every goscope
// component.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLevel is the environment variable consulted by DefaultConfig.
const EnvLevel = "GOSCOPE_LOG_LEVEL"

// Config holds logger configuration.
type Config struct {
	Level  slog.Level
	Format string // "text" or "json"

	// Output defaults to os.Stderr
	Output io.Writer
}

// NewLogger creates a configured slog.Logger.
func NewLogger(cfg Config) *slog.Logger {
	var handler slog.Handler

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: cfg.Level,
		// Source locations only at debug level
		AddSource: cfg.Level <= slog.LevelDebug,
	}

	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}

// ParseLevel maps DEBUG, INFO, WARN, WARNING and ERROR (any case) to a level.
// It reports false for anything else.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO":
		return slog.LevelInfo, true
	case "WARN", "WARNING":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// DefaultConfig returns the default logger configuration.
// The level comes from GOSCOPE_LOG_LEVEL and defaults to INFO.
func DefaultConfig() Config {
	level := slog.LevelInfo
	if l, ok := ParseLevel(os.Getenv(EnvLevel)); ok {
		level = l
	}

	return Config{
		Level:  level,
		Format: "text",
	}
}
