// Package logger configures the process-wide slog logger. Output is JSON
// with source locations so chore lifecycle transitions can be traced back to
// the operation that produced them.
package logger

import (
	"log/slog"
	"os"
)

// Setup installs the global logger at the given level. Unrecognized level
// strings fall back to info.
func Setup(level string) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     ParseLevel(level),
	})
	slog.SetDefault(slog.New(handler))
}

// ParseLevel converts "debug", "info", "warn" or "error" to a slog.Level.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
