// Package logging builds the slog handler the ukern command logs through.
package logging

import (
	"io"
	"log"
	"log/slog"
	"strings"
)

// NewLogger creates a configured slog.Logger writing to w.
//
// format is "text" (human-readable) or "json" (structured).
func NewLogger(level slog.Level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Install makes logger the default, so that the log.Printf calls of the
// kernel, cpu and emulator packages are emitted through it at level.
func Install(logger *slog.Logger, level slog.Level) {
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level)
	log.SetFlags(0)
}

// ParseLevel converts a string log level to slog.Level.
// Returns slog.LevelInfo for unrecognized values.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
