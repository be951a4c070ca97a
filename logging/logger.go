package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger creates the application's central logger writing JSON records to
// stdout at the configured level.
func NewLogger(logLevel string) *slog.Logger {
	return NewLoggerTo(os.Stdout, logLevel)
}

// NewLoggerTo creates a logger writing to an arbitrary destination. The
// terminal front-end owns stdout, so it routes log records to a file (or
// discards them) instead.
func NewLoggerTo(w io.Writer, logLevel string) *slog.Logger {
	var level slog.Level

	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(w, opts)

	return slog.New(handler)
}
