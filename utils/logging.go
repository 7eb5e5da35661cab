package utils

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. "json" is used in deployed
// environments so the log collector can parse records, "text" everywhere
// else.
func NewLogger(format string) *slog.Logger {
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{})
	default:
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{})
	}
	return slog.New(handler)
}
