// Package cli holds the interactive session loop and the terminal
// presentation of plans and search results.
package cli

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/ncardoz/cesta/internal/logging"
)

// NewSignalContext returns a context cancelled on SIGINT or SIGTERM.
func NewSignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// NewLogger builds the application logger from a configured level name.
// Unknown names fall back to info.
func NewLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return logging.New(l)
}
