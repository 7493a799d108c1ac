package logging

import (
	"log/slog"
)

// NewNopLogger creates a logger that reports every level as disabled.
// Services default to it in tests and before Configure has run.
func NewNopLogger() Logger {
	return slog.New(slog.DiscardHandler)
}
