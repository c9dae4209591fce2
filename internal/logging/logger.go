// Package logging defines the structured-logging interface used across the
// client. Adapters wrap log/slog (text) and zap (JSON).
package logging

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "token refreshed", "request_id", id)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

const (
	FormatJSON = "json"
	FormatText = "text"
)

// New builds a logger for the given format ("json" → zap, "text" → slog)
// and level name (debug, info, warn, error).
func New(format, level string) (Logger, error) {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return NewZapLogger(level)
	case FormatText:
		return NewTextLogger(os.Stderr, level)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
