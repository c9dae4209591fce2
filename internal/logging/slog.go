package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const redacted = "[REDACTED]"

// sensitiveKeys are attribute keys whose values never reach the output.
var sensitiveKeys = map[string]struct{}{
	"password":      {},
	"access":        {},
	"refresh":       {},
	"authorization": {},
}

// TextLogger writes logfmt-style lines through a slog.TextHandler.
type TextLogger struct {
	l *slog.Logger
}

// NewTextLogger builds a TextLogger writing to w at the named level.
// Credential-bearing attributes are masked.
func NewTextLogger(w io.Writer, level string) (*TextLogger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       lvl,
		ReplaceAttr: maskCredentials,
	})
	return &TextLogger{l: slog.New(h)}, nil
}

func maskCredentials(_ []string, a slog.Attr) slog.Attr {
	if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, redacted)
	}
	return a
}

func (t *TextLogger) Debug(ctx context.Context, msg string, args ...any) {
	t.log(ctx, slog.LevelDebug, msg, args)
}

func (t *TextLogger) Info(ctx context.Context, msg string, args ...any) {
	t.log(ctx, slog.LevelInfo, msg, args)
}

func (t *TextLogger) Warn(ctx context.Context, msg string, args ...any) {
	t.log(ctx, slog.LevelWarn, msg, args)
}

func (t *TextLogger) Error(ctx context.Context, msg string, args ...any) {
	t.log(ctx, slog.LevelError, msg, args)
}

func (t *TextLogger) log(ctx context.Context, lvl slog.Level, msg string, args []any) {
	t.l.Log(ctx, lvl, msg, args...)
}

func (t *TextLogger) With(args ...any) Logger {
	return &TextLogger{l: t.l.With(args...)}
}
