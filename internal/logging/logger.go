// Package logging defines the structured-logging interface used across the
// client and its two backends: log/slog and go.uber.org/zap.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "request sent", "method", "GET", "path", "/patients/")
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// Options selects and tunes a backend.
type Options struct {
	Backend string // "slog" (default) or "zap"
	Level   string // debug, info, warn, error
	Format  string // text (default) or json
	Output  io.Writer
}

// New builds a Logger for the given options.
func New(opts Options) (Logger, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendSlog:
		return newSlogFromOptions(opts)
	case BackendZap:
		return NewZapLoggerFromOptions(opts)
	default:
		return nil, fmt.Errorf("unknown log backend %q", opts.Backend)
	}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
