// Package logger provides the structured, levelled logger used across the
// application, built on log/slog. In development it writes human-readable
// text; in production it writes JSON for log aggregators.
//
// Handlers can use WithCtx to get a logger pre-tagged with the request ID:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("venda criada", "venda_id", sale.ID)
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/gfmachado/autorevenda/config"
)

var L *slog.Logger

func init() {
	var handler slog.Handler

	switch config.AppEnv() {
	case "production", "prod":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// ctxKey stores a per-request *slog.Logger injected by the Logger middleware.
type ctxKey struct{}

// WithCtx returns the request-scoped logger stored in ctx (pre-tagged with
// request_id), or the base logger when none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a request-scoped logger into ctx. Called by the Logger
// middleware; application code normally only reads via WithCtx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
