// Package logger provides a structured, levelled logger built on log/slog.
//
// WithCtx returns a logger pre-tagged with the request ID injected by the
// logging middleware, so every log line from a handler is correlated:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order created", "order_id", order.ID)
//	// → time=... level=INFO msg="order created" request_id=a1b2c3d4 order_id=42
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/fastfood-api/config"
)

var L *slog.Logger

func init() {
	L = slog.New(baseHandler())
	slog.SetDefault(L)
}

func baseHandler() slog.Handler {
	switch config.AppEnv() {
	case "production", "prod":
		opts := &slog.HandlerOptions{Level: slog.LevelInfo}
		return slog.NewJSONHandler(os.Stdout, opts) // structured JSON for log aggregators
	default:
		opts := &slog.HandlerOptions{Level: slog.LevelDebug}
		return slog.NewTextHandler(os.Stdout, opts) // human-readable for dev
	}
}

// ConnectMongo attaches the asynchronous MongoDB sink when LOG_MONGO_URI is
// configured. Returns the handle so the caller can Close() it on shutdown;
// returns (nil, nil) when no URI is set.
func ConnectMongo() (*MongoHandler, error) {
	uri := config.LogMongoURI()
	if uri == "" {
		return nil, nil
	}

	mh, err := NewMongoHandler(baseHandler(), uri, config.LogMongoDB(), config.LogMongoCollection())
	if err != nil {
		return nil, err
	}

	L = slog.New(mh)
	slog.SetDefault(L)
	return mh, nil
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the request-scoped logger stored in ctx, or the base
// logger when none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware — not usually needed in application code.
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
