// Package logging owns the process logger and request-scoped logger lookup.
package logging

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

var (
	loggerOnce sync.Once
	baseLogger *zap.Logger
	loggerErr  error
)

type ctxLoggerKey struct{}

// Options tunes the process logger. The zero value is production JSON at info.
type Options struct {
	Level       string
	Development bool
}

// Build constructs a zap logger from options without touching the process logger.
func Build(opts Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = encodeTime
	cfg.EncoderConfig.LevelKey = "severity"
	cfg.EncoderConfig.MessageKey = "message"
	if level := strings.TrimSpace(opts.Level); level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}
	return cfg.Build(zap.AddCaller())
}

// Init replaces the process logger. It is meant to run once during startup;
// later calls are ignored.
func Init(opts Options) error {
	loggerOnce.Do(func() {
		baseLogger, loggerErr = Build(opts)
		if loggerErr != nil {
			baseLogger = zap.NewNop()
		}
	})
	return loggerErr
}

// Logger returns the process-wide logger, building a default one on first use.
func Logger() *zap.Logger {
	_ = Init(Options{})
	return baseLogger
}

// Sync flushes buffered entries. Call during shutdown.
func Sync() error {
	return Logger().Sync()
}

// WithLogger stores a request-scoped logger in ctx.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

// FromContext returns the request-scoped logger if present, otherwise the process logger.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return Logger()
	}
	if l, ok := ctx.Value(ctxLoggerKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return Logger()
}

func encodeTime(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format(timestampLayout))
}
