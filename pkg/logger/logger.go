// Package logger wraps zap behind the small leveled interface used across
// the mirador family of services.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logging surface the engine depends on. Fields are
// alternating key/value pairs.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)
	Sync() error
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// New builds a Logger at the given level ("debug", "info", "warn", "error")
// with either "console" or "json" encoding.
func New(level, format string) (Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "", "info":
		zapLevel = zapcore.InfoLevel
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	switch format {
	case "", "console":
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	case "json":
		cfg.Encoding = "json"
		cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &zapLogger{sugar: z.Sugar()}, nil
}

// NewNop returns a Logger that discards everything. Used in tests and as a
// constructor fallback.
func NewNop() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}

func (l *zapLogger) Debug(msg string, fields ...any) { l.sugar.Debugw(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...any)  { l.sugar.Infow(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...any)  { l.sugar.Warnw(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...any) { l.sugar.Errorw(msg, fields...) }
func (l *zapLogger) Sync() error                     { return l.sugar.Sync() }
