// Package telemetry provides structured build-time logging for the nested
// write builder using zap. It never carries user input values — only
// model/relation names and node/edge counts (spec §11 Non-goal: telemetry
// of product/user data; this is operational, developer-facing logging).
package telemetry

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.SugaredLogger the way goarchive's internal/logger wraps
// zap for its archive pipeline.
type Logger struct {
	*zap.SugaredLogger
	base *zap.Logger
}

var nop = newNop()

func newNop() *Logger {
	base := zap.NewNop()
	return &Logger{SugaredLogger: base.Sugar(), base: base}
}

// Nop returns a Logger that discards everything — the default when no
// telemetry.Logger is injected via builder.WithLogger.
func Nop() *Logger { return nop }

// New builds a Logger from zap's production config at the given level ("debug", "info",
// "warn", "error"); unrecognized levels fall back to "info".
func New(level string) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	base, err := cfg.Build()
	if err != nil {
		return Nop()
	}
	return &Logger{SugaredLogger: base.Sugar(), base: base}
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// WithRelation returns a Logger annotated with the relation/model names a
// topology subroutine is currently dispatching for.
func (l *Logger) WithRelation(relation, model string) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With("relation", relation, "model", model), base: l.base}
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	if l.base == nil {
		return nil
	}
	return l.base.Sync()
}
