// Package logging wraps zap construction for the server, grounded on
// RoseWrightdev-Video-Conferencing's internal/v1/logging package: New
// builds a *zap.Logger from a level derived from the CLI verbosity, and
// small helpers keep call sites short.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TraceLevel sits one step below zapcore.DebugLevel, for the fourth log
// tier reached by a third -v (spec.md §6: warn/info/debug/trace).
const TraceLevel = zapcore.DebugLevel - 1

// LevelFromVerbosity maps the CLI's repeated -v count (capped at 3) to a
// zap level: 0 warn, 1 info, 2 debug, 3+ trace.
func LevelFromVerbosity(count int) zapcore.Level {
	switch {
	case count <= 0:
		return zapcore.WarnLevel
	case count == 1:
		return zapcore.InfoLevel
	case count == 2:
		return zapcore.DebugLevel
	default:
		return TraceLevel
	}
}

// New builds a logger at the given level. Every log entry, whatever its
// level, goes to stdout; only zap's own internal errors go to stderr.
func New(level zapcore.Level) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build()
}

// Trace logs at TraceLevel, the level below zap's built-in Debug, via
// zap's generic Log method since *zap.Logger has no dedicated Trace func.
func Trace(l *zap.Logger, msg string, fields ...zap.Field) {
	l.Log(TraceLevel, msg, fields...)
}
