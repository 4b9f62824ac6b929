// Package gorm routes gorm's SQL logging into the global zerolog logger.
package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gormlogger "gorm.io/gorm/logger"
)

// Logger implements gorm's logger.Interface on top of zerolog.
type Logger struct {
	Level                     gormlogger.LogLevel
	SlowThreshold             time.Duration
	IgnoreRecordNotFoundError bool

	// Log returns the logger to write to. Optional. Default: the global zerolog logger.
	Log func() *zerolog.Logger
}

// New creates a gorm logger for the named level (silent, error, warn, info).
// Unknown names fall back to warn.
func New(level string) *Logger {
	return &Logger{
		Level:                     ParseLevel(level),
		SlowThreshold:             200 * time.Millisecond, //nolint:mnd
		IgnoreRecordNotFoundError: true,
	}
}

// ParseLevel maps a level name onto gorm's log level.
func ParseLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

func (l *Logger) logger() *zerolog.Logger {
	if l.Log != nil {
		return l.Log()
	}

	return &log.Logger
}

// LogMode implements logger.Interface.
func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	out := *l
	out.Level = level

	return &out
}

// Info implements logger.Interface.
func (l *Logger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.Level >= gormlogger.Info {
		l.logger().Info().Str("component", "gorm").Msgf(msg, data...)
	}
}

// Warn implements logger.Interface.
func (l *Logger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.Level >= gormlogger.Warn {
		l.logger().Warn().Str("component", "gorm").Msgf(msg, data...)
	}
}

// Error implements logger.Interface.
func (l *Logger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.Level >= gormlogger.Error {
		l.logger().Error().Str("component", "gorm").Msgf(msg, data...)
	}
}

// Trace implements logger.Interface. It logs failed statements as errors,
// slow ones as warnings and, at info level, every statement as debug.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.Level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && l.Level >= gormlogger.Error &&
		(!errors.Is(err, gormlogger.ErrRecordNotFound) || !l.IgnoreRecordNotFoundError):
		sql, rows := fc()
		l.logger().Error().Err(err).Str("component", "gorm").
			Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query failed")
	case l.SlowThreshold != 0 && elapsed > l.SlowThreshold && l.Level >= gormlogger.Warn:
		sql, rows := fc()
		l.logger().Warn().Str("component", "gorm").
			Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("slow query")
	case l.Level >= gormlogger.Info:
		sql, rows := fc()
		l.logger().Debug().Str("component", "gorm").
			Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query")
	}
}
