package database

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormLogger forwards GORM traces to slog.
type GormLogger struct {
	log                *slog.Logger
	logSQL             bool
	slowQueryThreshold time.Duration
}

// NewGormLogger returns a logger that always reports failed and slow
// statements and reports every statement at debug level when logSQL is set.
func NewGormLogger(log *slog.Logger, logSQL bool, slowQueryThreshold time.Duration) *GormLogger {
	return &GormLogger{
		log:                log.With("component", "gorm"),
		logSQL:             logSQL,
		slowQueryThreshold: slowQueryThreshold,
	}
}

func (l *GormLogger) LogMode(logger.LogLevel) logger.Interface {
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.log.InfoContext(ctx, msg, "data", data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.log.WarnContext(ctx, msg, "data", data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.log.ErrorContext(ctx, msg, "data", data)
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.log.ErrorContext(ctx, "sql execution failed", "duration", elapsed, "rows", rows, "sql", sql, "error", err)
	case l.slowQueryThreshold > 0 && elapsed > l.slowQueryThreshold:
		sql, rows := fc()
		l.log.WarnContext(ctx, "slow query", "duration", elapsed, "rows", rows, "sql", sql)
	case l.logSQL:
		sql, rows := fc()
		l.log.DebugContext(ctx, "sql executed", "duration", elapsed, "rows", rows, "sql", sql)
	}
}
