package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"authd/config"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultSlowQueryThreshold = 200 * time.Millisecond

// queryLogger routes GORM's logging through the application slog.Logger.
// Record-not-found is never logged as an error: it is an expected outcome
// (unknown email on login, already-deleted account) handled in the
// repository layer.
type queryLogger struct {
	log    *slog.Logger
	level  logger.LogLevel
	slowAt time.Duration
}

func newGormSlogLogger(log *slog.Logger, cfg *config.Config) logger.Interface {
	level := logger.Warn
	if cfg != nil && cfg.Env.Debug {
		level = logger.Info
	}

	slowAt := defaultSlowQueryThreshold
	if cfg != nil && cfg.Postgres != nil && cfg.Postgres.SlowQueryThreshold > 0 {
		slowAt = cfg.Postgres.SlowQueryThreshold
	}

	return &queryLogger{
		log:    log,
		level:  level,
		slowAt: slowAt,
	}
}

func (l *queryLogger) LogMode(level logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.level = level

	return &cloned
}

func (l *queryLogger) Info(ctx context.Context, msg string, args ...any) {
	l.logMessage(ctx, slog.LevelInfo, logger.Info, msg, args...)
}

func (l *queryLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.logMessage(ctx, slog.LevelWarn, logger.Warn, msg, args...)
}

func (l *queryLogger) Error(ctx context.Context, msg string, args ...any) {
	l.logMessage(ctx, slog.LevelError, logger.Error, msg, args...)
}

func (l *queryLogger) logMessage(ctx context.Context, slogLevel slog.Level, gormLevel logger.LogLevel, msg string, args ...any) {
	if l.log == nil || l.level < gormLevel {
		return
	}

	l.log.LogAttrs(ctx, slogLevel, "GORM message",
		slog.String("message", fmt.Sprintf(msg, args...)),
	)
}

// Trace logs a finished statement: failed queries at error level, queries
// over the slow threshold at warn, and everything else at info when the
// level allows it.
func (l *queryLogger) Trace(ctx context.Context, begin time.Time, sqlAndRowsFn func() (string, int64), err error) {
	if l.log == nil || l.level == logger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		l.logQuery(ctx, slog.LevelError, "Query failed", sqlAndRowsFn, elapsed,
			slog.String("error", err.Error()))
	case l.slowAt > 0 && elapsed > l.slowAt && l.level >= logger.Warn:
		l.logQuery(ctx, slog.LevelWarn, "Slow query", sqlAndRowsFn, elapsed,
			slog.Duration("slowThreshold", l.slowAt))
	case l.level >= logger.Info:
		l.logQuery(ctx, slog.LevelInfo, "Query", sqlAndRowsFn, elapsed)
	}
}

func (l *queryLogger) logQuery(ctx context.Context, level slog.Level, msg string, sqlAndRowsFn func() (string, int64), elapsed time.Duration, extra ...slog.Attr) {
	sql, rows := sqlAndRowsFn()

	attrs := make([]slog.Attr, 0, 3+len(extra))
	attrs = append(attrs,
		slog.Duration("elapsed", elapsed),
		slog.Int64("rows", rows),
		slog.String("sql", sql),
	)
	attrs = append(attrs, extra...)

	l.log.LogAttrs(ctx, level, msg, attrs...)
}
