package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"authd/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestNewGormSlogLogger_ThresholdFromConfig(t *testing.T) {
	cfg := &config.Config{
		Postgres: &config.PostgresConfig{SlowQueryThreshold: time.Second},
	}

	l, ok := newGormSlogLogger(slog.Default(), cfg).(*queryLogger)
	require.True(t, ok)
	assert.Equal(t, time.Second, l.slowAt)

	// Unset threshold falls back to the default.
	l, ok = newGormSlogLogger(slog.Default(), &config.Config{}).(*queryLogger)
	require.True(t, ok)
	assert.Equal(t, defaultSlowQueryThreshold, l.slowAt)
}

func TestQueryLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	l := &queryLogger{
		log:    slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
		level:  gormlogger.Warn,
		slowAt: time.Millisecond,
	}

	sqlAndRows := func() (string, int64) { return "SELECT 1", 1 }

	// A query over the threshold is logged as slow.
	l.Trace(context.Background(), time.Now().Add(-time.Second), sqlAndRows, nil)
	assert.Contains(t, buf.String(), "Slow query")

	// Record-not-found is routine, not an error.
	buf.Reset()
	l.Trace(context.Background(), time.Now(), sqlAndRows, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	// Other failures are logged with the error attached.
	buf.Reset()
	l.Trace(context.Background(), time.Now(), sqlAndRows, gorm.ErrInvalidDB)
	assert.Contains(t, buf.String(), "Query failed")
}
