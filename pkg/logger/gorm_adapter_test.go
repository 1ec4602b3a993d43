package logger

import (
	"context"
	"testing"
	"time"

	"commerce/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm/logger"
)

func TestGormLoggerAdapterLevels(t *testing.T) {
	testCases := []struct {
		name      string
		logLevel  logger.LogLevel
		wantInfo  bool
		wantTrace bool
	}{
		{"warn level", logger.Warn, false, false},
		{"info level", logger.Info, true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logs := observe(t, zapcore.DebugLevel)
			adapter := NewGormLoggerAdapter(tc.logLevel)
			require.NotNil(t, adapter.LogMode(logger.Info))

			ctx := context.Background()
			adapter.Info(ctx, "info %d", 1)
			adapter.Warn(ctx, "warn %d", 2)
			adapter.Error(ctx, "error %d", 3)
			adapter.Trace(ctx, time.Now(), func() (string, int64) {
				return "SELECT * FROM orders WHERE id = 'o-1'", 1
			}, nil)

			assert.Equal(t, tc.wantInfo, logs.FilterMessage("info 1").Len() == 1)
			assert.Equal(t, 1, logs.FilterMessage("warn 2").Len())
			assert.Equal(t, 1, logs.FilterMessage("error 3").Len())

			traces := logs.FilterMessage("SQL query executed").All()
			assert.Equal(t, tc.wantTrace, len(traces) == 1)
			if tc.wantTrace {
				fields := traces[0].ContextMap()
				assert.Contains(t, fields["sql"], "FROM orders")
				assert.Equal(t, "select", fields["statement"])
			}
		})
	}
}

func TestGormLoggerAdapterSlowQueryAndNotFound(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)

	adapter := NewGormLoggerAdapterWithConfig(logger.Info, &GormLoggerConfig{
		SlowThreshold:             10 * time.Millisecond,
		IgnoreRecordNotFoundError: true,
	})
	ctx := persistence.ContextWithRequestID(context.Background(), "test-request-123")

	adapter.Trace(ctx, time.Now().Add(-50*time.Millisecond), func() (string, int64) {
		return "UPDATE orders SET status = 'paid' WHERE id = 'o-1' AND version = 2", 1
	}, nil)
	adapter.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM orders WHERE id = 'missing'", 0
	}, logger.ErrRecordNotFound)

	slow := logs.FilterMessage("Slow SQL query").All()
	require.Len(t, slow, 1)
	assert.Equal(t, "test-request-123", slow[0].ContextMap()["request_id"])
	assert.Equal(t, "update", slow[0].ContextMap()["statement"])
	assert.Zero(t, logs.FilterMessage("Database operation failed").Len())
}

func TestStatementKind(t *testing.T) {
	assert.Equal(t, "insert", statementKind("  INSERT INTO order_events (order_id) VALUES ('o-1')"))
	assert.Equal(t, "delete", statementKind("DELETE\nFROM order_items"))
	assert.Equal(t, "", statementKind(""))
}
