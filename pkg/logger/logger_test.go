package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"commerce/config"
	"commerce/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	original := log
	t.Cleanup(func() { log = original })

	core, logs := observer.New(level)
	Set(zap.New(core))
	return logs
}

func TestNilLoggerSafety(t *testing.T) {
	original := log
	t.Cleanup(func() { log = original })
	log = nil

	assert.NotPanics(t, func() {
		Debug("debug")
		Info("info")
		Warn("warn")
		Error("error")
		With(zap.String("key", "value")).Info("with")
		WithRequestID("req-1").Info("with request id")
		WithContext(map[string]any{"k": "v"}).Info("with context")
		FromContext(context.Background()).Info("from context")
	})
	assert.NoError(t, Sync())
}

func TestInitConsoleAndJSON(t *testing.T) {
	original := log
	t.Cleanup(func() { log = original })

	require.NoError(t, Init(&config.LogConfig{Level: "debug", Output: "stdout"}, "development"))
	assert.NotNil(t, Get())
	assert.True(t, Get().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Init(&config.LogConfig{Level: "warn", Format: "json", Output: "stdout"}, "production"))
	assert.False(t, Get().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Get().Core().Enabled(zapcore.WarnLevel))
}

func TestUpdateLevel(t *testing.T) {
	original := log
	t.Cleanup(func() { log = original })

	require.NoError(t, Init(&config.LogConfig{Level: "debug", Output: "stdout"}, "development"))
	assert.True(t, Get().Core().Enabled(zapcore.DebugLevel))

	UpdateLevel("error")
	assert.False(t, Get().Core().Enabled(zapcore.WarnLevel))

	UpdateLevel("unknown")
	assert.True(t, Get().Core().Enabled(zapcore.InfoLevel))
	assert.False(t, Get().Core().Enabled(zapcore.DebugLevel))
}

func TestFileOutput(t *testing.T) {
	original := log
	t.Cleanup(func() { log = original })

	path := filepath.Join(t.TempDir(), "nested", "orders.log")
	require.NoError(t, Init(&config.LogConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: path,
		Compress: false,
	}, "production"))

	for i := 0; i < 5; i++ {
		Info("order created", zap.Int("entry", i))
	}
	require.NoError(t, Sync())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestWithContextTypes(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)

	WithContext(map[string]any{
		"order_number": "ORD-20260101-ABCDEFGH",
		"item_count":   2,
		"version":      int64(3),
		"total":        12.5,
		"gift":         true,
	}).Info("context fields")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "ORD-20260101-ABCDEFGH", fields["order_number"])
	assert.EqualValues(t, 2, fields["item_count"])
	assert.EqualValues(t, 3, fields["version"])
	assert.Equal(t, 12.5, fields["total"])
	assert.Equal(t, true, fields["gift"])
}

func TestFromContextAddsRequestID(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)

	ctx := persistence.ContextWithRequestID(context.Background(), "req-42")
	FromContext(ctx).Info("tagged")
	FromContext(context.Background()).Info("untagged")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "req-42", logs.All()[0].ContextMap()["request_id"])
	assert.NotContains(t, logs.All()[1].ContextMap(), "request_id")
}
