package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	t.Run("writes json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "server.log")

		logger, err := NewLogger(LoggerConfig{Level: "INFO", OutputPath: path, Format: "json"})
		require.NoError(t, err)

		logger.Debug("hidden")
		logger.Info("visible", zap.String("k", "v"))
		require.NoError(t, logger.Sync())

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `"msg":"visible"`)
		assert.Contains(t, string(content), `"timestamp"`)
		assert.NotContains(t, string(content), "hidden")
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		logger, err := NewLogger(LoggerConfig{Level: "verbose", Format: "console"})
		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	})
}

func TestKVLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := NewKVLogger(zap.New(core))

	logger.Info("Computed trends", "basis", "issue", "invoices", 12, 42, "dropped", "dangling")
	logger.Error("Query failed", "error", errors.New("db down"))

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	info := entries[0].ContextMap()
	assert.Equal(t, "issue", info["basis"])
	assert.EqualValues(t, 12, info["invoices"])
	assert.NotContains(t, info, "dropped")
	assert.NotContains(t, info, "dangling")

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "db down", entries[1].ContextMap()["error"])
}
