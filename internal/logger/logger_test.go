package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("console only", func(t *testing.T) {
		lg, err := New(Config{Level: "debug", Console: true})

		require.NoError(t, err)
		defer lg.Close()
		assert.Equal(t, zerolog.DebugLevel, lg.GetZerolog().GetLevel())
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		lg, err := New(Config{Level: "loud", Console: true})

		require.NoError(t, err)
		defer lg.Close()
		assert.Equal(t, zerolog.InfoLevel, lg.GetZerolog().GetLevel())
	})

	t.Run("file output", func(t *testing.T) {
		tmpDir := t.TempDir()
		logFile := filepath.Join(tmpDir, "logs", "eigo.log")

		lg, err := New(Config{Level: "info", File: logFile})
		require.NoError(t, err)

		lg.Info().Str("agent_id", "asst_123").Msg("created agent")
		require.NoError(t, lg.Close())

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "created agent")
		assert.Contains(t, string(data), "asst_123")
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.True(t, cfg.Console)
	assert.True(t, cfg.Pretty)
}
