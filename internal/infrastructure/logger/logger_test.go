package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/infrastructure/config"
)

func TestNewLogger(t *testing.T) {
	t.Run("creates logger with JSON format", func(t *testing.T) {
		cfg := &config.LogConfig{
			Level:  "info",
			Format: "json",
		}

		logger, err := NewLogger(cfg)

		assert.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("creates logger with console format", func(t *testing.T) {
		cfg := &config.LogConfig{
			Level:  "debug",
			Format: "console",
		}

		logger, err := NewLogger(cfg)

		assert.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("defaults to info level for invalid level", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &config.LogConfig{
			Level:  "invalid",
			Format: "json",
		}

		logger, err := NewLogger(cfg, WithOutput(&buf))
		require.NoError(t, err)

		logger.Debug("hidden")
		logger.Info("shown")
		require.NoError(t, logger.Sync())

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("tags entries with the service name", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &config.LogConfig{
			Level:  "info",
			Format: "json",
		}

		logger, err := NewLogger(cfg, WithOutput(&buf), WithService("triage-api"))
		require.NoError(t, err)

		logger.Info("model loaded")
		require.NoError(t, logger.Sync())

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "triage-api", entry["service"])
		assert.Equal(t, "model loaded", entry["message"])
		assert.Equal(t, "info", entry["level"])
	})

	t.Run("error level drops warnings", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &config.LogConfig{
			Level:  "error",
			Format: "console",
		}

		logger, err := NewLogger(cfg, WithOutput(&buf))
		require.NoError(t, err)

		logger.Warn("cache unavailable")
		require.NoError(t, logger.Sync())

		assert.Empty(t, buf.String())
	})
}
