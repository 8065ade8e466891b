package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, line string) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	return entry
}

func TestJSONLogger(t *testing.T) {
	t.Run("Writes structured entries", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewJSONLogger(&buf, DebugLevel)

		log.Info("Rates ingested", map[string]interface{}{
			"base":    "BYN",
			"written": 4,
		})

		entry := decodeLine(t, buf.String())
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "Rates ingested", entry["message"])
		assert.Equal(t, "BYN", entry["base"])
		assert.Equal(t, float64(4), entry["written"])
		assert.NotEmpty(t, entry["timestamp"])
	})

	t.Run("Filters below the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewJSONLogger(&buf, WarnLevel)

		log.Debug("noise", nil)
		log.Info("noise", nil)
		log.Warn("kept", nil)
		log.Error("kept", nil)

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		assert.Len(t, lines, 2)
	})

	t.Run("WithFields carries context into every entry", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewJSONLogger(&buf, InfoLevel).WithFields(map[string]interface{}{
			"component": "rate_service",
		})

		log.Info("first", nil)
		log.Info("second", map[string]interface{}{"extra": true})

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		for _, line := range lines {
			assert.Equal(t, "rate_service", decodeLine(t, line)["component"])
		}
		assert.Equal(t, true, decodeLine(t, lines[1])["extra"])
	})

	t.Run("Call-site fields override context fields", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewJSONLogger(&buf, InfoLevel).WithFields(map[string]interface{}{
			"source": "context",
		})

		log.Info("msg", map[string]interface{}{"source": "call"})

		assert.Equal(t, "call", decodeLine(t, buf.String())["source"])
	})

	t.Run("Unknown level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewJSONLogger(&buf, Level("VERBOSE"))

		log.Debug("dropped", nil)
		log.Info("kept", nil)

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		assert.Len(t, lines, 1)
	})
}
