package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWithSink(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWithSink("warn", zapcore.AddSync(&buf))
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("tool call failed", zap.String("tool", "gcs.buckets.list"))
	require.NoError(t, logger.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "tool call failed", entry["msg"])
	assert.Equal(t, "gcs.buckets.list", entry["tool"])
	assert.Equal(t, "mcp-gcp", entry["logger"])
	assert.Contains(t, entry, "time")
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New("loud")
	assert.Error(t, err)
}
