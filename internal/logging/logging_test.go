package logging

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	loc := time.FixedZone("WIB", 7*3600)
	log := NewWithWriter(&buf, "info", loc)

	log.Info("tracing_configured", zap.Bool("tracing_enabled", false))
	log.Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "tracing_configured", entry["msg"])
	assert.Equal(t, false, entry["tracing_enabled"])

	ts, ok := entry["ts"].(string)
	require.True(t, ok)
	assert.Contains(t, ts, "+07:00")
}

func TestNewWithWriter_InvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "loud", nil)

	log.Debug("hidden")
	assert.Zero(t, buf.Len())

	log.Info("shown")
	assert.NotZero(t, buf.Len())
}
