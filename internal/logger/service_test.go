package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelInfo, "json").With("name", "decoder").Info("call decoded", "selector", "0xa9059cbb")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "call decoded", record["msg"])
	assert.Equal(t, "decoder", record["name"])
	assert.Equal(t, "0xa9059cbb", record["selector"])
}

func TestNewTextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelWarn, "TEXT")

	log.Info("hidden")
	log.Warn("selector collision")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `msg="selector collision"`)
}
