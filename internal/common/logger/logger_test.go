package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesStructuredEntry(t *testing.T) {
	Setup(Options{Level: "debug"})
	var buf bytes.Buffer
	SetOutput(&buf)

	New("orders").Error("snapshot_failed", errors.New("boom"), map[string]any{"order_id": "o1"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "orders", entry["service"])
	assert.Equal(t, "snapshot_failed", entry["action"])
	assert.Equal(t, "snapshot_failed", entry["message"])
	assert.Equal(t, "o1", entry["order_id"])
	assert.Equal(t, "boom", entry["error"])
	assert.Contains(t, entry, "timestamp")
}

func TestLoggerRespectsLevel(t *testing.T) {
	Setup(Options{Level: "info"})
	var buf bytes.Buffer
	SetOutput(&buf)

	New("orders").Debug("noise", nil)
	assert.Zero(t, buf.Len())
}
