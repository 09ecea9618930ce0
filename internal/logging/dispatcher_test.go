package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dispatcherLoggerFor(level slog.Level) (*DispatcherLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level}))
	return NewDispatcherLogger(logger), &buf
}

func parseEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestDispatcherLogger_Debug(t *testing.T) {
	dl, buf := dispatcherLoggerFor(slog.LevelDebug)

	dl.Debug("test message", "key1", "value1", "key2", 42)

	entry := parseEntry(t, buf)
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value1", entry["key1"])
	assert.Equal(t, float64(42), entry["key2"])
}

func TestDispatcherLogger_Info(t *testing.T) {
	dl, buf := dispatcherLoggerFor(slog.LevelInfo)

	dl.Info("info message", "status", "ok")

	entry := parseEntry(t, buf)
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "ok", entry["status"])
}

func TestDispatcherLogger_Error(t *testing.T) {
	dl, buf := dispatcherLoggerFor(slog.LevelError)

	dl.Error("error occurred", "code", 500)

	entry := parseEntry(t, buf)
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, float64(500), entry["code"])
}

func TestDispatcherLogger_NoKeyValues(t *testing.T) {
	dl, buf := dispatcherLoggerFor(slog.LevelDebug)

	dl.Debug("simple message")

	entry := parseEntry(t, buf)
	assert.Equal(t, "simple message", entry["msg"])
}
