package util

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerRequiresOutput(t *testing.T) {
	_, err := NewLogger(LoggerOptions{Level: "info"})
	assert.Error(t, err)
}

func TestLoggerLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{level: LevelInfo}
	logger.AddOutput(NewConsoleOutput(&buf, FormatText))

	logger.Debug("hidden")
	logger.Info("session started", F("pid", 42), F("project", "acme"))
	logger.Warnf("lock held for %s", "3s")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[INFO] session started pid=42 project=acme")
	assert.Contains(t, out, "[WARN] lock held for 3s")
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{level: LevelDebug}
	logger.AddOutput(NewConsoleOutput(&buf, FormatJSON))

	logger.Error("save failed", F("path", "/tmp/x"))

	var entry LogEntry
	require.NoError(t, sonic.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "save failed", entry.Message)
	assert.Equal(t, "/tmp/x", entry.Fields["path"])
}

func TestFileOutputAndGlobalLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	require.NoError(t, InitLogger(LoggerOptions{Level: "debug", File: path}))
	LogDebugf("heartbeat %d", 1)
	LogInfo("stopped", F("project", "acme"))
	require.NoError(t, CloseLogger())

	// Logging after close is a no-op
	LogInfo("dropped")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG] heartbeat 1")
	assert.Contains(t, string(data), "[INFO] stopped project=acme")
	assert.NotContains(t, string(data), "dropped")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, parseLogLevel("DEBUG"))
	assert.Equal(t, LevelWarn, parseLogLevel("warning"))
	assert.Equal(t, LevelError, parseLogLevel("error"))
	assert.Equal(t, LevelInfo, parseLogLevel("bogus"))
}
