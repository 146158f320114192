package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, verboseOn bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseOn)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels_WhenVerbose(t *testing.T) {
	buf := capture(t, true)

	Debug("refresh %d", 1)
	Info("loaded %s", "claims")
	Warn("poll failed")
	Section("Chat")

	assert.Equal(t, "[DEBUG] refresh 1\n[INFO] loaded claims\n[WARN] poll failed\n\n=== Chat ===\n", buf.String())
}

func TestLevels_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Section("hidden")

	assert.Empty(t, buf.String())
}

func TestError_AlwaysPrinted(t *testing.T) {
	buf := capture(t, false)

	Error("delete %s: %v", "doc-1", "boom")

	assert.Equal(t, "[ERROR] delete doc-1: boom\n", buf.String())
}

func TestLogToFile(t *testing.T) {
	t.Cleanup(func() { SetVerbose(false) })
	SetVerbose(true)
	path := filepath.Join(t.TempDir(), "logs", "copilot.log")

	restore, err := LogToFile(path)
	require.NoError(t, err)
	Info("to file")
	restore()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[INFO] to file\n", string(data))
}
