package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_DisabledDiscards(t *testing.T) {
	t.Cleanup(Close)
	require.NoError(t, Init(Options{}))
	assert.False(t, L.Enabled(t.Context(), slog.LevelError))
}

func TestInit_TextToWriter(t *testing.T) {
	t.Cleanup(Close)
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Enabled: true, Level: slog.LevelDebug, Output: &buf}))

	Debug("probe", "size", 42)
	assert.Contains(t, buf.String(), "msg=probe")
	assert.Contains(t, buf.String(), "size=42")
}

func TestInit_JSONRespectsLevel(t *testing.T) {
	t.Cleanup(Close)
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Enabled: true, Level: slog.LevelWarn, JSON: true, Output: &buf}))

	Info("hidden")
	Warn("shown", "owner", "P1")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "P1", rec["owner"])
}

func TestInit_LogDirCreatesDatedFile(t *testing.T) {
	t.Cleanup(Close)
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Init(Options{Enabled: true, LogDir: dir}))

	Error("boom")
	Close()

	data, err := os.ReadFile(filepath.Join(dir, logFileName(time.Now())))
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=boom")
}

func TestCleanOldLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)
	old := logFileName(now.AddDate(0, 0, -45))
	recent := logFileName(now.AddDate(0, 0, -3))
	for _, name := range []string{old, recent, "unrelated.log", "memkit-garbage.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	cleanOldLogs(dir, now)

	assert.NoFileExists(t, filepath.Join(dir, old))
	assert.FileExists(t, filepath.Join(dir, recent))
	assert.FileExists(t, filepath.Join(dir, "unrelated.log"))
	assert.FileExists(t, filepath.Join(dir, "memkit-garbage.log"))
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	lvl, err = ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	_, err = ParseLevel("chatty")
	require.Error(t, err)
}
