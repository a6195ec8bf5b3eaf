package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warning", WarningLevel},
		{"warn", WarningLevel},
		{"Error", ErrorLevel},
		{"", WarningLevel},
		{"verbose", WarningLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.name))
		})
	}
}

func TestLogrusLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, LogrusLevel(DebugLevel))
	assert.Equal(t, logrus.WarnLevel, LogrusLevel(WarningLevel))
	assert.Equal(t, logrus.ErrorLevel, LogrusLevel(ErrorLevel))
	assert.Equal(t, logrus.DebugLevel, LogrusLevel(-5))
	assert.Equal(t, logrus.ErrorLevel, LogrusLevel(100))
}

func TestNewLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	lgr := New(WarningLevel, FormatText, &buf)

	lgr.Info("hidden")
	lgr.WithField("host", "10.0.0.1").Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "host=10.0.0.1")
}

func TestNewMultiWriter(t *testing.T) {
	var a, b bytes.Buffer
	lgr := New(DebugLevel, FormatText, &a, &b)

	lgr.Debug("fan out")
	assert.Contains(t, a.String(), "fan out")
	assert.Equal(t, a.String(), b.String())
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	lgr := New(InfoLevel, FormatJSON, &buf)

	lgr.WithField("seq", 42).Error("boom")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "boom", entry["msg"])
	assert.Equal(t, "error", entry["level"])
	assert.EqualValues(t, 42, entry["seq"])
}

func TestNewNoWriters(t *testing.T) {
	lgr := New(DebugLevel, FormatText)
	assert.NotPanics(t, func() { lgr.Error("discarded") })
}

func TestGlobal(t *testing.T) {
	prev := Global()
	t.Cleanup(func() { global.Store(prev) })

	var buf bytes.Buffer
	lgr := SetupGlobalLogger(InfoLevel, FormatText, &buf)
	require.Same(t, lgr, Global())
	assert.Equal(t, "INFO", Level())

	Global().Info("global")
	assert.Contains(t, buf.String(), "global")
}

func TestFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nethealth.log")
	w := FileWriter(path, 1, 2)
	t.Cleanup(func() { w.Close() })

	assert.Equal(t, path, w.Filename)
	assert.Equal(t, 1, w.MaxSize)
	assert.Equal(t, 2, w.MaxBackups)

	lgr := New(InfoLevel, FormatText, w)
	lgr.Info("to file")
	assert.FileExists(t, path)
}
