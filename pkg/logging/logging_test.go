package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tc := range testCases {
		got, err := ParseLevel(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(Options{Level: "info", Writer: &buf})
		require.NoError(t, err)

		logger.Debug("hidden")
		logger.Info("scanned", "records", 3)
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=scanned")
		assert.Contains(t, buf.String(), "records=3")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(Options{Level: "debug", Format: "json", Writer: &buf})
		require.NoError(t, err)

		logger.With("component", "ingest").Debug("file opened", "path", "a.xh")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "file opened", rec["msg"])
		assert.Equal(t, "ingest", rec["component"])
		assert.Equal(t, "a.xh", rec["path"])
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := New(Options{Format: "xml"})
		assert.Error(t, err)
	})

	t.Run("bad level", func(t *testing.T) {
		_, err := New(Options{Level: "trace"})
		assert.Error(t, err)
	})
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	require.NotNil(t, logger)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
	logger.With("k", "v").WithGroup("g").Info("dropped")
}

func TestDefault(t *testing.T) {
	assert.False(t, Default(nil).Enabled(context.Background(), slog.LevelError))

	var buf bytes.Buffer
	original := slog.New(slog.NewTextHandler(&buf, nil))
	assert.Same(t, original, Default(original))
}
