package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	require.True(t, errors.Is(err, ErrUnknownLevel))
}

func TestNewTextOnly(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Writer: &buf})
	require.NoError(t, err)
	defer logger.Close()

	logger.Info("hidden")
	logger.Warn("shown", "env", "cartpole")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "msg=shown")
	require.Contains(t, out, "env=cartpole")

	logger.SetLevel(slog.LevelDebug)
	require.Equal(t, slog.LevelDebug, logger.Level())
	logger.Debug("now visible")
	require.Contains(t, buf.String(), "now visible")
}

func TestNewWithFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "randplay.log")

	logger, err := New(Options{Writer: &buf, File: path})
	require.NoError(t, err)

	logger.Info("run saved", "run_id", "spring_0123abcd")
	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &rec))
	require.Equal(t, "run saved", rec["msg"])
	require.Equal(t, "spring_0123abcd", rec["run_id"])
	require.Contains(t, buf.String(), "run saved")
}

func TestNewBadLevel(t *testing.T) {
	_, err := New(Options{Level: "verbose"})
	require.ErrorIs(t, err, ErrUnknownLevel)
}
