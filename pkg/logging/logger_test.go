package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Level: "info", Format: FormatJSON, Output: &buf})
	require.NoError(t, err)

	l.With("component", "engine").Info("seed initialized", "slot", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "seed initialized", rec["msg"])
	assert.Equal(t, "engine", rec["component"])
	assert.Equal(t, float64(3), rec["slot"])
	assert.Equal(t, "INFO", rec["level"])
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Level: "info", Output: &buf})
	require.NoError(t, err)

	l.Debug("hidden")
	l.Debugf("hidden %d", 1)
	assert.Empty(t, buf.String())

	l.Warnf("visible %d", 2)
	assert.Contains(t, buf.String(), "visible 2")
}

func TestDebugEmittedAtDebug(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Level: "debug", Output: &buf})
	require.NoError(t, err)

	l.Debugf("scan at %d", 4)
	assert.Contains(t, buf.String(), "scan at 4")
}

func TestErrorHelpers(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Output: &buf})
	require.NoError(t, err)

	l.MaybeError(nil)
	assert.Empty(t, buf.String())

	l.MaybeError(errors.New("boom"))
	assert.Contains(t, buf.String(), "boom")
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Info("nothing")
	l.Error(errors.New("nothing"))
	assert.NotNil(t, l.Slog())
}
