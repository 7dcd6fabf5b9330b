package logging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.input))
		})
	}
}

func TestNewStructuredLogger(t *testing.T) {
	l := NewStructuredLogger("hipblaslt-select", "v0.0.1", "debug")
	assert.NotNil(t, l)
	assert.True(t, l.Enabled(t.Context(), slog.LevelDebug))

	l = NewStructuredLogger("hipblaslt-select", "v0.0.1", "error")
	assert.False(t, l.Enabled(t.Context(), slog.LevelWarn))
}

func TestNewLogLogger(t *testing.T) {
	assert.NotNil(t, NewLogLogger(slog.LevelInfo, false))
	assert.NotNil(t, NewLogLogger(slog.LevelDebug, true))
}
