package logging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level   string
		enabled slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := New(tt.level)
			assert.NotNil(t, logger)
			assert.True(t, logger.Enabled(nil, tt.enabled))
			if tt.enabled > slog.LevelDebug {
				assert.False(t, logger.Enabled(nil, tt.enabled-4))
			}
		})
	}
}

func TestWithComponent(t *testing.T) {
	logger := Default().WithComponent("privacy")
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.Logger)
}
