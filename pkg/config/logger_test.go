package config

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		enabledAt zapcore.Level
	}{
		{"default-info", "", zapcore.InfoLevel},
		{"debug", "debug", zapcore.DebugLevel},
		{"warn", "warn", zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.level)

			logger, err := NewLogger()
			if err != nil {
				t.Fatalf("NewLogger() error = %v", err)
			}

			if !logger.Core().Enabled(tt.enabledAt) {
				t.Errorf("level %v not enabled for LOG_LEVEL=%q", tt.enabledAt, tt.level)
			}
			if tt.enabledAt > zapcore.DebugLevel && logger.Core().Enabled(tt.enabledAt-1) {
				t.Errorf("level %v unexpectedly enabled for LOG_LEVEL=%q", tt.enabledAt-1, tt.level)
			}
		})
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "shouting")

	if _, err := NewLogger(); err == nil {
		t.Error("NewLogger() with invalid level should error")
	}
}
