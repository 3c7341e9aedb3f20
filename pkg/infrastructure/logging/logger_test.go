package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/vsinha/poolplan/pkg/infrastructure/config"
)

func TestNewLogger(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     config.LogConfig
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{"console debug", config.LogConfig{Level: "debug", Format: "console"}, zapcore.DebugLevel, zapcore.InvalidLevel},
		{"json warn", config.LogConfig{Level: "warn", Format: "json"}, zapcore.WarnLevel, zapcore.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := NewLogger(tc.cfg)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tc.enabled))
			if tc.muted != zapcore.InvalidLevel {
				assert.False(t, logger.Core().Enabled(tc.muted))
			}
		})
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(config.LogConfig{Level: "loud", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
