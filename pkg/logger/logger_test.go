package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/limaJavier/lesson-timetabling/pkg/config"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name  string
		cfg   config.Config
		level zapcore.Level
	}{
		{"development debug", config.Config{Env: config.EnvDevelopment, Log: config.LogConfig{Level: "debug", Format: "console"}}, zapcore.DebugLevel},
		{"production json", config.Config{Env: config.EnvProduction, Log: config.LogConfig{Level: "warn", Format: "json"}}, zapcore.WarnLevel},
		{"invalid level", config.Config{Env: config.EnvDevelopment, Log: config.LogConfig{Level: "loud"}}, zapcore.InfoLevel},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			//** Act
			logger, err := New(&testCase.cfg)

			//** Assert
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(testCase.level))
			assert.False(t, logger.Core().Enabled(testCase.level-1))
		})
	}
}
