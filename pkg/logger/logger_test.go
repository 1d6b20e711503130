package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"verbose": zapcore.InfoLevel,
	}

	for input, expected := range tests {
		assert.Equal(t, expected, ParseLevel(input), "level %q", input)
	}
}

func TestNew(t *testing.T) {
	log, err := New("debug")
	require.NoError(t, err)
	require.NotNil(t, log.Logger)

	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.NotNil(t, log.WithField("player_id", "p1"))
	assert.NotNil(t, log.WithFields(map[string]interface{}{"a": 1, "b": "two"}))
	assert.NotNil(t, log.WithError(errors.New("boom")))
}
