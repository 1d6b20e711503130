package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyBuilder_Environment_Prefixes(t *testing.T) {
	tests := []struct {
		name           string
		environment    string
		expectedPrefix string
	}{
		{name: "Production environment should use prod prefix", environment: "production", expectedPrefix: "prod"},
		{name: "Development environment should use staging prefix", environment: "development", expectedPrefix: "staging"},
		{name: "Staging environment should use staging prefix", environment: "staging", expectedPrefix: "staging"},
		{name: "Unknown environment should default to prod prefix", environment: "unknown", expectedPrefix: "prod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedPrefix, NewKeyBuilder(tt.environment).GetPrefix())
		})
	}
}

func TestKeyBuilder_StandingsKeys(t *testing.T) {
	kb := NewKeyBuilder("production")

	assert.Equal(t, "prod:standings:generation", kb.KeyStandingsGeneration())
	assert.Equal(t, "prod:standings:3:summary", kb.KeyStandingsView(3, "summary"))
	assert.Equal(t, "staging:standings:0:leaderboard:points:",
		NewKeyBuilder("development").KeyStandingsView(0, "leaderboard:points:"))
}
