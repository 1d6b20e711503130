package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeyStandingsGeneration is the counter bumped whenever match data changes
func (kb *KeyBuilder) KeyStandingsGeneration() string {
	return kb.BuildKey(KeyStandingsGeneration)
}

// KeyStandingsView names a cached standings view within one generation
func (kb *KeyBuilder) KeyStandingsView(generation int64, view string) string {
	return kb.BuildKey(fmt.Sprintf(KeyStandingsView, generation, view))
}
