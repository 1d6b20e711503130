package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetObjectName(t *testing.T) {
	assert.Equal(t, "players", getObjectName("CREATE TABLE IF NOT EXISTS players (\n id TEXT)"))
	assert.Equal(t, "idx_players_name_lower", getObjectName("CREATE UNIQUE INDEX IF NOT EXISTS idx_players_name_lower ON players (lower(name))"))
	assert.Equal(t, "ALTER TABLE players ADD", getObjectName("ALTER TABLE players ADD COLUMN x TEXT"))
}
