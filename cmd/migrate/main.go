package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

const usage = "Usage: go run ./cmd/migrate [up|drop|seed]"

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("All tables dropped successfully")

	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("All tables created successfully")

	case "seed":
		if err := seedData(ctx, conn, os.Args[2:]); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println(usage)
		os.Exit(1)
	}
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`DROP TABLE IF EXISTS matches CASCADE`,
		`DROP TABLE IF EXISTS suggestions CASCADE`,
		`DROP TABLE IF EXISTS players CASCADE`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		fmt.Printf("  Dropped: %s\n", query)
	}

	return nil
}

// createTables uses lowercase column names so the same tables serve the
// Postgres backend and the Supabase REST backend.
func createTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS suggestions (
			id TEXT PRIMARY KEY,
			homeid TEXT NOT NULL,
			awayid TEXT NOT NULL,
			homescore INTEGER NOT NULL CHECK (homescore >= 0),
			awayscore INTEGER NOT NULL CHECK (awayscore >= 0),
			scorers JSONB NOT NULL DEFAULT '[]'::jsonb,
			submittedby TEXT NOT NULL DEFAULT 'Anonimo',
			createdat TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			evidence JSONB
		)`,

		`CREATE TABLE IF NOT EXISTS matches (
			id TEXT PRIMARY KEY,
			homeid TEXT NOT NULL,
			awayid TEXT NOT NULL,
			homescore INTEGER NOT NULL CHECK (homescore >= 0),
			awayscore INTEGER NOT NULL CHECK (awayscore >= 0),
			scorers JSONB NOT NULL DEFAULT '[]'::jsonb,
			submittedby TEXT NOT NULL DEFAULT 'Anonimo',
			createdat TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			evidence JSONB,
			status TEXT NOT NULL DEFAULT 'approved',
			approvedat TIMESTAMPTZ,
			updatedat TIMESTAMPTZ
		)`,

		// Player names are unique ignoring case
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_players_name_lower ON players (lower(name))`,
		`CREATE INDEX IF NOT EXISTS idx_suggestions_createdat ON suggestions (createdat DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_suggestions_homeid ON suggestions (homeid)`,
		`CREATE INDEX IF NOT EXISTS idx_suggestions_awayid ON suggestions (awayid)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_approvedat ON matches (approvedat DESC NULLS LAST, createdat DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_homeid ON matches (homeid)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_awayid ON matches (awayid)`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w\nQuery: %s", err, query)
		}
		fmt.Printf("  Created: %s\n", getObjectName(query))
	}

	return nil
}

// seedData inserts the given player names, or a default roster when none are given
func seedData(ctx context.Context, conn *pgx.Conn, names []string) error {
	if len(names) == 0 {
		names = []string{"Ana", "Bruno", "Carla", "Diego"}
	}

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		tag, err := conn.Exec(ctx,
			`INSERT INTO players (id, name) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			uuid.NewString(), name)
		if err != nil {
			return fmt.Errorf("failed to insert player %q: %w", name, err)
		}
		if tag.RowsAffected() == 0 {
			fmt.Printf("  Skipped existing player: %s\n", name)
			continue
		}
		fmt.Printf("  Seeded player: %s\n", name)
	}

	return nil
}

// getObjectName extracts the table or index name from a DDL statement
func getObjectName(query string) string {
	fields := strings.Fields(query)
	for i, field := range fields {
		if strings.EqualFold(field, "EXISTS") && i+1 < len(fields) {
			return strings.TrimSuffix(fields[i+1], "(")
		}
	}
	return strings.Join(fields[:min(len(fields), 4)], " ")
}
