package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied at startup. Statements are idempotent so restarting the
// server against an existing database is safe.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		avatar_url TEXT,
		bio TEXT,
		location TEXT,
		languages TEXT[] NOT NULL DEFAULT '{}',
		travel_interests TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS travel_groups (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		destination TEXT NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		budget_range TEXT,
		image_url TEXT,
		max_participants INT NOT NULL CHECK (max_participants >= 1),
		creator_id UUID NOT NULL REFERENCES profiles(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK (start_date <= end_date)
	)`,

	// UNIQUE (travel_group_id, profile_id) is what makes concurrent join
	// requests collapse into a single row.
	`CREATE TABLE IF NOT EXISTS group_members (
		id UUID PRIMARY KEY,
		travel_group_id UUID NOT NULL REFERENCES travel_groups(id) ON DELETE CASCADE,
		profile_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		status TEXT NOT NULL CHECK (status IN ('pending', 'accepted', 'rejected')),
		joined_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (travel_group_id, profile_id)
	)`,

	`CREATE TABLE IF NOT EXISTS group_messages (
		id UUID PRIMARY KEY,
		travel_group_id UUID NOT NULL REFERENCES travel_groups(id) ON DELETE CASCADE,
		sender_id UUID NOT NULL REFERENCES profiles(id),
		content TEXT NOT NULL CHECK (content <> ''),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS group_tags (
		id UUID PRIMARY KEY,
		travel_group_id UUID NOT NULL REFERENCES travel_groups(id) ON DELETE CASCADE,
		tag TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_group_members_group ON group_members(travel_group_id)`,
	`CREATE INDEX IF NOT EXISTS idx_group_messages_group_created ON group_messages(travel_group_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_travel_groups_destination ON travel_groups(destination)`,
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
