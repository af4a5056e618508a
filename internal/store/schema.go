package store

import "context"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS chat_logs (
		id TEXT PRIMARY KEY,
		community_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		username TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS chat_logs_community_created_idx
		ON chat_logs (community_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS user_identities (
		user_id TEXT PRIMARY KEY,
		nickname TEXT NOT NULL DEFAULT '',
		signature TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS pets (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		species TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		rarity TEXT NOT NULL DEFAULT '',
		element TEXT NOT NULL DEFAULT '',
		stats TEXT NOT NULL DEFAULT '{}',
		skills TEXT NOT NULL DEFAULT '[]',
		traits TEXT NOT NULL DEFAULT '[]',
		image_prompt TEXT NOT NULL DEFAULT '',
		level INT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS pets_owner_created_idx
		ON pets (owner_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS egg_cooldowns (
		user_id TEXT PRIMARY KEY,
		daily_count INT NOT NULL DEFAULT 0,
		last_hatch TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS community_configs (
		community_id TEXT PRIMARY KEY,
		system_prompt TEXT NOT NULL DEFAULT '',
		chat_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		games_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates the tables on boot. Statements are idempotent so a
// restart against an initialized database is a no-op.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.Pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
