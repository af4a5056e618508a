package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

func (s *Store) GetCommunityConfig(ctx context.Context, communityID string) (*CommunityConfig, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT community_id, system_prompt, chat_enabled, games_enabled, updated_at
		 FROM community_configs WHERE community_id = $1`, communityID)
	var c CommunityConfig
	if err := row.Scan(&c.CommunityID, &c.SystemPrompt, &c.ChatEnabled, &c.GamesEnabled, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) UpsertCommunityConfig(ctx context.Context, cfg CommunityConfig) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO community_configs (community_id, system_prompt, chat_enabled, games_enabled)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (community_id) DO UPDATE
		 SET system_prompt = $2, chat_enabled = $3, games_enabled = $4, updated_at = now()`,
		cfg.CommunityID, cfg.SystemPrompt, cfg.ChatEnabled, cfg.GamesEnabled)
	return err
}

func (s *Store) ListCommunityConfigs(ctx context.Context) ([]CommunityConfig, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT community_id, system_prompt, chat_enabled, games_enabled, updated_at
		 FROM community_configs ORDER BY community_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CommunityConfig
	for rows.Next() {
		var c CommunityConfig
		if err := rows.Scan(&c.CommunityID, &c.SystemPrompt, &c.ChatEnabled, &c.GamesEnabled, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
