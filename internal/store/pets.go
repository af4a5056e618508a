package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

func (s *Store) InsertPet(ctx context.Context, p Pet) (string, error) {
	if p.ID == "" {
		p.ID = NewID()
	}
	if p.Level <= 0 {
		p.Level = 1
	}
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO pets (id, owner_id, name, species, description, rarity, element, stats, skills, traits, image_prompt, level)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		p.ID, p.OwnerID, p.Name, p.Species, p.Description, p.Rarity, p.Element,
		p.Stats, p.Skills, p.Traits, p.ImagePrompt, p.Level)
	return p.ID, err
}

// ListPets returns a user's collection newest-first.
func (s *Store) ListPets(ctx context.Context, ownerID string) ([]Pet, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, owner_id, name, species, description, rarity, element, stats, skills, traits, image_prompt, level, created_at
		 FROM pets WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Pet
	for rows.Next() {
		var p Pet
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Species, &p.Description, &p.Rarity, &p.Element,
			&p.Stats, &p.Skills, &p.Traits, &p.ImagePrompt, &p.Level, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (s *Store) GetEggCooldown(ctx context.Context, userID string) (*EggCooldown, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT user_id, daily_count, last_hatch FROM egg_cooldowns WHERE user_id = $1`, userID)
	var c EggCooldown
	if err := row.Scan(&c.UserID, &c.DailyCount, &c.LastHatch); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) UpsertEggCooldown(ctx context.Context, c EggCooldown) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO egg_cooldowns (user_id, daily_count, last_hatch) VALUES ($1,$2,$3)
		 ON CONFLICT (user_id) DO UPDATE SET daily_count = $2, last_hatch = $3`,
		c.UserID, c.DailyCount, c.LastHatch)
	return err
}
