package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

func (s *Store) GetUserIdentity(ctx context.Context, userID string) (*UserIdentity, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT user_id, nickname, signature, updated_at FROM user_identities WHERE user_id = $1`, userID)
	var id UserIdentity
	if err := row.Scan(&id.UserID, &id.Nickname, &id.Signature, &id.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &id, nil
}

func (s *Store) UpsertUserNickname(ctx context.Context, userID, nickname string) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO user_identities (user_id, nickname) VALUES ($1,$2)
		 ON CONFLICT (user_id) DO UPDATE SET nickname = $2, updated_at = now()`,
		userID, nickname)
	return err
}

func (s *Store) UpsertUserSignature(ctx context.Context, userID, signature string) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO user_identities (user_id, signature) VALUES ($1,$2)
		 ON CONFLICT (user_id) DO UPDATE SET signature = $2, updated_at = now()`,
		userID, signature)
	return err
}
