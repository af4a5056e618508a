package store

import (
	"context"
)

func (s *Store) InsertChatLog(ctx context.Context, entry ChatLog) (string, error) {
	if entry.ID == "" {
		entry.ID = NewID()
	}
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO chat_logs (id, community_id, user_id, username, role, content) VALUES ($1,$2,$3,$4,$5,$6)`,
		entry.ID, entry.CommunityID, entry.UserID, entry.Username, entry.Role, entry.Content)
	return entry.ID, err
}

// ListChatLogs pages a community's conversation newest-first, for the
// dashboard.
func (s *Store) ListChatLogs(ctx context.Context, communityID string, limit, offset int) ([]ChatLog, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, community_id, user_id, username, role, content, created_at
		 FROM chat_logs WHERE community_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		communityID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ChatLog, 0, limit)
	for rows.Next() {
		var c ChatLog
		if err := rows.Scan(&c.ID, &c.CommunityID, &c.UserID, &c.Username, &c.Role, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// RecentChatLogs returns the last n turns in chronological order, ready to
// prepend to a prompt.
func (s *Store) RecentChatLogs(ctx context.Context, communityID string, n int) ([]ChatLog, error) {
	items, err := s.ListChatLogs(ctx, communityID, n, 0)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items, nil
}
