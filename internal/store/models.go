package store

import "time"

// ChatLog is one turn of a community conversation, either side.
type ChatLog struct {
	ID          string    `json:"id"`
	CommunityID string    `json:"community_id"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserIdentity carries a user's chosen nickname and signature, injected
// into conversation prompts.
type UserIdentity struct {
	UserID    string    `json:"user_id"`
	Nickname  string    `json:"nickname"`
	Signature string    `json:"signature"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pet is one creature in a user's collection, rolled by the provider at
// hatch time. Stats, Skills and Traits hold the provider's JSON verbatim.
type Pet struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Species     string    `json:"species"`
	Description string    `json:"description"`
	Rarity      string    `json:"rarity"`
	Element     string    `json:"element"`
	Stats       string    `json:"stats"`
	Skills      string    `json:"skills"`
	Traits      string    `json:"traits"`
	ImagePrompt string    `json:"image_prompt"`
	Level       int       `json:"level"`
	CreatedAt   time.Time `json:"created_at"`
}

// EggCooldown tracks how many eggs a user opened on their latest hatch day.
type EggCooldown struct {
	UserID     string    `json:"user_id"`
	DailyCount int       `json:"daily_count"`
	LastHatch  time.Time `json:"last_hatch"`
}

// CommunityConfig is the per-community behavior knobs editable from the
// dashboard.
type CommunityConfig struct {
	CommunityID  string    `json:"community_id"`
	SystemPrompt string    `json:"system_prompt"`
	ChatEnabled  bool      `json:"chat_enabled"`
	GamesEnabled bool      `json:"games_enabled"`
	UpdatedAt    time.Time `json:"updated_at"`
}
