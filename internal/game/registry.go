package game

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Registry enforces the one-active-session-per-(community, game) invariant.
// Create reserves the slot synchronously, before any content generation
// starts, so a racing second start observes the conflict immediately.
type Registry struct {
	mu       sync.Mutex
	sessions map[Key]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: map[Key]*Session{}}
}

func (r *Registry) Create(key Key, channelID, creatorID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[key]; exists {
		return nil, ErrAlreadyActive
	}
	s := newSession(key, channelID, creatorID)
	r.sessions[key] = s
	log.Debug().
		Str("community_id", key.CommunityID).
		Str("game", string(key.Game)).
		Msg("session slot reserved")
	return s, nil
}

func (r *Registry) Get(key Key) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[key]
	return s, ok
}

// End releases the slot. Idempotent: ending an absent session is a no-op.
func (r *Registry) End(key Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[key]; !ok {
		return
	}
	delete(r.sessions, key)
	log.Debug().
		Str("community_id", key.CommunityID).
		Str("game", string(key.Game)).
		Msg("session slot released")
}

// Keys snapshots the live session keys, for teardown sweeps.
func (r *Registry) Keys() []Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Key, 0, len(r.sessions))
	for k := range r.sessions {
		out = append(out, k)
	}
	return out
}
