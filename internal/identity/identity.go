// Package identity resolves per-user nicknames and signatures for prompt
// assembly, caching store reads for a short window.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"arcade-bot/internal/store"

	"github.com/jonboulle/clockwork"
)

const cacheTTL = 5 * time.Minute

// Repository is the slice of the store the service needs.
type Repository interface {
	GetUserIdentity(ctx context.Context, userID string) (*store.UserIdentity, error)
	UpsertUserNickname(ctx context.Context, userID, nickname string) error
	UpsertUserSignature(ctx context.Context, userID, signature string) error
}

type cached struct {
	identity store.UserIdentity
	fetched  time.Time
}

type Service struct {
	repo  Repository
	clock clockwork.Clock

	mu    sync.Mutex
	cache map[string]cached
}

func NewService(repo Repository, clock clockwork.Clock) *Service {
	return &Service{
		repo:  repo,
		clock: clock,
		cache: make(map[string]cached),
	}
}

// Get returns the user's identity, empty fields for users who never set one.
func (s *Service) Get(ctx context.Context, userID string) (store.UserIdentity, error) {
	s.mu.Lock()
	if c, ok := s.cache[userID]; ok && s.clock.Since(c.fetched) < cacheTTL {
		s.mu.Unlock()
		return c.identity, nil
	}
	s.mu.Unlock()

	id, err := s.repo.GetUserIdentity(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			id = &store.UserIdentity{UserID: userID}
		} else {
			return store.UserIdentity{}, err
		}
	}

	s.mu.Lock()
	s.cache[userID] = cached{identity: *id, fetched: s.clock.Now()}
	s.mu.Unlock()
	return *id, nil
}

func (s *Service) SetNickname(ctx context.Context, userID, nickname string) error {
	nickname = strings.TrimSpace(nickname)
	if err := s.repo.UpsertUserNickname(ctx, userID, nickname); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

func (s *Service) SetSignature(ctx context.Context, userID, signature string) error {
	signature = strings.TrimSpace(signature)
	if err := s.repo.UpsertUserSignature(ctx, userID, signature); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

// ForPrompt renders the identity as a system-prompt fragment. An empty
// string means the user has no stored identity.
func (s *Service) ForPrompt(ctx context.Context, userID, fallbackName string) (string, error) {
	id, err := s.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	name := id.Nickname
	if name == "" {
		name = fallbackName
	}
	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "The user you are talking to goes by %q.", name)
	}
	if id.Signature != "" {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "Their personal signature: %q.", id.Signature)
	}
	return b.String(), nil
}

func (s *Service) invalidate(userID string) {
	s.mu.Lock()
	delete(s.cache, userID)
	s.mu.Unlock()
}
