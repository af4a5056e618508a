// Package chat produces the assistant's conversational replies. Every reply
// is grounded in the community's configured persona, the speaker's stored
// identity, and a short window of prior conversation.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"arcade-bot/internal/store"

	"github.com/rs/zerolog/log"
)

const apology = "Sorry, my head is spinning right now. Ask me again in a moment."

// Repository is the slice of the store the service needs.
type Repository interface {
	InsertChatLog(ctx context.Context, entry store.ChatLog) (string, error)
	RecentChatLogs(ctx context.Context, communityID string, n int) ([]store.ChatLog, error)
	GetCommunityConfig(ctx context.Context, communityID string) (*store.CommunityConfig, error)
}

// IdentityResolver renders a user's stored identity as a prompt fragment.
type IdentityResolver interface {
	ForPrompt(ctx context.Context, userID, fallbackName string) (string, error)
}

// Completer is the text side of the generative provider.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type Service struct {
	repo         Repository
	identities   IdentityResolver
	completer    Completer
	defaultSys   string
	coreRules    string
	historyDepth int
}

func NewService(repo Repository, identities IdentityResolver, completer Completer, defaultSystemPrompt, coreRules string, historyDepth int) *Service {
	if historyDepth <= 0 {
		historyDepth = 20
	}
	return &Service{
		repo:         repo,
		identities:   identities,
		completer:    completer,
		defaultSys:   defaultSystemPrompt,
		coreRules:    coreRules,
		historyDepth: historyDepth,
	}
}

// Respond answers one user message. The user's side is always persisted;
// the assistant's side only when a reply was actually produced. Provider
// failures degrade to a canned apology.
func (s *Service) Respond(ctx context.Context, communityID, userID, username, text string) (string, error) {
	cfg, err := s.repo.GetCommunityConfig(ctx, communityID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", err
	}
	if cfg != nil && !cfg.ChatEnabled {
		return "", nil
	}

	if _, err := s.repo.InsertChatLog(ctx, store.ChatLog{
		CommunityID: communityID,
		UserID:      userID,
		Username:    username,
		Role:        "user",
		Content:     text,
	}); err != nil {
		log.Error().Err(err).Str("community_id", communityID).Msg("persist user message failed")
	}

	system := s.systemPrompt(ctx, cfg, userID, username)
	prompt := s.buildPrompt(ctx, communityID, username, text)

	reply, err := s.completer.Complete(ctx, system, prompt)
	if err != nil {
		log.Warn().Err(err).Str("community_id", communityID).Msg("completion failed, sending apology")
		return apology, nil
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return apology, nil
	}

	if _, err := s.repo.InsertChatLog(ctx, store.ChatLog{
		CommunityID: communityID,
		UserID:      "assistant",
		Username:    "assistant",
		Role:        "assistant",
		Content:     reply,
	}); err != nil {
		log.Error().Err(err).Str("community_id", communityID).Msg("persist reply failed")
	}
	return reply, nil
}

func (s *Service) systemPrompt(ctx context.Context, cfg *store.CommunityConfig, userID, username string) string {
	base := s.defaultSys
	if cfg != nil && strings.TrimSpace(cfg.SystemPrompt) != "" {
		base = cfg.SystemPrompt
	}
	parts := []string{base}
	if s.coreRules != "" {
		parts = append(parts, s.coreRules)
	}
	if frag, err := s.identities.ForPrompt(ctx, userID, username); err == nil && frag != "" {
		parts = append(parts, frag)
	}
	return strings.Join(parts, "\n\n")
}

func (s *Service) buildPrompt(ctx context.Context, communityID, username, text string) string {
	var b strings.Builder
	history, err := s.repo.RecentChatLogs(ctx, communityID, s.historyDepth)
	if err != nil {
		log.Warn().Err(err).Str("community_id", communityID).Msg("load chat history failed")
	}
	if len(history) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, h := range history {
			speaker := h.Username
			if h.Role == "assistant" {
				speaker = "you"
			}
			fmt.Fprintf(&b, "%s: %s\n", speaker, h.Content)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s says: %s", username, text)
	return b.String()
}
