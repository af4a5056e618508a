package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"arcade-bot/internal/store"

	"github.com/go-chi/chi/v5"
)

// dashboardStore is the slice of the store the dashboard API needs.
type dashboardStore interface {
	Ping(ctx context.Context) error
	GetCommunityConfig(ctx context.Context, communityID string) (*store.CommunityConfig, error)
	UpsertCommunityConfig(ctx context.Context, cfg store.CommunityConfig) error
	ListCommunityConfigs(ctx context.Context) ([]store.CommunityConfig, error)
	ListChatLogs(ctx context.Context, communityID string, limit, offset int) ([]store.ChatLog, error)
}

func healthHandler(st dashboardStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "db": "down"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "db": "up"})
	}
}

func getConfigHandler(st dashboardStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		communityID := chi.URLParam(r, "community_id")
		cfg, err := st.GetCommunityConfig(r.Context(), communityID)
		if errors.Is(err, store.ErrNotFound) {
			// unconfigured communities run with the defaults
			cfg = &store.CommunityConfig{
				CommunityID:  communityID,
				ChatEnabled:  true,
				GamesEnabled: true,
			}
		} else if err != nil {
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(cfg)
	}
}

func putConfigHandler(st dashboardStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		communityID := chi.URLParam(r, "community_id")
		var body struct {
			SystemPrompt string `json:"system_prompt"`
			ChatEnabled  *bool  `json:"chat_enabled"`
			GamesEnabled *bool  `json:"games_enabled"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}

		cfg := store.CommunityConfig{
			CommunityID:  communityID,
			SystemPrompt: body.SystemPrompt,
			ChatEnabled:  true,
			GamesEnabled: true,
		}
		if existing, err := st.GetCommunityConfig(r.Context(), communityID); err == nil {
			cfg.ChatEnabled = existing.ChatEnabled
			cfg.GamesEnabled = existing.GamesEnabled
			if body.SystemPrompt == "" {
				cfg.SystemPrompt = existing.SystemPrompt
			}
		}
		if body.ChatEnabled != nil {
			cfg.ChatEnabled = *body.ChatEnabled
		}
		if body.GamesEnabled != nil {
			cfg.GamesEnabled = *body.GamesEnabled
		}

		if err := st.UpsertCommunityConfig(r.Context(), cfg); err != nil {
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func listConfigsHandler(st dashboardStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := st.ListCommunityConfigs(r.Context())
		if err != nil {
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	}
}

func chatLogsHandler(st dashboardStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		communityID := chi.URLParam(r, "community_id")
		limit, offset := parsePagination(r)
		items, err := st.ListChatLogs(r.Context(), communityID, limit, offset)
		if err != nil {
			writeHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items":  items,
			"limit":  limit,
			"offset": offset,
		})
	}
}
