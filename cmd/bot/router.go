package main

import (
	"arcade-bot/internal/config"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func newRouter(st dashboardStore, cfg config.ServerConfig) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Use(apiLogMiddleware())
		r.Get("/health", healthHandler(st))

		r.Group(func(r chi.Router) {
			r.Use(adminAuthMiddleware(cfg.AdminAPIKey))
			r.Get("/config", listConfigsHandler(st))
			r.Get("/config/{community_id}", getConfigHandler(st))
			r.Put("/config/{community_id}", putConfigHandler(st))
			r.Get("/chatlogs/{community_id}", chatLogsHandler(st))
		})
	})
	return r
}
