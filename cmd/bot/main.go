package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	appchat "arcade-bot/internal/app/chat"
	appgames "arcade-bot/internal/app/games"
	"arcade-bot/internal/config"
	"arcade-bot/internal/game"
	"arcade-bot/internal/gateway"
	"arcade-bot/internal/genai"
	"arcade-bot/internal/identity"
	"arcade-bot/internal/logging"
	"arcade-bot/internal/pet"
	"arcade-bot/internal/store"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	presets, err := config.LoadGamePresets(cfg.Bot.GamePresetsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load game presets failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.New(ctx, cfg.Server.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}
	if err := st.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure schema failed")
	}

	provider := genai.New(cfg.Provider, presets.RetryAttempts, presets.RetryBase())

	api, err := tgbotapi.NewBotAPI(cfg.Bot.TelegramToken)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram connect failed")
	}
	log.Info().Str("bot", api.Self.UserName).Msg("telegram connected")

	clock := clockwork.NewRealClock()
	controller := game.NewController(
		game.NewRegistry(),
		game.NewScheduler(clock),
		gateway.NewTelegram(api),
		provider,
		presets,
	)
	defer controller.Shutdown()

	identities := identity.NewService(st, clock)
	pets := pet.NewService(st, provider, clock)
	gamesSvc := appgames.NewService(controller)
	chatSvc := appchat.NewService(st, identities, provider,
		cfg.Bot.SystemPrompt, cfg.Bot.CoreRules, cfg.Bot.HistoryDepth)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           newRouter(st, cfg.Server),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("dashboard api listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	b := &bot{
		api:        api,
		games:      gamesSvc,
		chat:       chatSvc,
		identities: identities,
		pets:       pets,
		configs:    st,
	}
	b.run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	log.Info().Msg("shut down")
}
