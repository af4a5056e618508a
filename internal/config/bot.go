package config

import "github.com/caarlos0/env/v11"

// BotConfig covers the chat-gateway connection and the assistant persona.
type BotConfig struct {
	TelegramToken string `env:"TELEGRAM_TOKEN,required,notEmpty"`
	AdminUserID   int64  `env:"ADMIN_USER_ID"`

	SystemPrompt string `env:"SYSTEM_PROMPT" envDefault:"You are a helpful community assistant. Keep replies short."`
	CoreRules    string `env:"CORE_RULES"`
	HistoryDepth int    `env:"CHAT_HISTORY_DEPTH" envDefault:"20"`

	GamePresetsPath string `env:"GAME_PRESETS_PATH"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
