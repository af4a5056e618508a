package config

import "github.com/caarlos0/env/v11"

// ProviderConfig covers the generative content provider.
type ProviderConfig struct {
	APIKey  string `env:"GENAI_API_KEY,required,notEmpty"`
	BaseURL string `env:"GENAI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`

	TextModel  string `env:"GENAI_TEXT_MODEL" envDefault:"gemini-1.5-flash"`
	ImageModel string `env:"GENAI_IMAGE_MODEL" envDefault:"imagen-3.0-generate-001"`

	TimeoutSecs int `env:"GENAI_TIMEOUT_SECS" envDefault:"30"`
}

func LoadProvider() (ProviderConfig, error) {
	var cfg ProviderConfig
	err := env.Parse(&cfg)
	return cfg, err
}
