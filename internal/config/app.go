package config

type AppConfig struct {
	Log      LogConfig
	Server   ServerConfig
	Bot      BotConfig
	Provider ProviderConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	botCfg, err := LoadBot()
	if err != nil {
		return AppConfig{}, err
	}
	providerCfg, err := LoadProvider()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Log:      logCfg,
		Server:   serverCfg,
		Bot:      botCfg,
		Provider: providerCfg,
	}, nil
}
