package config

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			Workspace:             "~/.orbi/workspace",
			LogLevel:              "info",
			DefaultLanguage:       "",
			MaxConcurrentMessages: 5,
		},
		Data: DataConfig{
			AffiliatePath: "~/.orbi/affiliate_data.json",
			Seed:          20241101,
		},
		Channels: ChannelsConfig{
			CLI: CLIConfig{
				Enabled: true,
			},
			Web: WebConfig{
				Enabled: true,
				Host:    "127.0.0.1",
				Port:    8080,
			},
			Telegram: TelegramConfig{
				Enabled:   false,
				ParseMode: "Markdown",
			},
		},
		Memory: MemoryConfig{
			Enabled:                   true,
			DBPath:                    "~/.orbi/history.db",
			MaxHistoryPerConversation: 100,
			RetentionDays:             365,
		},
		Metrics: MetricsConfig{
			Enabled:  true,
			Endpoint: "/metrics",
		},
	}
}
