package service

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds provider settings for the suggestion service. Values come
// from an optional config.yaml with environment overrides; the API key is
// environment-only.
type Config struct {
	APIKey        string
	BaseURL       string        `mapstructure:"base_url"`
	Model         string        `mapstructure:"model"`
	HistoryWindow int           `mapstructure:"history_window"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("suggestion.model", "gpt-4o-mini")
	v.SetDefault("suggestion.history_window", 5)
	v.SetDefault("suggestion.timeout", 15*time.Second)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.UnmarshalKey("suggestion", &cfg); err != nil {
		return Config{}, err
	}

	cfg.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if base := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")); base != "" {
		cfg.BaseURL = base
	}
	if model := strings.TrimSpace(os.Getenv("OPENAI_MODEL")); model != "" {
		cfg.Model = model
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return cfg, nil
}
