package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the full server configuration. Values come from an optional
// config.yaml in the working directory, overridden by DECEPTION_* environment
// variables (e.g. DECEPTION_HTTP_ADDR).
type Config struct {
	Env      string `mapstructure:"env"`
	HTTPAddr string `mapstructure:"http_addr"`
	LogLevel string `mapstructure:"log_level"`

	// TokenSecret signs websocket auth tokens. Required outside dev.
	TokenSecret string `mapstructure:"token_secret"`

	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// RateLimitPerMinute caps room create/join per IP; 0 disables.
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute"`

	// RoomIdleTimeout is how long an inactive room survives before the
	// janitor closes it.
	RoomIdleTimeout time.Duration `mapstructure:"room_idle_timeout"`
	JanitorInterval time.Duration `mapstructure:"janitor_interval"`

	// NarrativeURL/NarrativeAPIKey enable the external flavor-text service;
	// empty URL falls back to canned text.
	NarrativeURL    string `mapstructure:"narrative_url"`
	NarrativeAPIKey string `mapstructure:"narrative_api_key"`

	// PrefsPath locates the host preference file (default room settings).
	PrefsPath string `mapstructure:"prefs_path"`
}

// Load reads configuration from config.yaml (if present) and the environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DECEPTION")
	v.AutomaticEnv()

	v.SetDefault("env", "development")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("token_secret", "dev-secret-change-in-production")
	v.SetDefault("allowed_origins", []string{})
	v.SetDefault("rate_limit_per_minute", 20)
	v.SetDefault("room_idle_timeout", 2*time.Hour)
	v.SetDefault("janitor_interval", 5*time.Minute)
	v.SetDefault("narrative_url", "")
	v.SetDefault("narrative_api_key", "")
	v.SetDefault("prefs_path", "deception_prefs.json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Env == "production" && cfg.TokenSecret == "dev-secret-change-in-production" {
		return nil, fmt.Errorf("token_secret must be set in production")
	}
	return &cfg, nil
}
