package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds server configuration loaded from the environment
type Config struct {
	Host string `env:"HOST"`
	Port int    `env:"PORT" envDefault:"8080"`

	// StorageType selects the backend: memory, file, redis, or sqlite
	StorageType string `env:"STORAGE_TYPE" envDefault:"file"`
	DataDir     string `env:"DATA_DIR" envDefault:"data"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"data/tycoon.db"`
	RedisURL    string `env:"REDIS_URL"`

	// Telegram bot settings; the bot surface is disabled when the token
	// is empty
	TelegramToken string `env:"TELEGRAM_BOT_TOKEN"`
	GameURL       string `env:"GAME_URL" envDefault:"http://localhost:3000/"`
}

// Load parses configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
