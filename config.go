package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries process credentials and overrides, loaded from the
// environment with an optional .env file.
type Config struct {
	Token           string
	BroadcastChatID int64
	ShopAPIURL      string
}

// LoadConfig reads the configuration. TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID
// are required for bot mode; SHOP_API_URL optionally overrides the catalog
// endpoint for local runs.
func LoadConfig() (Config, error) {
	// A missing .env is fine, real deployments use plain env vars.
	_ = godotenv.Load()

	cfg := Config{
		Token:      os.Getenv("TELEGRAM_BOT_TOKEN"),
		ShopAPIURL: os.Getenv("SHOP_API_URL"),
	}

	if cfg.Token == "" {
		return cfg, errors.New("TELEGRAM_BOT_TOKEN is not set")
	}

	rawChatID := os.Getenv("TELEGRAM_CHAT_ID")
	if rawChatID == "" {
		return cfg, errors.New("TELEGRAM_CHAT_ID is not set")
	}
	chatID, err := strconv.ParseInt(rawChatID, 10, 64)
	if err != nil {
		return cfg, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", rawChatID, err)
	}
	cfg.BroadcastChatID = chatID

	return cfg, nil
}

// LoadShopAPIURL reads only the catalog endpoint override, for run modes
// that need no Telegram credentials.
func LoadShopAPIURL() string {
	_ = godotenv.Load()
	return os.Getenv("SHOP_API_URL")
}
