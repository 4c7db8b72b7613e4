package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	TelegramToken string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Target of the Telegram chat menu button.
	WebAppURL string

	// Optional X-Telegram-Bot-Api-Secret-Token check on the webhook route.
	WebhookSecret string

	HTTPAddr string
}

const defaultWebAppURL = "https://telegram.pathexor.in/pathscheduler/"

func FromEnv() (Config, error) {
	var c Config
	c.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))

	c.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	c.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if raw := strings.TrimSpace(os.Getenv("REDIS_DB")); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return c, fmt.Errorf("REDIS_DB: %w", err)
		}
		c.RedisDB = db
	}

	c.WebAppURL = strings.TrimSpace(os.Getenv("WEB_APP_URL"))
	if c.WebAppURL == "" {
		c.WebAppURL = defaultWebAppURL
	}

	c.WebhookSecret = strings.TrimSpace(os.Getenv("TELEGRAM_WEBHOOK_SECRET"))

	c.HTTPAddr = strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}

	if c.TelegramToken == "" {
		return c, fmt.Errorf("TELEGRAM_BOT_TOKEN is empty")
	}

	return c, nil
}
