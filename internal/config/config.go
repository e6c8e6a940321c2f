package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port         int
	NatsURL      string
	NatsToken    string
	DatabaseURL  string
	LogLevel     string
	APIToken     string
	ChatDir      string
	SlackToken   string
	SlackChannel string
}

func Load() Config {
	return Config{
		Port:         envInt("SCRIBE_PORT", 8760),
		NatsURL:      envStr("NATS_URL", "nats://hermes:4222"),
		NatsToken:    envStr("NATS_TOKEN", ""),
		DatabaseURL:  envStr("DATABASE_URL", ""),
		LogLevel:     envStr("LOG_LEVEL", "info"),
		APIToken:     envStr("SCRIBE_API_TOKEN", ""),
		ChatDir:      envStr("SCRIBE_CHAT_DIR", "~/.openclaw/workspace/chats"),
		SlackToken:   envStr("SLACK_BOT_TOKEN", ""),
		SlackChannel: envStr("SLACK_INGEST_CHANNEL", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
