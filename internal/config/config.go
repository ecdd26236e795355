package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the process settings, read from the environment with an
// optional .env file on top.
type Config struct {
	Host              string
	Port              string
	ReadHeaderTimeout time.Duration
	LivenessEndpoint  string

	OpenAIAPIKey   string
	ChatModel      string
	EmbeddingModel string

	RedisAddr     string
	RedisPassword string

	SessionTimeout time.Duration
}

func Load() Config {
	// Missing .env is fine, the environment alone is enough.
	_ = godotenv.Load()

	return Config{
		Host:              getenv("HOST", "localhost"),
		Port:              getenv("PORT", "8092"),
		ReadHeaderTimeout: duration("READ_HEADER_TIMEOUT_SECONDS", 20),
		LivenessEndpoint:  getenv("LIVENESS_ENDPOINT", "/liveness"),

		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		ChatModel:      getenv("CHAT_MODEL", "gpt-4o"),
		EmbeddingModel: getenv("EMBEDDING_MODEL", "text-embedding-3-small"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		SessionTimeout: time.Duration(intenv("SESSION_TIMEOUT_MINUTES", 30)) * time.Minute,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func intenv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}

	return fallback
}

// duration reads a bare number; the consumer applies the unit, matching
// how the web server config treats its timeouts.
func duration(key string, fallback int) time.Duration {
	return time.Duration(intenv(key, fallback))
}
