package config

import (
	"os"
	"strconv"
	"strings"
)

// Config centralizes runtime settings for the API and the bot.
type Config struct {
	Port string

	AuthToken string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CORSAllowedOrigins []string

	RateLimitRPS   float64
	RateLimitBurst int

	SearchTimeoutMS        int
	SearchCacheTTLSeconds  int
	SearchCacheMaxEntries  int
	SessionTTLSeconds      int
	ChatAutoAdvanceOnMatch bool

	TelegramBotToken string
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),

		AuthToken: getEnv("API_AUTH_TOKEN", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", nil),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 40),

		SearchTimeoutMS:        getEnvInt("SEARCH_TIMEOUT_MS", 10000),
		SearchCacheTTLSeconds:  getEnvInt("SEARCH_CACHE_TTL_SECONDS", 60),
		SearchCacheMaxEntries:  getEnvInt("SEARCH_CACHE_MAX_ENTRIES", 500),
		SessionTTLSeconds:      getEnvInt("SESSION_TTL_SECONDS", 1800),
		ChatAutoAdvanceOnMatch: getEnvBool("CHAT_AUTO_ADVANCE", false),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
