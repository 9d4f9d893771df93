package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port      int
	LogLevel  string
	LogFormat string
	// DatabaseURL selects the code block catalogue. Empty uses the built-in list.
	DatabaseURL string
	CORSAllow   []string

	// Inbound WebSocket rate limit per client.
	MessagesPerSecond float64
	MessageBurst      int
}

func Load() *Config {
	return &Config{
		Port:              getEnvInt("PORT", 8080),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		CORSAllow:         splitCSV(getEnv("CORS_ALLOW", "*")),
		MessagesPerSecond: getEnvFloat("WS_MESSAGES_PER_SECOND", 20),
		MessageBurst:      getEnvInt("WS_MESSAGE_BURST", 40),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// splitCSV trims and filters a comma-separated list
func splitCSV(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
