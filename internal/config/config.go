// Package config resolves the service configuration from the
// environment.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds everything the server needs at startup.
type Config struct {
	Host   string
	Port   int
	LogDir string

	AIProvider string // anthropic | openai | gemini
	AIAPIKey   string
	AIModel    string
}

// FromEnv builds a Config from environment variables with sensible
// defaults. The AI provider is taken from SENTINEL_AI_PROVIDER when set,
// otherwise inferred from whichever provider key is present (Anthropic
// first, then OpenAI, then Gemini).
func FromEnv() Config {
	cfg := Config{
		Host:    envOr("SENTINEL_HOST", "0.0.0.0"),
		Port:    envInt("PORT", 8000),
		LogDir:  envOr("SENTINEL_LOG_DIR", "logs"),
		AIModel: os.Getenv("SENTINEL_AI_MODEL"),
	}

	keys := map[string]string{
		"anthropic": os.Getenv("ANTHROPIC_API_KEY"),
		"openai":    os.Getenv("OPENAI_API_KEY"),
		"gemini":    os.Getenv("GEMINI_API_KEY"),
	}

	if provider := strings.ToLower(strings.TrimSpace(os.Getenv("SENTINEL_AI_PROVIDER"))); provider != "" {
		cfg.AIProvider = provider
		cfg.AIAPIKey = keys[provider]
		return cfg
	}

	for _, provider := range []string{"anthropic", "openai", "gemini"} {
		if keys[provider] != "" {
			cfg.AIProvider = provider
			cfg.AIAPIKey = keys[provider]
			break
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
