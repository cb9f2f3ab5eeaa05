package config

import "testing"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "SENTINEL_HOST", "SENTINEL_LOG_DIR",
		"SENTINEL_AI_PROVIDER", "SENTINEL_AI_MODEL",
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	cfg := FromEnv()

	if cfg.Host != "0.0.0.0" {
		t.Errorf("host = %q", cfg.Host)
	}
	if cfg.Port != 8000 {
		t.Errorf("port = %d", cfg.Port)
	}
	if cfg.LogDir != "logs" {
		t.Errorf("log dir = %q", cfg.LogDir)
	}
	if cfg.AIProvider != "" || cfg.AIAPIKey != "" {
		t.Errorf("expected no AI provider, got %q", cfg.AIProvider)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SENTINEL_HOST", "127.0.0.1")
	t.Setenv("SENTINEL_LOG_DIR", "/var/log/sentinel")

	cfg := FromEnv()
	if cfg.Port != 9090 || cfg.Host != "127.0.0.1" || cfg.LogDir != "/var/log/sentinel" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestFromEnvInvalidPortFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-number")
	if cfg := FromEnv(); cfg.Port != 8000 {
		t.Errorf("port = %d, want 8000", cfg.Port)
	}
}

func TestFromEnvProviderInference(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GEMINI_API_KEY", "gm-test")

	cfg := FromEnv()
	if cfg.AIProvider != "openai" || cfg.AIAPIKey != "sk-test" {
		t.Errorf("provider = %q key = %q", cfg.AIProvider, cfg.AIAPIKey)
	}

	// Anthropic wins when present.
	t.Setenv("ANTHROPIC_API_KEY", "ak-test")
	cfg = FromEnv()
	if cfg.AIProvider != "anthropic" || cfg.AIAPIKey != "ak-test" {
		t.Errorf("provider = %q key = %q", cfg.AIProvider, cfg.AIAPIKey)
	}
}

func TestFromEnvExplicitProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "ak-test")
	t.Setenv("GEMINI_API_KEY", "gm-test")
	t.Setenv("SENTINEL_AI_PROVIDER", "Gemini")

	cfg := FromEnv()
	if cfg.AIProvider != "gemini" || cfg.AIAPIKey != "gm-test" {
		t.Errorf("provider = %q key = %q", cfg.AIProvider, cfg.AIAPIKey)
	}
}
