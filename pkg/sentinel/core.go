package sentinel

import (
	"context"
	"log/slog"
	"time"
)

const defaultHTTPTimeout = 15 * time.Second

// AI provider identifiers accepted by Options.AIProvider.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
)

// Options configures a Core instance.
type Options struct {
	Logger        *slog.Logger
	MarketBaseURL string        // Optional: override the market-data host (tests)
	HTTPTimeout   time.Duration // Optional: market-data request timeout
	HTTPClient    HTTPDoer      // Optional: inject custom client for testing

	AIProvider string // anthropic | openai | gemini; empty means no AI
	AIAPIKey   string
	AIModel    string // Optional: override the provider's default model
}

// Core is the analysis engine: it owns the market-data client and the
// report generator chosen at startup. Safe for concurrent use.
type Core struct {
	logger   *slog.Logger
	market   *marketClient
	gen      generator
	aiActive bool
}

// New creates a Core. A missing or unusable AI credential is not an
// error; the engine runs in fallback mode and says so in the log.
func New(opts Options) *Core {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	core := &Core{
		logger: logger,
		market: newMarketClient(marketClientOptions{
			Logger:      logger,
			BaseURL:     opts.MarketBaseURL,
			HTTPTimeout: timeout,
			HTTPClient:  opts.HTTPClient,
		}),
		gen: fallbackGenerator{},
	}

	if opts.AIAPIKey == "" {
		logger.Warn("no AI API key configured, analysis will use fallback mode")
		return core
	}

	complete, err := newCompleter(opts)
	if err != nil {
		logger.Warn("AI provider unavailable, analysis will use fallback mode", "provider", opts.AIProvider, "error", err)
		return core
	}

	core.gen = &aiGenerator{logger: logger, complete: complete, fallback: fallbackGenerator{}}
	core.aiActive = true
	logger.Info("AI provider configured", "provider", opts.AIProvider)
	return core
}

func newCompleter(opts Options) (completeFunc, error) {
	switch opts.AIProvider {
	case ProviderOpenAI:
		return newOpenAICompleter(opts.AIAPIKey, opts.AIModel), nil
	case ProviderGemini:
		return newGeminiCompleter(context.Background(), opts.AIAPIKey, opts.AIModel)
	default:
		return newAnthropicCompleter(opts.AIAPIKey, opts.AIModel), nil
	}
}

// AIAvailable reports whether reports are generated by a model rather
// than the rule-based fallback.
func (c *Core) AIAvailable() bool {
	return c.aiActive
}
