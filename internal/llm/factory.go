package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// NewProvider creates a Provider from configuration, wrapped with logging
// and retry middleware: caller → retry → logging → base.
func NewProvider(ctx context.Context, cfg Config, log RequestLog, logger *slog.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, log, logger)
	return WithRetry(logged, cfg.Retry), nil
}
