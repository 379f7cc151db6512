package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects and configures the model provider.
type Config struct {
	// Provider selects the backend: "gemini", "openai", "anthropic",
	// "openrouter" or "mock".
	Provider string

	Gemini     GeminiConfig
	OpenAI     OpenAIConfig
	Anthropic  AnthropicConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-pro"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional override for OpenAI-compatible APIs.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenRouterConfig holds OpenRouter-specific configuration. OpenRouter
// speaks the OpenAI wire protocol, so it is served by the OpenAI provider
// with a different base URL.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.5-pro"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient provider failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults. Gemini is the
// default provider; it is what the problem generator was tuned against.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Gemini: GeminiConfig{
			Model: "gemini-pro",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenRouter: OpenRouterConfig{
			Model:   "google/gemini-2.5-pro",
			BaseURL: "https://openrouter.ai/api/v1",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back to
// defaults for anything unset. Bare vendor key vars (GEMINI_API_KEY etc.)
// are honored so deployment needs no app-specific variables beyond the
// provider selection.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("MATHTRAIL_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}

	if k := firstEnv("MATHTRAIL_GEMINI_API_KEY", "GEMINI_API_KEY"); k != "" {
		cfg.Gemini.APIKey = k
	}
	if m := os.Getenv("MATHTRAIL_GEMINI_MODEL"); m != "" {
		cfg.Gemini.Model = m
	}

	if k := firstEnv("MATHTRAIL_OPENAI_API_KEY", "OPENAI_API_KEY"); k != "" {
		cfg.OpenAI.APIKey = k
	}
	if m := os.Getenv("MATHTRAIL_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if u := os.Getenv("MATHTRAIL_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	if k := firstEnv("MATHTRAIL_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"); k != "" {
		cfg.Anthropic.APIKey = k
	}
	if m := os.Getenv("MATHTRAIL_ANTHROPIC_MODEL"); m != "" {
		cfg.Anthropic.Model = m
	}

	if k := firstEnv("MATHTRAIL_OPENROUTER_API_KEY", "OPENROUTER_API_KEY"); k != "" {
		cfg.OpenRouter.APIKey = k
	}
	if m := os.Getenv("MATHTRAIL_OPENROUTER_MODEL"); m != "" {
		cfg.OpenRouter.Model = m
	}

	return cfg
}

// Validate checks that the selected provider has its required API key.
func (c Config) Validate() error {
	switch c.Provider {
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("gemini API key is required (MATHTRAIL_GEMINI_API_KEY or GEMINI_API_KEY)")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("openai API key is required (MATHTRAIL_OPENAI_API_KEY or OPENAI_API_KEY)")
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("anthropic API key is required (MATHTRAIL_ANTHROPIC_API_KEY or ANTHROPIC_API_KEY)")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("openrouter API key is required (MATHTRAIL_OPENROUTER_API_KEY or OPENROUTER_API_KEY)")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
