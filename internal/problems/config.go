package problems

import "github.com/mathtrail/mathtrail/internal/nanoid"

// Config bounds the service's model calls and ID generation.
type Config struct {
	// MaxTokens caps each model response.
	MaxTokens int

	// Temperature for generation calls. Problems should vary between
	// requests, so this stays above zero.
	Temperature float64

	// SessionIDSize is the nanoid length for session handles.
	SessionIDSize int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:     2048,
		Temperature:   0.7,
		SessionIDSize: nanoid.DefaultSize,
	}
}
