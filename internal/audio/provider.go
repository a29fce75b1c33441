package audio

import (
	"context"
	"fmt"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// Pronounce generates pronunciation audio for a word and returns
	// the encoded audio bytes (mp3)
	Pronounce(ctx context.Context, word string) ([]byte, error)

	// Name returns the provider name
	Name() string
}

// Config holds common configuration for audio providers
type Config struct {
	Provider string // Provider name: "openai"

	// OpenAI-specific settings
	OpenAIKey   string
	OpenAIModel string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice string  // "alloy", "ash", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer"
	OpenAISpeed float64 // 0.25 to 4.0
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:    "openai",
		OpenAIModel: "gpt-4o-mini-tts",
		OpenAIVoice: "alloy",
		OpenAISpeed: 0.9, // Slightly slow for learner clarity
	}
}

// NewProvider creates the appropriate audio provider based on configuration
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(config), nil
	default:
		return nil, fmt.Errorf("unknown audio provider: %s", config.Provider)
	}
}
