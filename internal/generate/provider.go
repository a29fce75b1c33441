package generate

import (
	"context"
	"fmt"
)

// Phrase is one AI-generated example phrase for a vocabulary word.
// Text is in the target language, Translation in the learner's language,
// Category is a short grammatical or thematic label (e.g. "nouns").
type Phrase struct {
	Text        string `json:"text"`
	Translation string `json:"translation"`
	Category    string `json:"category"`
}

// Provider defines the interface for text generation backends
type Provider interface {
	// Phrases generates example phrases illustrating the word
	Phrases(ctx context.Context, word string) ([]Phrase, error)

	// Explain generates a short learner-oriented explanation of the word
	Explain(ctx context.Context, word string) (string, error)

	// Name returns the provider name
	Name() string
}

// Config holds common configuration for generation providers
type Config struct {
	Provider string // Provider name: "openai" or "gemini"

	// OpenAI-specific settings
	OpenAIKey   string
	OpenAIModel string // e.g. "gpt-4o-mini"

	// Gemini-specific settings
	GeminiKey   string
	GeminiModel string // e.g. "gemini-2.0-flash"

	PhraseCount int // Number of example phrases to request
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:    "openai",
		OpenAIModel: "gpt-4o-mini",
		GeminiModel: "gemini-2.0-flash",
		PhraseCount: 5,
	}
}

// NewProvider creates the appropriate generation provider based on configuration
func NewProvider(ctx context.Context, config *Config) (Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.PhraseCount <= 0 {
		config.PhraseCount = 5
	}

	switch config.Provider {
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(config), nil
	case "gemini":
		if config.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		return NewGeminiProvider(ctx, config)
	default:
		return nil, fmt.Errorf("unknown generation provider: %s", config.Provider)
	}
}

func phrasesPrompt(word string, count int) string {
	return fmt.Sprintf(`Generate %d short example phrases using the word '%s'.
Respond with only a JSON array, no other text. Each element must have
exactly these keys: "text" (the phrase using the word), "translation"
(its English translation) and "category" (a one-word label such as
"nouns", "verbs" or "idioms").`, count, word)
}

func explainPrompt(word string) string {
	return fmt.Sprintf("Explain the word '%s' to a language learner in two or three plain sentences. Respond with only the explanation, nothing else.", word)
}
