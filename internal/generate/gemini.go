package generate

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider using the Gemini API
type GeminiProvider struct {
	client *genai.Client
	config *Config
}

// NewGeminiProvider creates a new Gemini generation provider
func NewGeminiProvider(ctx context.Context, config *Config) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		config: config,
	}, nil
}

// Phrases generates example phrases for a word
func (p *GeminiProvider) Phrases(ctx context.Context, word string) ([]Phrase, error) {
	content, err := p.complete(ctx, phrasesPrompt(word, p.config.PhraseCount))
	if err != nil {
		return nil, err
	}
	return parsePhrases(content)
}

// Explain generates a short explanation of a word
func (p *GeminiProvider) Explain(ctx context.Context, word string) (string, error) {
	return p.complete(ctx, explainPrompt(word))
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.config.GeminiModel, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no completion returned")
	}

	return strings.TrimSpace(text), nil
}
