package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider using OpenAI chat completions
type OpenAIProvider struct {
	client *openai.Client
	config *Config
}

// NewOpenAIProvider creates a new OpenAI generation provider
func NewOpenAIProvider(config *Config) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(config.OpenAIKey),
		config: config,
	}
}

// Phrases generates example phrases for a word
func (p *OpenAIProvider) Phrases(ctx context.Context, word string) ([]Phrase, error) {
	content, err := p.complete(ctx, phrasesPrompt(word, p.config.PhraseCount), 500, 0.7)
	if err != nil {
		return nil, err
	}
	return parsePhrases(content)
}

// Explain generates a short explanation of a word
func (p *OpenAIProvider) Explain(ctx context.Context, word string) (string, error) {
	return p.complete(ctx, explainPrompt(word), 200, 0.3)
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: p.config.OpenAIModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
