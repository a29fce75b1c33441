package audio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider using OpenAI TTS
type OpenAIProvider struct {
	client *openai.Client
	config *Config
}

// NewOpenAIProvider creates a new OpenAI TTS provider
func NewOpenAIProvider(config *Config) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(config.OpenAIKey),
		config: config,
	}
}

// Pronounce generates pronunciation audio for a word using OpenAI TTS
func (p *OpenAIProvider) Pronounce(ctx context.Context, word string) ([]byte, error) {
	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.config.OpenAIModel),
		Input:          preprocessText(word),
		Voice:          openai.SpeechVoice(p.config.OpenAIVoice),
		Speed:          p.config.OpenAISpeed,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	}

	response, err := p.client.CreateSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer response.Close()

	data, err := io.ReadAll(response)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("no audio data received from OpenAI")
	}

	return data, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// preprocessText strips punctuation that shouldn't be spoken
func preprocessText(text string) string {
	cleaned := strings.TrimSpace(text)

	punctuationToRemove := []string{"!", "?", ".", ",", ";", ":", "\"", "'", "(", ")", "[", "]", "{", "}", "-", "—", "–"}
	for _, punct := range punctuationToRemove {
		cleaned = strings.ReplaceAll(cleaned, punct, "")
	}

	return strings.TrimSpace(cleaned)
}
