package cli

import (
	"os"

	"github.com/spf13/viper"

	"codeberg.org/snonux/exemplar/internal/anki"
	"codeberg.org/snonux/exemplar/internal/history"
)

// AnkiSettings configures the flashcard export surface
type AnkiSettings struct {
	Enabled   bool
	URL       string
	DeckName  string
	ModelName string
}

// GenerateSettings configures the text generation provider
type GenerateSettings struct {
	Provider    string
	OpenAIModel string
	GeminiModel string
}

// AudioSettings configures pronunciation audio
type AudioSettings struct {
	Enabled bool
	Voice   string
	Speed   float64
}

// AppSettings is the configuration snapshot read once at session start
type AppSettings struct {
	Anki        AnkiSettings
	Generate    GenerateSettings
	Audio       AudioSettings
	PixabayKey  string
	HistoryPath string
}

// GetSettings reads the application settings from viper. Call after
// InitConfig so config file and environment values are visible.
func GetSettings() *AppSettings {
	viper.SetDefault("anki.enabled", true)
	viper.SetDefault("anki.url", anki.DefaultURL)
	viper.SetDefault("anki.deck_name", anki.DefaultDeck)
	viper.SetDefault("anki.model_name", anki.DefaultModel)
	viper.SetDefault("generate.provider", "openai")
	viper.SetDefault("generate.openai_model", "gpt-4o-mini")
	viper.SetDefault("generate.gemini_model", "gemini-2.0-flash")
	viper.SetDefault("audio.enabled", true)
	viper.SetDefault("audio.voice", "alloy")
	viper.SetDefault("audio.speed", 0.9)
	viper.SetDefault("history.path", history.DefaultPath())

	return &AppSettings{
		Anki: AnkiSettings{
			Enabled:   viper.GetBool("anki.enabled"),
			URL:       viper.GetString("anki.url"),
			DeckName:  viper.GetString("anki.deck_name"),
			ModelName: viper.GetString("anki.model_name"),
		},
		Generate: GenerateSettings{
			Provider:    viper.GetString("generate.provider"),
			OpenAIModel: viper.GetString("generate.openai_model"),
			GeminiModel: viper.GetString("generate.gemini_model"),
		},
		Audio: AudioSettings{
			Enabled: viper.GetBool("audio.enabled"),
			Voice:   viper.GetString("audio.voice"),
			Speed:   viper.GetFloat64("audio.speed"),
		},
		PixabayKey:  GetPixabayKey(),
		HistoryPath: viper.GetString("history.path"),
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("generate.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("generate.gemini_key")
}

// GetPixabayKey retrieves the Pixabay API key from environment or config
func GetPixabayKey() string {
	if key := os.Getenv("PIXABAY_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("image.pixabay_key")
}
