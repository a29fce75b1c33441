package cli

import (
	"codeberg.org/snonux/exemplar/internal/anki"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile   string
	Page      int
	Export    bool
	CurateAll bool
	History   bool
	CheckAnki bool
	DeckName  string
	SkipAudio bool

	// Generation flags
	Provider    string
	OpenAIModel string
	GeminiModel string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Page:        1,
		DeckName:    anki.DefaultDeck,
		Provider:    "openai",
		OpenAIModel: "gpt-4o-mini",
		GeminiModel: "gemini-2.0-flash",
	}
}
