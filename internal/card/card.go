// Package card builds flashcard content from curated search results.
// The front/back markup is a presentation detail; the Front/Back field
// names and the tag list are what the flashcard tool contracts on.
package card

import (
	"fmt"
	"html"
	"strings"

	"codeberg.org/snonux/exemplar/internal/generate"
)

// Card is one flashcard ready for submission
type Card struct {
	Word        string          // The vocabulary word
	Explanation string          // AI-generated explanation, may be empty
	Phrase      generate.Phrase // The example phrase this card is built from
	ImageURL    string          // Optional illustrative image URL
	AudioFile   string          // Optional media filename registered with the flashcard tool
}

// Front renders the question side of the card
func (c *Card) Front() string {
	var b strings.Builder

	fmt.Fprintf(&b, `<div class="word">%s</div>`, html.EscapeString(c.Word))

	if c.ImageURL != "" {
		fmt.Fprintf(&b, `<br><img src="%s">`, html.EscapeString(c.ImageURL))
	}

	if c.AudioFile != "" {
		fmt.Fprintf(&b, "<br>%s", formatAudioField(c.AudioFile))
	}

	return b.String()
}

// Back renders the answer side of the card
func (c *Card) Back() string {
	var b strings.Builder

	if c.Explanation != "" {
		fmt.Fprintf(&b, `<div class="explanation">%s</div>`, html.EscapeString(c.Explanation))
	}

	fmt.Fprintf(&b, `<div class="phrase">%s</div>`, html.EscapeString(c.Phrase.Text))

	if c.Phrase.Translation != "" {
		fmt.Fprintf(&b, `<div class="translation">%s</div>`, html.EscapeString(c.Phrase.Translation))
	}

	if c.Phrase.Category != "" {
		fmt.Fprintf(&b, `<div class="category">%s</div>`, html.EscapeString(c.Phrase.Category))
	}

	return b.String()
}

// Tags returns the note tags for the card
func (c *Card) Tags() []string {
	tags := []string{"exemplar"}
	if c.Phrase.Category != "" {
		tags = append(tags, sanitizeTag(c.Phrase.Category))
	}
	return tags
}

// formatAudioField formats an audio file reference for Anki
func formatAudioField(filename string) string {
	// Anki audio format: [sound:filename.mp3]
	return fmt.Sprintf("[sound:%s]", filename)
}

// sanitizeTag makes a string safe for use as an Anki tag (no spaces)
func sanitizeTag(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToLower(s)), " ", "-")
}
