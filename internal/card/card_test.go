package card

import (
	"strings"
	"testing"

	"codeberg.org/snonux/exemplar/internal/generate"
)

func TestCardRoundTrip(t *testing.T) {
	c := Card{
		Word:        "casa",
		Explanation: "house",
		Phrase: generate.Phrase{
			Text:        "mi casa",
			Translation: "my house",
			Category:    "nouns",
		},
	}

	front := c.Front()
	back := c.Back()

	if !strings.Contains(front, "casa") {
		t.Errorf("Expected front to contain 'casa', got '%s'", front)
	}
	if !strings.Contains(back, "casa") {
		t.Errorf("Expected back to contain 'casa', got '%s'", back)
	}
	if !strings.Contains(back, "house") {
		t.Errorf("Expected back to contain 'house', got '%s'", back)
	}
	if !strings.Contains(back, "my house") {
		t.Errorf("Expected back to contain 'my house', got '%s'", back)
	}
	if !strings.Contains(back, "nouns") {
		t.Errorf("Expected back to contain 'nouns', got '%s'", back)
	}
}

func TestCardFrontImage(t *testing.T) {
	c := Card{
		Word:     "casa",
		ImageURL: "https://cdn/casa.jpg",
	}

	front := c.Front()
	if !strings.Contains(front, `<img src="https://cdn/casa.jpg">`) {
		t.Errorf("Expected front to embed the image, got '%s'", front)
	}
}

func TestCardFrontWithoutImage(t *testing.T) {
	c := Card{Word: "casa"}

	if strings.Contains(c.Front(), "<img") {
		t.Errorf("Expected no image tag, got '%s'", c.Front())
	}
}

func TestCardFrontAudio(t *testing.T) {
	c := Card{
		Word:      "casa",
		AudioFile: "exemplar-casa.mp3",
	}

	front := c.Front()
	if !strings.Contains(front, "[sound:exemplar-casa.mp3]") {
		t.Errorf("Expected front to embed the audio tag, got '%s'", front)
	}
}

func TestCardEscapesMarkup(t *testing.T) {
	c := Card{
		Word:        "a<b",
		Explanation: `<script>alert("x")</script>`,
		Phrase:      generate.Phrase{Text: "x & y"},
	}

	if strings.Contains(c.Front(), "a<b") {
		t.Errorf("Expected word to be escaped, got '%s'", c.Front())
	}
	if strings.Contains(c.Back(), "<script>") {
		t.Errorf("Expected explanation to be escaped, got '%s'", c.Back())
	}
}

func TestCardFrontEscapesImageURL(t *testing.T) {
	c := Card{
		Word:     "casa",
		ImageURL: `https://cdn/casa.jpg?a="b"`,
	}

	front := c.Front()
	if strings.Contains(front, `a="b"`) {
		t.Errorf("Expected quotes in the image URL to be escaped, got '%s'", front)
	}
	if !strings.Contains(front, "a=&#34;b&#34;") {
		t.Errorf("Expected escaped image URL, got '%s'", front)
	}
}

func TestCardTags(t *testing.T) {
	c := Card{
		Word:   "casa",
		Phrase: generate.Phrase{Category: "Common Nouns"},
	}

	tags := c.Tags()
	if len(tags) != 2 {
		t.Fatalf("Expected 2 tags, got %d", len(tags))
	}
	if tags[0] != "exemplar" {
		t.Errorf("Expected first tag 'exemplar', got '%s'", tags[0])
	}
	if tags[1] != "common-nouns" {
		t.Errorf("Expected tag 'common-nouns', got '%s'", tags[1])
	}
}

func TestCardTagsWithoutCategory(t *testing.T) {
	c := Card{Word: "casa"}

	tags := c.Tags()
	if len(tags) != 1 {
		t.Fatalf("Expected 1 tag, got %d", len(tags))
	}
}
