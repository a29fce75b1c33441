package generate

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parsePhrases decodes a model response into phrases. Models tend to
// wrap JSON in markdown code fences even when told not to, so those
// are stripped first.
func parsePhrases(raw string) ([]Phrase, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var phrases []Phrase
	if err := json.Unmarshal([]byte(cleaned), &phrases); err != nil {
		return nil, fmt.Errorf("failed to decode phrase response: %w", err)
	}

	// Drop entries the model left without text
	result := make([]Phrase, 0, len(phrases))
	for _, p := range phrases {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		result = append(result, p)
	}

	return result, nil
}
