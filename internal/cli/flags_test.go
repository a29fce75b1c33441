package cli

import (
	"reflect"
	"testing"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	// Test default values
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Page", flags.Page, 1},
		{"DeckName", flags.DeckName, "Exemplar::Vocabulary"},
		{"Provider", flags.Provider, "openai"},
		{"OpenAIModel", flags.OpenAIModel, "gpt-4o-mini"},
		{"GeminiModel", flags.GeminiModel, "gemini-2.0-flash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Test boolean defaults (should be false)
	boolTests := []struct {
		name  string
		value bool
	}{
		{"Export", flags.Export},
		{"CurateAll", flags.CurateAll},
		{"History", flags.History},
		{"CheckAnki", flags.CheckAnki},
		{"SkipAudio", flags.SkipAudio},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != false {
				t.Errorf("%s = %v, want false", tt.name, tt.value)
			}
		})
	}

	if flags.CfgFile != "" {
		t.Errorf("CfgFile = %v, want empty string", flags.CfgFile)
	}
}
