// Package export turns curated selections into flashcards and submits
// them to the flashcard tool, one note at a time. Per-card failures are
// tallied rather than raised; only a failure to ensure the target deck
// aborts a run, because every note depends on the deck existing.
package export

import (
	"context"
	"fmt"
	"os"

	"codeberg.org/snonux/exemplar/internal"
	"codeberg.org/snonux/exemplar/internal/anki"
	"codeberg.org/snonux/exemplar/internal/audio"
	"codeberg.org/snonux/exemplar/internal/card"
	"codeberg.org/snonux/exemplar/internal/generate"
	"codeberg.org/snonux/exemplar/internal/image"
)

// Bridge is the subset of the AnkiConnect client the exporter needs
type Bridge interface {
	DeckNames(ctx context.Context) ([]string, error)
	CreateDeck(ctx context.Context, name string) error
	AddNote(ctx context.Context, note anki.Note) (int64, error)
	StoreMediaFile(ctx context.Context, filename string, data []byte) error
}

// Outcome tallies one export run. Success+Failed equals the number of
// cards attempted.
type Outcome struct {
	Success int
	Failed  int
}

// Options configures an export run
type Options struct {
	DeckName  string
	ModelName string
}

// DefaultOptions returns the default deck and note type
func DefaultOptions() *Options {
	return &Options{
		DeckName:  anki.DefaultDeck,
		ModelName: anki.DefaultModel,
	}
}

// Exporter submits curated selections as flashcards
type Exporter struct {
	bridge Bridge
	audio  audio.Provider // optional; nil disables pronunciation audio
	opts   *Options
}

// NewExporter creates a new exporter. audioProvider may be nil.
func NewExporter(bridge Bridge, audioProvider audio.Provider, opts *Options) *Exporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Exporter{
		bridge: bridge,
		audio:  audioProvider,
		opts:   opts,
	}
}

// Export builds one card per selected phrase and submits them
// sequentially, in selection order. Callers are expected to pass a
// non-empty phrase selection; an empty one yields a zero outcome
// without any bridge calls.
//
// At most one image is associated with the batch: the first selected
// image decorates every card. An error return means the run aborted
// before any card was submitted.
func (e *Exporter) Export(ctx context.Context, word, explanation string, phrases []generate.Phrase, images []image.Result) (Outcome, error) {
	var outcome Outcome

	if len(phrases) == 0 {
		return outcome, nil
	}

	if err := e.ensureDeck(ctx); err != nil {
		return outcome, fmt.Errorf("failed to ensure deck %q: %w", e.opts.DeckName, err)
	}

	imageURL := ""
	if len(images) > 0 {
		imageURL = images[0].URL
	}

	audioData, audioFile := e.pronounce(ctx, word)
	audioUploadTried := false

	for i, phrase := range phrases {
		c := card.Card{
			Word:        word,
			Explanation: explanation,
			Phrase:      phrase,
			ImageURL:    imageURL,
			AudioFile:   audioFile,
		}

		note := anki.Note{
			DeckName:  e.opts.DeckName,
			ModelName: e.opts.ModelName,
			Front:     c.Front(),
			Back:      c.Back(),
			Tags:      c.Tags(),
		}

		if _, err := e.bridge.AddNote(ctx, note); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to add card %d/%d for %q: %v\n", i+1, len(phrases), word, err)
			outcome.Failed++
			continue
		}
		outcome.Success++

		// The note exists at this point, so a failed media upload
		// only costs the audio, not the card.
		if audioFile != "" && !audioUploadTried {
			if err := e.bridge.StoreMediaFile(ctx, audioFile, audioData); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to store audio for %q: %v\n", word, err)
			}
			audioUploadTried = true
		}
	}

	return outcome, nil
}

// ensureDeck makes sure the target deck exists, creating it if absent.
// The query-then-create is best effort, not transactional; createDeck
// is idempotent on the Anki side.
func (e *Exporter) ensureDeck(ctx context.Context) error {
	names, err := e.bridge.DeckNames(ctx)
	if err != nil {
		return err
	}

	for _, name := range names {
		if name == e.opts.DeckName {
			return nil
		}
	}

	return e.bridge.CreateDeck(ctx, e.opts.DeckName)
}

// pronounce generates pronunciation audio for the word. Failures are
// logged and the export continues without audio.
func (e *Exporter) pronounce(ctx context.Context, word string) ([]byte, string) {
	if e.audio == nil {
		return nil, ""
	}

	data, err := e.audio.Pronounce(ctx, word)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to generate audio for %q: %v\n", word, err)
		return nil, ""
	}

	filename := fmt.Sprintf("exemplar-%s.mp3", internal.SanitizeFilename(word))
	return data, filename
}
