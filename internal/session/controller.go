// Package session owns the state of one interactive study session: the
// merged search result for the current word, the image pagination
// state, and the curation-mode selections. All mutation goes through
// Controller methods; renderers consume immutable snapshots.
package session

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"codeberg.org/snonux/exemplar/internal/export"
	"codeberg.org/snonux/exemplar/internal/generate"
	"codeberg.org/snonux/exemplar/internal/image"
)

// History records searched words. Recording is fire-and-forget: a
// failure never affects the search outcome.
type History interface {
	Record(word string) error
}

// Exporter submits curated selections as flashcards
type Exporter interface {
	Export(ctx context.Context, word, explanation string, phrases []generate.Phrase, images []image.Result) (export.Outcome, error)
}

// Result is the merged outcome of one word search. Images is replaced
// wholesale on page changes; the rest is immutable until the next search.
type Result struct {
	Word        string
	Images      []image.Result
	Phrases     []generate.Phrase
	Explanation string
}

// Snapshot is a point-in-time copy of the session state for rendering
type Snapshot struct {
	Result          *Result
	Page            *image.PaginatedResult
	Curating        bool
	SelectedPhrases []generate.Phrase
	SelectedImages  []image.Result
}

// Controller coordinates the search sources and owns all session state
type Controller struct {
	searcher  image.Searcher
	generator generate.Provider
	history   History // optional

	mu           sync.Mutex
	result       *Result
	page         *image.PaginatedResult
	pageInFlight bool

	curating        bool
	selectedPhrases []generate.Phrase
	selectedImages  []image.Result
}

// NewController creates a session controller. history may be nil.
func NewController(searcher image.Searcher, generator generate.Provider, history History) *Controller {
	return &Controller{
		searcher:  searcher,
		generator: generator,
		history:   history,
	}
}

// Search looks up a word across all three sources concurrently and
// replaces the session state with the merged result. Each source fails
// independently: a failed image lookup yields an empty page, failed
// phrase generation an empty list, a failed explanation an empty
// string, and the rest still renders. An empty or whitespace-only word
// is a no-op returning the unchanged state.
func (c *Controller) Search(ctx context.Context, word string) Snapshot {
	word = strings.TrimSpace(word)
	if word == "" {
		return c.Snapshot()
	}

	var (
		wg sync.WaitGroup

		page       *image.PaginatedResult
		pageErr    error
		phrases    []generate.Phrase
		phrasesErr error
		explain    string
		explainErr error
	)

	// Fan out and wait for every source to settle; one source's
	// failure must not cancel its siblings.
	wg.Add(3)
	go func() {
		defer wg.Done()
		opts := image.DefaultSearchOptions(word)
		page, pageErr = c.searcher.Search(ctx, opts)
	}()
	go func() {
		defer wg.Done()
		phrases, phrasesErr = c.generator.Phrases(ctx, word)
	}()
	go func() {
		defer wg.Done()
		explain, explainErr = c.generator.Explain(ctx, word)
	}()
	wg.Wait()

	if pageErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: image search failed for %q: %v\n", word, pageErr)
		page = image.EmptyPage()
	}
	if phrasesErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: phrase generation failed for %q: %v\n", word, phrasesErr)
		phrases = nil
	}
	if explainErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: explanation generation failed for %q: %v\n", word, explainErr)
		explain = ""
	}

	if c.history != nil {
		if err := c.history.Record(word); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to record search history for %q: %v\n", word, err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.result = &Result{
		Word:        word,
		Images:      page.Images,
		Phrases:     phrases,
		Explanation: explain,
	}
	c.page = page

	// Phrase and image identities are not stable across searches, so
	// stale selections would point at nothing.
	c.selectedPhrases = nil
	c.selectedImages = nil

	return c.snapshotLocked()
}

// ChangePage re-issues only the image lookup for the current word.
// While one page change is in flight, further ones are dropped, not
// queued, so out-of-order responses can never double-apply. A page that
// resolves after a newer search replaced the word is discarded. On
// failure the previous page is kept.
func (c *Controller) ChangePage(ctx context.Context, pageNumber int) Snapshot {
	c.mu.Lock()
	if c.result == nil || c.pageInFlight {
		defer c.mu.Unlock()
		return c.snapshotLocked()
	}
	c.pageInFlight = true
	word := c.result.Word
	c.mu.Unlock()

	opts := image.DefaultSearchOptions(word)
	opts.Page = pageNumber
	page, err := c.searcher.Search(ctx, opts)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pageInFlight = false

	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load page %d for %q: %v\n", pageNumber, word, err)
		return c.snapshotLocked()
	}

	// A search for another word may have completed while this page was
	// in flight; the newer state wins and the stale page is dropped.
	if c.result != nil && c.result.Word == word {
		c.page = page
		c.result.Images = page.Images
	}

	return c.snapshotLocked()
}

// SetCurating toggles curation mode. Leaving the mode clears both
// selection sets unconditionally; entering it clears nothing.
func (c *Controller) SetCurating(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.curating = on
	if !on {
		c.selectedPhrases = nil
		c.selectedImages = nil
	}
}

// TogglePhrase selects a phrase, or deselects it if already selected
func (c *Controller) TogglePhrase(phrase generate.Phrase) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, p := range c.selectedPhrases {
		if p == phrase {
			c.selectedPhrases = append(c.selectedPhrases[:i], c.selectedPhrases[i+1:]...)
			return
		}
	}
	c.selectedPhrases = append(c.selectedPhrases, phrase)
}

// ToggleImage selects an image, or deselects it if already selected
func (c *Controller) ToggleImage(img image.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, im := range c.selectedImages {
		if im == img {
			c.selectedImages = append(c.selectedImages[:i], c.selectedImages[i+1:]...)
			return
		}
	}
	c.selectedImages = append(c.selectedImages, img)
}

// SelectAll marks every phrase of the current result and its first
// image as selected, for non-interactive exports.
func (c *Controller) SelectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.result == nil {
		return
	}
	c.selectedPhrases = append([]generate.Phrase(nil), c.result.Phrases...)
	c.selectedImages = nil
	if len(c.result.Images) > 0 {
		c.selectedImages = []image.Result{c.result.Images[0]}
	}
}

// Export submits the current selections through the exporter. Selection
// order becomes submission order. After a completed run the selections
// are cleared; an aborted run keeps them for retry.
func (c *Controller) Export(ctx context.Context, exporter Exporter) (export.Outcome, error) {
	c.mu.Lock()
	if c.result == nil || len(c.selectedPhrases) == 0 {
		c.mu.Unlock()
		return export.Outcome{}, nil
	}
	word := c.result.Word
	explanation := c.result.Explanation
	phrases := append([]generate.Phrase(nil), c.selectedPhrases...)
	images := append([]image.Result(nil), c.selectedImages...)
	c.mu.Unlock()

	outcome, err := exporter.Export(ctx, word, explanation, phrases, images)
	if err != nil {
		return outcome, err
	}

	c.mu.Lock()
	c.selectedPhrases = nil
	c.selectedImages = nil
	c.mu.Unlock()

	return outcome, nil
}

// Snapshot returns a copy of the current session state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		Curating:        c.curating,
		SelectedPhrases: append([]generate.Phrase(nil), c.selectedPhrases...),
		SelectedImages:  append([]image.Result(nil), c.selectedImages...),
	}
	if c.result != nil {
		r := *c.result
		r.Images = append([]image.Result(nil), c.result.Images...)
		r.Phrases = append([]generate.Phrase(nil), c.result.Phrases...)
		snap.Result = &r
	}
	if c.page != nil {
		p := *c.page
		p.Images = append([]image.Result(nil), c.page.Images...)
		snap.Page = &p
	}
	return snap
}
