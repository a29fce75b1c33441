package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"codeberg.org/snonux/exemplar/internal/export"
	"codeberg.org/snonux/exemplar/internal/generate"
	"codeberg.org/snonux/exemplar/internal/image"
	"codeberg.org/snonux/exemplar/internal/testutil"
)

func testPage() *image.PaginatedResult {
	return &image.PaginatedResult{
		Images: []image.Result{
			{ID: "1", URL: "https://cdn/1.jpg"},
			{ID: "2", URL: "https://cdn/2.jpg"},
		},
		CurrentPage: 1,
		TotalPages:  3,
		HasNext:     true,
		HasPrevious: false,
	}
}

func testGenerator() *testutil.MockGenerator {
	return &testutil.MockGenerator{
		PhrasesResult: []generate.Phrase{
			{Text: "mi casa", Translation: "my house", Category: "nouns"},
			{Text: "casa grande", Translation: "big house", Category: "nouns"},
		},
		Explanation: "A dwelling for people.",
	}
}

func TestSearchMergesAllSources(t *testing.T) {
	searcher := &testutil.MockSearcher{Page: testPage()}
	generator := testGenerator()
	history := &testutil.MockHistory{}
	ctrl := NewController(searcher, generator, history)

	snap := ctrl.Search(context.Background(), "casa")

	if snap.Result == nil {
		t.Fatal("Expected a result")
	}
	if snap.Result.Word != "casa" {
		t.Errorf("Expected word 'casa', got '%s'", snap.Result.Word)
	}
	if len(snap.Result.Images) != 2 {
		t.Errorf("Expected 2 images, got %d", len(snap.Result.Images))
	}
	if len(snap.Result.Phrases) != 2 {
		t.Errorf("Expected 2 phrases, got %d", len(snap.Result.Phrases))
	}
	if snap.Result.Explanation != "A dwelling for people." {
		t.Errorf("Unexpected explanation: '%s'", snap.Result.Explanation)
	}

	if len(history.Words) != 1 || history.Words[0] != "casa" {
		t.Errorf("Expected history to record 'casa', got %v", history.Words)
	}
}

func TestSearchEmptyQueryIsNoOp(t *testing.T) {
	searcher := &testutil.MockSearcher{Page: testPage()}
	generator := testGenerator()
	ctrl := NewController(searcher, generator, nil)

	snap := ctrl.Search(context.Background(), "   ")

	if snap.Result != nil {
		t.Error("Expected no result for a whitespace-only query")
	}
	if len(searcher.Calls) != 0 {
		t.Errorf("Expected no searcher calls, got %d", len(searcher.Calls))
	}
	if len(generator.Calls) != 0 {
		t.Errorf("Expected no generator calls, got %v", generator.Calls)
	}
}

func TestSearchImageFailureIsIsolated(t *testing.T) {
	searcher := &testutil.MockSearcher{Err: errors.New("pixabay down")}
	generator := testGenerator()
	ctrl := NewController(searcher, generator, nil)

	snap := ctrl.Search(context.Background(), "casa")

	if snap.Result == nil {
		t.Fatal("Expected a result despite the image failure")
	}
	if len(snap.Result.Images) != 0 {
		t.Errorf("Expected no images, got %d", len(snap.Result.Images))
	}
	if snap.Page.CurrentPage != 1 || snap.Page.TotalPages != 1 {
		t.Errorf("Expected empty page 1/1, got %d/%d", snap.Page.CurrentPage, snap.Page.TotalPages)
	}
	if snap.Page.HasNext || snap.Page.HasPrevious {
		t.Error("Expected no page navigation on the empty page")
	}

	// The other two sources are unaffected
	if len(snap.Result.Phrases) != 2 {
		t.Errorf("Expected 2 phrases, got %d", len(snap.Result.Phrases))
	}
	if snap.Result.Explanation == "" {
		t.Error("Expected an explanation")
	}
}

func TestSearchPhraseFailureIsIsolated(t *testing.T) {
	searcher := &testutil.MockSearcher{Page: testPage()}
	generator := testGenerator()
	generator.PhrasesErr = errors.New("model overloaded")
	ctrl := NewController(searcher, generator, nil)

	snap := ctrl.Search(context.Background(), "casa")

	if len(snap.Result.Phrases) != 0 {
		t.Errorf("Expected no phrases, got %d", len(snap.Result.Phrases))
	}
	if len(snap.Result.Images) != 2 {
		t.Errorf("Expected 2 images, got %d", len(snap.Result.Images))
	}
	if snap.Result.Explanation == "" {
		t.Error("Expected an explanation")
	}
}

func TestSearchExplanationFailureIsIsolated(t *testing.T) {
	searcher := &testutil.MockSearcher{Page: testPage()}
	generator := testGenerator()
	generator.ExplainErr = errors.New("model overloaded")
	ctrl := NewController(searcher, generator, nil)

	snap := ctrl.Search(context.Background(), "casa")

	if snap.Result.Explanation != "" {
		t.Errorf("Expected empty explanation, got '%s'", snap.Result.Explanation)
	}
	if len(snap.Result.Images) != 2 || len(snap.Result.Phrases) != 2 {
		t.Error("Expected images and phrases to be unaffected")
	}
}

func TestSearchHistoryFailureDoesNotAffectOutcome(t *testing.T) {
	searcher := &testutil.MockSearcher{Page: testPage()}
	ctrl := NewController(searcher, testGenerator(), &testutil.MockHistory{Err: errors.New("disk full")})

	snap := ctrl.Search(context.Background(), "casa")

	if snap.Result == nil || snap.Result.Word != "casa" {
		t.Error("Expected the search to succeed despite the history failure")
	}
}

func TestSearchClearsSelections(t *testing.T) {
	searcher := &testutil.MockSearcher{Page: testPage()}
	ctrl := NewController(searcher, testGenerator(), nil)

	snap := ctrl.Search(context.Background(), "casa")
	ctrl.SetCurating(true)
	ctrl.TogglePhrase(snap.Result.Phrases[0])
	ctrl.ToggleImage(snap.Result.Images[0])

	snap = ctrl.Search(context.Background(), "perro")

	if len(snap.SelectedPhrases) != 0 {
		t.Errorf("Expected selections cleared after new search, got %d phrases", len(snap.SelectedPhrases))
	}
	if len(snap.SelectedImages) != 0 {
		t.Errorf("Expected selections cleared after new search, got %d images", len(snap.SelectedImages))
	}
}

func TestTogglePhraseIsIdempotent(t *testing.T) {
	ctrl := NewController(&testutil.MockSearcher{}, testGenerator(), nil)
	phrase := generate.Phrase{Text: "mi casa", Translation: "my house", Category: "nouns"}

	ctrl.TogglePhrase(phrase)
	if got := len(ctrl.Snapshot().SelectedPhrases); got != 1 {
		t.Fatalf("Expected 1 selected phrase, got %d", got)
	}

	// Selecting again deselects
	ctrl.TogglePhrase(phrase)
	if got := len(ctrl.Snapshot().SelectedPhrases); got != 0 {
		t.Errorf("Expected 0 selected phrases after second toggle, got %d", got)
	}
}

func TestToggleImageIsIdempotent(t *testing.T) {
	ctrl := NewController(&testutil.MockSearcher{}, testGenerator(), nil)
	img := image.Result{ID: "1", URL: "https://cdn/1.jpg"}

	ctrl.ToggleImage(img)
	ctrl.ToggleImage(img)

	if got := len(ctrl.Snapshot().SelectedImages); got != 0 {
		t.Errorf("Expected 0 selected images after double toggle, got %d", got)
	}
}

func TestTogglePreservesInsertionOrder(t *testing.T) {
	ctrl := NewController(&testutil.MockSearcher{}, testGenerator(), nil)
	first := generate.Phrase{Text: "uno"}
	second := generate.Phrase{Text: "dos"}
	third := generate.Phrase{Text: "tres"}

	ctrl.TogglePhrase(first)
	ctrl.TogglePhrase(second)
	ctrl.TogglePhrase(third)
	ctrl.TogglePhrase(second) // deselect the middle one

	selected := ctrl.Snapshot().SelectedPhrases
	if len(selected) != 2 {
		t.Fatalf("Expected 2 selected phrases, got %d", len(selected))
	}
	if selected[0].Text != "uno" || selected[1].Text != "tres" {
		t.Errorf("Expected order [uno tres], got [%s %s]", selected[0].Text, selected[1].Text)
	}
}

func TestLeavingCurationModeClearsSelections(t *testing.T) {
	ctrl := NewController(&testutil.MockSearcher{}, testGenerator(), nil)

	ctrl.SetCurating(true)
	ctrl.TogglePhrase(generate.Phrase{Text: "mi casa"})
	ctrl.ToggleImage(image.Result{ID: "1"})

	ctrl.SetCurating(false)

	snap := ctrl.Snapshot()
	if snap.Curating {
		t.Error("Expected curation mode to be off")
	}
	if len(snap.SelectedPhrases) != 0 || len(snap.SelectedImages) != 0 {
		t.Error("Expected both selection sets cleared on mode exit")
	}
}

func TestChangePageReplacesImagesOnly(t *testing.T) {
	searcher := &testutil.MockSearcher{Page: testPage()}
	ctrl := NewController(searcher, testGenerator(), nil)

	ctrl.Search(context.Background(), "casa")

	searcher.Page = &image.PaginatedResult{
		Images:      []image.Result{{ID: "7", URL: "https://cdn/7.jpg"}},
		CurrentPage: 2,
		TotalPages:  3,
		HasNext:     true,
		HasPrevious: true,
	}
	snap := ctrl.ChangePage(context.Background(), 2)

	if snap.Page.CurrentPage != 2 {
		t.Errorf("Expected CurrentPage 2, got %d", snap.Page.CurrentPage)
	}
	if len(snap.Result.Images) != 1 || snap.Result.Images[0].ID != "7" {
		t.Errorf("Expected images replaced by page 2, got %v", snap.Result.Images)
	}
	if len(snap.Result.Phrases) != 2 {
		t.Error("Expected phrases untouched by page change")
	}

	// The page change requested page 2 with the session page size
	last := searcher.Calls[len(searcher.Calls)-1]
	if last.Page != 2 {
		t.Errorf("Expected page 2 request, got %d", last.Page)
	}
	if last.PerPage != image.DefaultPerPage {
		t.Errorf("Expected per-page %d, got %d", image.DefaultPerPage, last.PerPage)
	}
}

func TestChangePageWithoutSearchIsNoOp(t *testing.T) {
	searcher := &testutil.MockSearcher{}
	ctrl := NewController(searcher, testGenerator(), nil)

	snap := ctrl.ChangePage(context.Background(), 2)

	if snap.Result != nil {
		t.Error("Expected no result")
	}
	if len(searcher.Calls) != 0 {
		t.Errorf("Expected no searcher calls, got %d", len(searcher.Calls))
	}
}

func TestChangePageDropsOverlappingRequest(t *testing.T) {
	searcher := &testutil.MockSearcher{Page: testPage()}
	ctrl := NewController(searcher, testGenerator(), nil)

	ctrl.Search(context.Background(), "casa")

	// Hold the next lookup in flight
	block := make(chan struct{})
	searcher.Block = block
	searcher.Page = &image.PaginatedResult{
		Images:      []image.Result{{ID: "7", URL: "https://cdn/7.jpg"}},
		CurrentPage: 2,
		TotalPages:  3,
		HasNext:     true,
		HasPrevious: true,
	}

	done := make(chan Snapshot)
	go func() {
		done <- ctrl.ChangePage(context.Background(), 2)
	}()

	// Wait until the in-flight lookup reached the searcher
	for searcher.CallCount() < 2 {
		time.Sleep(time.Millisecond)
	}

	// A second page change while one is in flight is dropped
	snap := ctrl.ChangePage(context.Background(), 3)
	if searcher.CallCount() != 2 {
		t.Errorf("Expected the overlapping page change to be dropped, got %d searcher calls", searcher.CallCount())
	}
	if snap.Page.CurrentPage != 1 {
		t.Errorf("Expected state unchanged while in flight, got page %d", snap.Page.CurrentPage)
	}

	close(block)
	final := <-done

	// Only the in-flight page change was applied
	if final.Page.CurrentPage != 2 {
		t.Errorf("Expected final page 2, got %d", final.Page.CurrentPage)
	}
	if searcher.CallCount() != 2 {
		t.Errorf("Expected 2 searcher calls total, got %d", searcher.CallCount())
	}
}

func TestSearchSupersedesInFlightPageChange(t *testing.T) {
	searcher := &testutil.MockSearcher{Page: testPage()}
	ctrl := NewController(searcher, testGenerator(), nil)

	ctrl.Search(context.Background(), "casa")

	// Hold a page change for the current word in flight
	block := make(chan struct{})
	searcher.Block = block
	searcher.Page = &image.PaginatedResult{
		Images:      []image.Result{{ID: "casa-p2", URL: "https://cdn/casa-p2.jpg"}},
		CurrentPage: 2,
		TotalPages:  3,
		HasNext:     true,
		HasPrevious: true,
	}

	done := make(chan Snapshot)
	go func() {
		done <- ctrl.ChangePage(context.Background(), 2)
	}()

	for searcher.CallCount() < 2 {
		time.Sleep(time.Millisecond)
	}

	// A search for a new word completes while the page change hangs
	searcher.Block = nil
	searcher.Page = &image.PaginatedResult{
		Images:      []image.Result{{ID: "perro-1", URL: "https://cdn/perro-1.jpg"}},
		CurrentPage: 1,
		TotalPages:  5,
		HasNext:     true,
		HasPrevious: false,
	}
	ctrl.Search(context.Background(), "perro")

	// The stale page for the old word resolves and must be discarded
	close(block)
	final := <-done

	if final.Result.Word != "perro" {
		t.Fatalf("Expected word 'perro', got '%s'", final.Result.Word)
	}
	if final.Page.CurrentPage != 1 || final.Page.TotalPages != 5 {
		t.Errorf("Expected perro's page state 1/5, got %d/%d", final.Page.CurrentPage, final.Page.TotalPages)
	}
	if len(final.Result.Images) != 1 || final.Result.Images[0].ID != "perro-1" {
		t.Errorf("Expected perro's images, got %v", final.Result.Images)
	}

	snap := ctrl.Snapshot()
	if snap.Page.CurrentPage != 1 || snap.Page.TotalPages != 5 {
		t.Errorf("Expected page state 1/5 after the stale page resolved, got %d/%d", snap.Page.CurrentPage, snap.Page.TotalPages)
	}
	if len(snap.Page.Images) != 1 || snap.Page.Images[0].ID != "perro-1" {
		t.Errorf("Expected perro's images in the page state, got %v", snap.Page.Images)
	}
}

func TestChangePageFailureKeepsState(t *testing.T) {
	searcher := &testutil.MockSearcher{Page: testPage()}
	ctrl := NewController(searcher, testGenerator(), nil)

	ctrl.Search(context.Background(), "casa")

	searcher.Err = errors.New("pixabay down")
	snap := ctrl.ChangePage(context.Background(), 2)

	if snap.Page.CurrentPage != 1 {
		t.Errorf("Expected page to remain 1, got %d", snap.Page.CurrentPage)
	}
	if len(snap.Result.Images) != 2 {
		t.Errorf("Expected images unchanged, got %d", len(snap.Result.Images))
	}

	// A failed page change releases the in-flight guard
	searcher.Err = nil
	snap = ctrl.ChangePage(context.Background(), 2)
	if len(searcher.Calls) != 3 {
		t.Errorf("Expected a retry to go through, got %d searcher calls", len(searcher.Calls))
	}
}

// mockExporter implements Exporter for controller tests
type mockExporter struct {
	outcome export.Outcome
	err     error

	word    string
	phrases []generate.Phrase
	images  []image.Result
}

func (m *mockExporter) Export(ctx context.Context, word, explanation string, phrases []generate.Phrase, images []image.Result) (export.Outcome, error) {
	m.word = word
	m.phrases = phrases
	m.images = images
	return m.outcome, m.err
}

func TestExportClearsSelectionsOnSuccess(t *testing.T) {
	searcher := &testutil.MockSearcher{Page: testPage()}
	ctrl := NewController(searcher, testGenerator(), nil)

	snap := ctrl.Search(context.Background(), "casa")
	ctrl.SetCurating(true)
	ctrl.TogglePhrase(snap.Result.Phrases[0])
	ctrl.TogglePhrase(snap.Result.Phrases[1])
	ctrl.ToggleImage(snap.Result.Images[0])

	exporter := &mockExporter{outcome: export.Outcome{Success: 2}}
	outcome, err := ctrl.Export(context.Background(), exporter)
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}

	if outcome.Success != 2 {
		t.Errorf("Expected 2 successes, got %d", outcome.Success)
	}
	if exporter.word != "casa" {
		t.Errorf("Expected word 'casa', got '%s'", exporter.word)
	}
	if len(exporter.phrases) != 2 {
		t.Errorf("Expected 2 phrases passed through, got %d", len(exporter.phrases))
	}

	snap = ctrl.Snapshot()
	if len(snap.SelectedPhrases) != 0 || len(snap.SelectedImages) != 0 {
		t.Error("Expected selections cleared after a completed export")
	}
}

func TestExportKeepsSelectionsOnAbort(t *testing.T) {
	searcher := &testutil.MockSearcher{Page: testPage()}
	ctrl := NewController(searcher, testGenerator(), nil)

	snap := ctrl.Search(context.Background(), "casa")
	ctrl.TogglePhrase(snap.Result.Phrases[0])

	exporter := &mockExporter{err: errors.New("deck ensure failed")}
	if _, err := ctrl.Export(context.Background(), exporter); err == nil {
		t.Fatal("Expected the abort to propagate")
	}

	if len(ctrl.Snapshot().SelectedPhrases) != 1 {
		t.Error("Expected selections kept for retry after an aborted export")
	}
}

func TestExportWithoutSelectionsIsNoOp(t *testing.T) {
	searcher := &testutil.MockSearcher{Page: testPage()}
	ctrl := NewController(searcher, testGenerator(), nil)

	ctrl.Search(context.Background(), "casa")

	exporter := &mockExporter{outcome: export.Outcome{Success: 99}}
	outcome, err := ctrl.Export(context.Background(), exporter)
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if outcome.Success != 0 || outcome.Failed != 0 {
		t.Errorf("Expected outcome {0, 0}, got {%d, %d}", outcome.Success, outcome.Failed)
	}
	if exporter.word != "" {
		t.Error("Expected the exporter not to be invoked")
	}
}

func TestSelectAll(t *testing.T) {
	searcher := &testutil.MockSearcher{Page: testPage()}
	ctrl := NewController(searcher, testGenerator(), nil)

	ctrl.Search(context.Background(), "casa")
	ctrl.SelectAll()

	snap := ctrl.Snapshot()
	if len(snap.SelectedPhrases) != 2 {
		t.Errorf("Expected all 2 phrases selected, got %d", len(snap.SelectedPhrases))
	}
	if len(snap.SelectedImages) != 1 {
		t.Errorf("Expected the first image selected, got %d", len(snap.SelectedImages))
	}
	if len(snap.SelectedImages) == 1 && snap.SelectedImages[0].ID != "1" {
		t.Errorf("Expected image '1', got '%s'", snap.SelectedImages[0].ID)
	}
}
