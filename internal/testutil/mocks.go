// Package testutil provides shared mocks for session and export tests.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/snonux/exemplar/internal/anki"
	"codeberg.org/snonux/exemplar/internal/generate"
	"codeberg.org/snonux/exemplar/internal/image"
)

// MockBridge mocks the AnkiConnect client, recording the order of calls
type MockBridge struct {
	Decks        []string
	DeckNamesErr error
	CreateErr    error
	AddNoteErrs  map[int]error // keyed by 1-based addNote call number
	MediaErr     error
	NextNoteID   int64

	Calls []string
	Notes []anki.Note

	addNoteCalls int
}

// DeckNames mocks the deckNames action
func (m *MockBridge) DeckNames(ctx context.Context) ([]string, error) {
	m.Calls = append(m.Calls, "deckNames")
	if m.DeckNamesErr != nil {
		return nil, m.DeckNamesErr
	}
	return m.Decks, nil
}

// CreateDeck mocks the createDeck action
func (m *MockBridge) CreateDeck(ctx context.Context, name string) error {
	m.Calls = append(m.Calls, fmt.Sprintf("createDeck %s", name))
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Decks = append(m.Decks, name)
	return nil
}

// AddNote mocks the addNote action
func (m *MockBridge) AddNote(ctx context.Context, note anki.Note) (int64, error) {
	m.addNoteCalls++
	m.Calls = append(m.Calls, fmt.Sprintf("addNote %d", m.addNoteCalls))
	if err, ok := m.AddNoteErrs[m.addNoteCalls]; ok {
		return 0, err
	}
	m.Notes = append(m.Notes, note)
	m.NextNoteID++
	return m.NextNoteID, nil
}

// StoreMediaFile mocks the storeMediaFile action
func (m *MockBridge) StoreMediaFile(ctx context.Context, filename string, data []byte) error {
	m.Calls = append(m.Calls, fmt.Sprintf("storeMediaFile %s", filename))
	return m.MediaErr
}

// MockSearcher mocks the image search source. If Block is non-nil a
// Search call waits on it, letting tests hold a lookup in flight.
type MockSearcher struct {
	Page  *image.PaginatedResult
	Err   error
	Block chan struct{}

	mu    sync.Mutex
	Calls []*image.SearchOptions
}

// Search mocks an image search. The configured page and error are
// captured at call entry, so a blocked call returns what was configured
// when it started even if the test reconfigures the mock meanwhile.
func (m *MockSearcher) Search(ctx context.Context, opts *image.SearchOptions) (*image.PaginatedResult, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, opts)
	page, err, block := m.Page, m.Err, m.Block
	m.mu.Unlock()
	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	if page == nil {
		return image.EmptyPage(), nil
	}
	return page, nil
}

// CallCount returns how many searches were issued so far. Safe to call
// while a blocked search is in flight.
func (m *MockSearcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Name returns the mock provider name
func (m *MockSearcher) Name() string {
	return "mock"
}

// MockGenerator mocks the phrase/explanation generation source
type MockGenerator struct {
	PhrasesResult []generate.Phrase
	PhrasesErr    error
	Explanation   string
	ExplainErr    error

	mu    sync.Mutex
	Calls []string
}

// Phrases mocks phrase generation
func (m *MockGenerator) Phrases(ctx context.Context, word string) ([]generate.Phrase, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf("phrases %s", word))
	m.mu.Unlock()
	if m.PhrasesErr != nil {
		return nil, m.PhrasesErr
	}
	return m.PhrasesResult, nil
}

// Explain mocks explanation generation
func (m *MockGenerator) Explain(ctx context.Context, word string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf("explain %s", word))
	m.mu.Unlock()
	if m.ExplainErr != nil {
		return "", m.ExplainErr
	}
	return m.Explanation, nil
}

// Name returns the mock provider name
func (m *MockGenerator) Name() string {
	return "mock"
}

// MockHistory mocks the search history store
type MockHistory struct {
	Err   error
	Words []string
}

// Record mocks recording a search
func (m *MockHistory) Record(word string) error {
	m.Words = append(m.Words, word)
	return m.Err
}
