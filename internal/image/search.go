package image

import (
	"context"
)

// DefaultPerPage is the number of images shown per result page.
const DefaultPerPage = 6

// Result represents a single image search result
type Result struct {
	ID           string // Unique identifier within the provider
	URL          string // Direct URL to the image
	ThumbnailURL string // URL to thumbnail version
	Width        int    // Image width in pixels
	Height       int    // Image height in pixels
	Description  string // Image description or tags
	Attribution  string // Attribution text if required
	Source       string // Source provider (e.g., "pixabay")
}

// PaginatedResult is one page of image results plus paging state.
type PaginatedResult struct {
	Images      []Result
	CurrentPage int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

// EmptyPage returns the result substituted when a search fails or
// matches nothing: no images, a single page, no navigation.
func EmptyPage() *PaginatedResult {
	return &PaginatedResult{
		Images:      []Result{},
		CurrentPage: 1,
		TotalPages:  1,
		HasNext:     false,
		HasPrevious: false,
	}
}

// NewPaginatedResult derives the paging state for a page of results.
// totalHits is the provider's total match count across all pages.
func NewPaginatedResult(images []Result, page, perPage, totalHits int) *PaginatedResult {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	totalPages := (totalHits + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return &PaginatedResult{
		Images:      images,
		CurrentPage: page,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

// SearchOptions configures the image search
type SearchOptions struct {
	Query       string // Search query (the vocabulary word)
	Language    string // Language code (default: "en")
	SafeSearch  bool   // Enable safe search filtering
	PerPage     int    // Number of results per page
	Page        int    // Page number (1-based)
	ImageType   string // Type: "photo", "illustration", "vector", "all"
	Orientation string // Orientation: "horizontal", "vertical", "all"
}

// DefaultSearchOptions returns sensible defaults for vocabulary word searches
func DefaultSearchOptions(query string) *SearchOptions {
	return &SearchOptions{
		Query:       query,
		Language:    "en",
		SafeSearch:  true,
		PerPage:     DefaultPerPage,
		Page:        1,
		ImageType:   "photo",
		Orientation: "all",
	}
}

// Searcher defines the interface for image search providers
type Searcher interface {
	// Search performs an image search with the given options
	Search(ctx context.Context, opts *SearchOptions) (*PaginatedResult, error)

	// Name returns the name of the search provider
	Name() string
}

// SearchError represents an error from an image search provider
type SearchError struct {
	Provider string
	Code     string
	Message  string
}

func (e *SearchError) Error() string {
	return e.Provider + ": " + e.Message
}

// RateLimitError indicates that the API rate limit has been exceeded
type RateLimitError struct {
	Provider     string
	RetryAfter   int // Seconds to wait before retry
	LimitPerHour int
	LimitPerDay  int
}

func (e *RateLimitError) Error() string {
	return e.Provider + ": rate limit exceeded"
}
