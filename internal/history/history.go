// Package history persists searched words in a local SQLite database
// so past study sessions can be revisited.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one recorded search
type Entry struct {
	Word         string
	Searches     int
	LastSearched time.Time
}

// Store records searched words in a SQLite database
type Store struct {
	db *sql.DB
}

// DefaultPath returns the default history database location under the
// user's XDG state directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "exemplar_history.db"
	}
	return filepath.Join(home, ".local", "state", "exemplar", "history.db")
}

// Open opens (creating if necessary) the history database at path
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	query := `CREATE TABLE IF NOT EXISTS search_history (
		word TEXT PRIMARY KEY,
		searches INTEGER NOT NULL DEFAULT 1,
		last_searched TIMESTAMP NOT NULL
	)`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}

	return &Store{db: db}, nil
}

// Record notes that a word was searched, bumping its search count
func (s *Store) Record(word string) error {
	query := `INSERT INTO search_history (word, searches, last_searched)
		VALUES (?, 1, ?)
		ON CONFLICT(word) DO UPDATE SET
			searches = searches + 1,
			last_searched = excluded.last_searched`

	if _, err := s.db.Exec(query, word, time.Now()); err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, most recently searched first
func (s *Store) Recent(limit int) ([]Entry, error) {
	query := `SELECT word, searches, last_searched FROM search_history
		ORDER BY last_searched DESC LIMIT ?`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Word, &e.Searches, &e.LastSearched); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
