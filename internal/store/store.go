// Package store provides the durable local store backing a reading-graph
// repository. It is a small SQLite key-value table with two logical keys:
// the enriched book list and the bookmark list.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/SamhitaKotian/reading-graph/internal/book"
	"github.com/SamhitaKotian/reading-graph/internal/bookmark"
)

// Logical keys.
const (
	KeyBooks     = "books"
	KeyBookmarks = "bookmarks"
)

// Store wraps the SQLite database holding session state.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the store at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(kvDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating kv table: %w", err)
	}

	return &Store{db: db}, nil
}

const kvDDL = `CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  value TEXT
)`

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// get reads and decodes one logical key into out. A missing key leaves out
// untouched and returns false.
func (s *Store) get(key string, out interface{}) (bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(value), out); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

// put encodes and writes one logical key.
func (s *Store) put(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	_, err = s.db.Exec(`INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`, key, string(data))
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// LoadBooks returns the stored book list, or an empty list if none exists.
func (s *Store) LoadBooks() ([]book.Record, error) {
	var books []book.Record
	if _, err := s.get(KeyBooks, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// SaveBooks replaces the stored book list. Called after import, after every
// successful enrichment merge and after filter changes.
func (s *Store) SaveBooks(books []book.Record) error {
	return s.put(KeyBooks, books)
}

// LoadBookmarks returns the stored bookmark list, or an empty list.
func (s *Store) LoadBookmarks() ([]bookmark.Bookmark, error) {
	var list []bookmark.Bookmark
	if _, err := s.get(KeyBookmarks, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SaveBookmarks replaces the stored bookmark list.
func (s *Store) SaveBookmarks(list []bookmark.Bookmark) error {
	return s.put(KeyBookmarks, list)
}

// ToggleBookmark toggles one bookmark and persists the result. It returns
// whether the bookmark is now present.
func (s *Store) ToggleBookmark(b bookmark.Bookmark) (bool, error) {
	list, err := s.LoadBookmarks()
	if err != nil {
		return false, err
	}

	list, added := bookmark.Toggle(list, b)
	if err := s.SaveBookmarks(list); err != nil {
		return false, err
	}
	return added, nil
}
