// Package book defines the core domain types for library books.
package book

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Record represents one book from an imported library.
type Record struct {
	// Identity: stable for the life of a session so enrichment results can
	// find their way back to the originating record.
	ID string `json:"id"`

	// Metadata
	Title          string `json:"title"`
	Author         string `json:"author"`
	Rating         string `json:"rating,omitempty"`    // Raw export value, e.g. "4" or "3 stars"
	DateRead       string `json:"date_read,omitempty"` // Free-form export date, parsed lazily
	Bookshelves    string `json:"bookshelves,omitempty"`
	ExclusiveShelf string `json:"exclusive_shelf,omitempty"`

	// Enrichment (empty until an analysis completes)
	Themes []Theme  `json:"themes,omitempty"`
	Quotes []string `json:"quotes,omitempty"` // Flattened from Themes for display
}

// Theme is a literary theme attached to a book by enrichment, with up to
// three representative quotes kept for display.
type Theme struct {
	Name   string   `json:"name"`
	Quotes []string `json:"quotes,omitempty"`
}

// MaxThemeQuotes is the number of quotes retained per theme.
const MaxThemeQuotes = 3

// MaxThemes is the number of themes retained per book.
const MaxThemes = 5

// DeriveID builds a deterministic record ID from the row position, title and
// author. CSV exports carry no stable identifier, so the same file always
// yields the same IDs.
func DeriveID(row int, title, author string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%s|%s", row, title, author)))
	return "book-" + hex.EncodeToString(sum[:])[:12]
}

// ThemeNames returns the book's theme names in extraction order.
func (r *Record) ThemeNames() []string {
	if len(r.Themes) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.Themes))
	for _, t := range r.Themes {
		names = append(names, t.Name)
	}
	return names
}

// ThemeSet returns the book's theme names as a set for overlap tests.
func (r *Record) ThemeSet() map[string]bool {
	if len(r.Themes) == 0 {
		return nil
	}
	set := make(map[string]bool, len(r.Themes))
	for _, t := range r.Themes {
		set[t.Name] = true
	}
	return set
}

// SharedThemes returns the theme names this record shares with other, in
// this record's extraction order. Matching is case-sensitive and exact.
func (r *Record) SharedThemes(other *Record) []string {
	if len(r.Themes) == 0 || len(other.Themes) == 0 {
		return nil
	}

	otherSet := other.ThemeSet()
	var shared []string
	for _, t := range r.Themes {
		if otherSet[t.Name] {
			shared = append(shared, t.Name)
		}
	}
	return shared
}

// SetThemes replaces the record's themes and rebuilds the flattened quote
// list. Theme and quote counts are clamped to the enrichment contract.
func (r *Record) SetThemes(themes []Theme) {
	if len(themes) > MaxThemes {
		themes = themes[:MaxThemes]
	}

	r.Themes = themes
	r.Quotes = nil
	for i := range r.Themes {
		if len(r.Themes[i].Quotes) > MaxThemeQuotes {
			r.Themes[i].Quotes = r.Themes[i].Quotes[:MaxThemeQuotes]
		}
		r.Quotes = append(r.Quotes, r.Themes[i].Quotes...)
	}
}

// FindByID returns the index of the record with the given ID, or -1.
func FindByID(books []Record, id string) int {
	for i := range books {
		if books[i].ID == id {
			return i
		}
	}
	return -1
}

// FindByTitleAuthor returns the index of the first record matching title and
// author (case-insensitive), or -1. Used as the fallback when an enrichment
// result cannot be matched by ID.
func FindByTitleAuthor(books []Record, title, author string) int {
	for i := range books {
		if strings.EqualFold(books[i].Title, title) && strings.EqualFold(books[i].Author, author) {
			return i
		}
	}
	return -1
}
