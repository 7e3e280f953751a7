// Package filter reduces a book list before it reaches the graph builder.
package filter

import (
	"strings"
	"time"

	"github.com/SamhitaKotian/reading-graph/internal/book"
)

// Options describes the active filters. Zero values mean "no filtering".
type Options struct {
	MinRating float64   // Keep books rated at or above this value.
	Shelf     string    // Keep books whose shelf fields contain this keyword.
	ReadAfter time.Time // Keep books read on or after this date.
}

// IsZero reports whether no filter is active.
func (o Options) IsZero() bool {
	return o.MinRating == 0 && o.Shelf == "" && o.ReadAfter.IsZero()
}

// Apply returns the books passing every active filter, in input order.
// Books with unparseable ratings or dates fail the corresponding filter
// rather than erroring.
func Apply(books []book.Record, o Options) []book.Record {
	if o.IsZero() {
		return books
	}

	var out []book.Record
	for _, b := range books {
		if o.MinRating > 0 && book.ParseRating(b.Rating) < o.MinRating {
			continue
		}
		if o.Shelf != "" && !matchesShelf(&b, o.Shelf) {
			continue
		}
		if !o.ReadAfter.IsZero() {
			read, ok := book.ParseDateRead(b.DateRead)
			if !ok || read.Before(o.ReadAfter) {
				continue
			}
		}
		out = append(out, b)
	}
	return out
}

// matchesShelf does a case-insensitive substring match over both shelf
// fields.
func matchesShelf(b *book.Record, keyword string) bool {
	keyword = strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(b.Bookshelves), keyword) ||
		strings.Contains(strings.ToLower(b.ExclusiveShelf), keyword)
}
