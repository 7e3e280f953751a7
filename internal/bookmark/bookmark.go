// Package bookmark defines saved quotes and their toggle semantics.
package bookmark

import (
	"errors"
	"strings"
	"time"
)

// Bookmark is a saved quote. Its identity is the composite of book title,
// author, quote text and theme name, which is collision-resistant without a
// separate ID.
type Bookmark struct {
	Quote      string `json:"quote"`
	Theme      string `json:"theme"`
	BookTitle  string `json:"book_title"`
	BookAuthor string `json:"book_author"`
	DateAdded  string `json:"date_added"`
}

// Validation errors.
var (
	ErrEmptyQuote = errors.New("quote is required")
	ErrEmptyTitle = errors.New("book_title is required")
)

// Key returns the natural identity of the bookmark.
func (b *Bookmark) Key() string {
	return strings.Join([]string{b.BookTitle, b.BookAuthor, b.Quote, b.Theme}, "\x1f")
}

// ValidateForCreate validates a bookmark before storing it.
func (b *Bookmark) ValidateForCreate() error {
	if b.Quote == "" {
		return ErrEmptyQuote
	}
	if b.BookTitle == "" {
		return ErrEmptyTitle
	}
	return nil
}

// SetDateAdded stamps the bookmark with the current time if unset.
func (b *Bookmark) SetDateAdded() {
	if b.DateAdded == "" {
		b.DateAdded = time.Now().UTC().Format(time.RFC3339)
	}
}

// Toggle adds the bookmark to the list, or removes the existing entry with
// the same key. It returns the updated list and whether the bookmark is now
// present.
func Toggle(list []Bookmark, b Bookmark) ([]Bookmark, bool) {
	key := b.Key()
	for i := range list {
		if list[i].Key() == key {
			return append(list[:i:i], list[i+1:]...), false
		}
	}

	b.SetDateAdded()
	return append(list, b), true
}
