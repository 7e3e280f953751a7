package filter

import (
	"testing"
	"time"

	"github.com/SamhitaKotian/reading-graph/internal/book"
)

func testBooks() []book.Record {
	return []book.Record{
		{ID: "a", Rating: "5", DateRead: "2026/08/20", Bookshelves: "classics"},
		{ID: "b", Rating: "3 stars", DateRead: "2026/01/01", Bookshelves: "sci-fi, favorites"},
		{ID: "c", Rating: "", DateRead: "", ExclusiveShelf: "to-read"},
	}
}

func ids(books []book.Record) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{"no filters", Options{}, []string{"a", "b", "c"}},
		{"min rating", Options{MinRating: 4}, []string{"a"}},
		{"min rating with text value", Options{MinRating: 3}, []string{"a", "b"}},
		{"shelf keyword", Options{Shelf: "sci-fi"}, []string{"b"}},
		{"shelf matches exclusive shelf", Options{Shelf: "to-read"}, []string{"c"}},
		{"read after drops unparseable dates", Options{ReadAfter: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)}, []string{"a"}},
		{"combined", Options{MinRating: 1, Shelf: "favorites"}, []string{"b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(testBooks(), tt.opts))
			if len(got) != len(tt.want) {
				t.Fatalf("Apply() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Apply()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
