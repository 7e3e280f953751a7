package ingest

import (
	"strings"
	"testing"
)

const sampleCSV = `Title,Author,My Rating,Date Read,Bookshelves,Exclusive Shelf
Beloved,Toni Morrison,5,2026/08/20,classics,read
Kindred,Octavia Butler,4,2026/07/01,"sci-fi, time-travel",read
"The Left Hand of Darkness",Ursula K. Le Guin,0,,sci-fi,to-read
`

func TestParseCSV(t *testing.T) {
	result, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV() error: %v", err)
	}

	if len(result.Books) != 3 {
		t.Fatalf("got %d books, want 3", len(result.Books))
	}
	if result.Dropped != 0 {
		t.Errorf("dropped = %d, want 0", result.Dropped)
	}

	b := result.Books[0]
	if b.Title != "Beloved" || b.Author != "Toni Morrison" {
		t.Errorf("unexpected first record: %+v", b)
	}
	if b.Rating != "5" || b.DateRead != "2026/08/20" {
		t.Errorf("optional columns not mapped: %+v", b)
	}

	if got := result.Books[1].Bookshelves; got != "sci-fi, time-travel" {
		t.Errorf("quoted field = %q", got)
	}
	if got := result.Books[2].ExclusiveShelf; got != "to-read" {
		t.Errorf("exclusive shelf = %q", got)
	}
}

func TestParseCSV_StableIDs(t *testing.T) {
	first, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV() error: %v", err)
	}
	second, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV() error: %v", err)
	}

	for i := range first.Books {
		if first.Books[i].ID != second.Books[i].ID {
			t.Errorf("record %d ID unstable: %q vs %q", i, first.Books[i].ID, second.Books[i].ID)
		}
	}

	seen := map[string]bool{}
	for _, b := range first.Books {
		if seen[b.ID] {
			t.Errorf("duplicate ID %q", b.ID)
		}
		seen[b.ID] = true
	}
}

func TestParseCSV_DropsIncompleteRows(t *testing.T) {
	csv := "Title,Author\nBeloved,Toni Morrison\n,Anonymous\nUntitled,\n"
	result, err := ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseCSV() error: %v", err)
	}

	if len(result.Books) != 1 {
		t.Errorf("got %d books, want 1", len(result.Books))
	}
	if result.Dropped != 2 {
		t.Errorf("dropped = %d, want 2", result.Dropped)
	}
}

func TestParseCSV_HeaderAliases(t *testing.T) {
	csv := "Book Title,Primary Author,Stars\nDune,Frank Herbert,5\n"
	result, err := ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseCSV() error: %v", err)
	}

	if len(result.Books) != 1 || result.Books[0].Rating != "5" {
		t.Errorf("alias mapping failed: %+v", result.Books)
	}
}

func TestParseCSV_MissingRequiredColumns(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"no header", ""},
		{"no title column", "Author,My Rating\nToni Morrison,5\n"},
		{"no author column", "Title,My Rating\nBeloved,5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCSV(strings.NewReader(tt.csv)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
