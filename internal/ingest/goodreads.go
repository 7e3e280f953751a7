// Package ingest imports book records from exported library files.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/SamhitaKotian/reading-graph/internal/book"
)

// Column header aliases, lowercased. Goodreads uses "Title", "Author",
// "My Rating", "Date Read", "Bookshelves" and "Exclusive Shelf"; other
// export tools vary.
var (
	titleHeaders     = []string{"title", "book title"}
	authorHeaders    = []string{"author", "author l-f", "primary author"}
	ratingHeaders    = []string{"my rating", "rating", "stars"}
	dateReadHeaders  = []string{"date read", "read at", "date finished"}
	shelvesHeaders   = []string{"bookshelves", "shelves", "genres"}
	exclusiveHeaders = []string{"exclusive shelf", "shelf", "status"}
)

// Result carries the outcome of a CSV import. Rows missing a title or an
// author are dropped, not reported as errors.
type Result struct {
	Books   []book.Record
	Dropped int
}

// columnMap resolves header names to column indexes.
type columnMap struct {
	title     int
	author    int
	rating    int
	dateRead  int
	shelves   int
	exclusive int
}

// ParseCSV reads a library export. The header row is required and must
// contain columns mappable to title and author; all other columns are
// optional. Record IDs are derived from row position plus title and author,
// so re-importing the same file yields identical IDs.
func ParseCSV(r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // Exports often have ragged trailing columns.

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for row := 0; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", row+1, err)
		}

		title := field(record, cols.title)
		author := field(record, cols.author)
		if title == "" || author == "" {
			result.Dropped++
			continue
		}

		result.Books = append(result.Books, book.Record{
			ID:             book.DeriveID(row, title, author),
			Title:          title,
			Author:         author,
			Rating:         field(record, cols.rating),
			DateRead:       field(record, cols.dateRead),
			Bookshelves:    field(record, cols.shelves),
			ExclusiveShelf: field(record, cols.exclusive),
		})
	}

	return result, nil
}

// mapColumns resolves the header row to column indexes. Title and author are
// required; everything else maps to -1 when absent.
func mapColumns(header []string) (columnMap, error) {
	cols := columnMap{
		title:     findColumn(header, titleHeaders),
		author:    findColumn(header, authorHeaders),
		rating:    findColumn(header, ratingHeaders),
		dateRead:  findColumn(header, dateReadHeaders),
		shelves:   findColumn(header, shelvesHeaders),
		exclusive: findColumn(header, exclusiveHeaders),
	}

	if cols.title < 0 {
		return cols, fmt.Errorf("no title column found in header %v", header)
	}
	if cols.author < 0 {
		return cols, fmt.Errorf("no author column found in header %v", header)
	}
	return cols, nil
}

// findColumn returns the index of the first header matching any alias, or -1.
func findColumn(header []string, aliases []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, a := range aliases {
			if h == a {
				return i
			}
		}
	}
	return -1
}

// field safely extracts a trimmed column value from a possibly short row.
func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
