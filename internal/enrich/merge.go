package enrich

import "github.com/SamhitaKotian/reading-graph/internal/book"

// Themes converts an analysis into domain theme values.
func Themes(a Analysis) []book.Theme {
	if len(a.Themes) == 0 {
		return nil
	}
	themes := make([]book.Theme, 0, len(a.Themes))
	for _, t := range a.Themes {
		themes = append(themes, book.Theme{Name: t.Theme, Quotes: t.Quotes})
	}
	return themes
}

// Merge writes an analysis into the matching record of the book list,
// locating it by ID first and by (title, author) as a fallback. It returns
// false when no record matches; the result is then discarded silently.
func Merge(books []book.Record, id, title, author string, a Analysis) bool {
	i := book.FindByID(books, id)
	if i < 0 {
		i = book.FindByTitleAuthor(books, title, author)
	}
	if i < 0 {
		return false
	}

	books[i].SetThemes(Themes(a))
	return true
}
