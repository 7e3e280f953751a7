// Package enrich provides theme analysis for books via a local LLM.
package enrich

import "context"

// Analysis is the result of analyzing one book.
type Analysis struct {
	Themes []AnalyzedTheme `json:"themes"`
}

// AnalyzedTheme is one literary theme with representative quotes.
type AnalyzedTheme struct {
	Theme  string   `json:"theme"`
	Quotes []string `json:"quotes"`
}

// Analyzer produces theme annotations for a book. Implementations may be
// slow or fail; callers treat any failure identically and fall back to an
// empty theme set.
type Analyzer interface {
	// Analyze returns up to 5 themes with up to 3 quotes each.
	Analyze(ctx context.Context, title, author string) (Analysis, error)
}
