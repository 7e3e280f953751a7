package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SamhitaKotian/reading-graph/internal/book"
)

func TestParseAnalysisResponse(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		wantThemes int
		wantErr    bool
	}{
		{
			name:       "plain JSON",
			response:   `{"themes":[{"theme":"Memory","quotes":["q1"]}]}`,
			wantThemes: 1,
		},
		{
			name:       "markdown code block",
			response:   "```json\n{\"themes\":[{\"theme\":\"Memory\",\"quotes\":[]}]}\n```",
			wantThemes: 1,
		},
		{
			name:       "empty themes",
			response:   `{"themes":[]}`,
			wantThemes: 0,
		},
		{
			name:     "not JSON",
			response: "I don't know this book.",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := parseAnalysisResponse(tt.response)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && len(a.Themes) != tt.wantThemes {
				t.Errorf("got %d themes, want %d", len(a.Themes), tt.wantThemes)
			}
		})
	}
}

func TestParseAnalysisResponse_ClampsContract(t *testing.T) {
	response := `{"themes":[
		{"theme":"T1","quotes":["a","b","c","d","e"]},
		{"theme":"T2"},{"theme":"T3"},{"theme":"T4"},{"theme":"T5"},{"theme":"T6"}
	]}`

	a, err := parseAnalysisResponse(response)
	if err != nil {
		t.Fatalf("parseAnalysisResponse() error: %v", err)
	}
	if len(a.Themes) != 5 {
		t.Errorf("themes = %d, want 5", len(a.Themes))
	}
	if len(a.Themes[0].Quotes) != 3 {
		t.Errorf("quotes = %d, want 3", len(a.Themes[0].Quotes))
	}
}

func TestOllamaAnalyzer_Analyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != apiPathGenerate {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req ollamaGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q", req.Model)
		}

		json.NewEncoder(w).Encode(ollamaGenerateResponse{
			Response: `{"themes":[{"theme":"Memory","quotes":["It was not a story to pass on."]}]}`,
		})
	}))
	defer srv.Close()

	a := NewOllamaAnalyzer(WithBaseURL(srv.URL), WithModel("test-model"))
	analysis, err := a.Analyze(context.Background(), "Beloved", "Toni Morrison")
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if len(analysis.Themes) != 1 || analysis.Themes[0].Theme != "Memory" {
		t.Errorf("Analyze() = %+v", analysis)
	}
}

func TestOllamaAnalyzer_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := NewOllamaAnalyzer(WithBaseURL(srv.URL))
	if _, err := a.Analyze(context.Background(), "Beloved", "Toni Morrison"); err == nil {
		t.Error("expected error on HTTP 429")
	}
}

func TestMerge(t *testing.T) {
	analysis := Analysis{Themes: []AnalyzedTheme{{Theme: "Memory", Quotes: []string{"q"}}}}

	t.Run("by id", func(t *testing.T) {
		books := []book.Record{{ID: "book-1", Title: "Beloved", Author: "Toni Morrison"}}
		if !Merge(books, "book-1", "", "", analysis) {
			t.Fatal("Merge() = false")
		}
		if len(books[0].Themes) != 1 || books[0].Quotes[0] != "q" {
			t.Errorf("merge result: %+v", books[0])
		}
	})

	t.Run("fallback to title and author", func(t *testing.T) {
		books := []book.Record{{ID: "book-1", Title: "Beloved", Author: "Toni Morrison"}}
		if !Merge(books, "stale-id", "Beloved", "Toni Morrison", analysis) {
			t.Fatal("Merge() = false")
		}
		if len(books[0].Themes) != 1 {
			t.Errorf("merge result: %+v", books[0])
		}
	})

	t.Run("no match discards silently", func(t *testing.T) {
		books := []book.Record{{ID: "book-1", Title: "Beloved", Author: "Toni Morrison"}}
		if Merge(books, "nope", "Dune", "Frank Herbert", analysis) {
			t.Error("Merge() = true for unmatched record")
		}
		if len(books[0].Themes) != 0 {
			t.Errorf("unmatched merge touched a record: %+v", books[0])
		}
	})
}

// fakeAnalyzer returns canned results per title.
type fakeAnalyzer struct {
	results map[string]Analysis
	err     error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, title, _ string) (Analysis, error) {
	if f.err != nil {
		return Analysis{}, f.err
	}
	return f.results[title], nil
}

func TestBulkEnricher(t *testing.T) {
	books := []book.Record{
		{ID: "a", Title: "Beloved"},
		{ID: "b", Title: "Kindred", Themes: []book.Theme{{Name: "Existing"}}},
		{ID: "c", Title: "Dune"},
	}

	analyzer := &fakeAnalyzer{results: map[string]Analysis{
		"Beloved": {Themes: []AnalyzedTheme{{Theme: "Memory"}}},
		"Dune":    {Themes: []AnalyzedTheme{{Theme: "Power"}}},
	}}

	e := NewBulkEnricher(analyzer, 1000, nil)
	result, err := e.EnrichAll(context.Background(), books, false)
	if err != nil {
		t.Fatalf("EnrichAll() error: %v", err)
	}

	if result.Enriched != 2 || result.Skipped != 1 || result.Failed != 0 {
		t.Errorf("result = %+v", result)
	}
	if books[0].Themes[0].Name != "Memory" {
		t.Errorf("book a not enriched: %+v", books[0])
	}
	if books[1].Themes[0].Name != "Existing" {
		t.Errorf("already-enriched book touched: %+v", books[1])
	}
}

func TestBulkEnricher_FailuresAreCounted(t *testing.T) {
	books := []book.Record{{ID: "a", Title: "Beloved"}}
	e := NewBulkEnricher(&fakeAnalyzer{err: errors.New("boom")}, 1000, nil)

	result, err := e.EnrichAll(context.Background(), books, false)
	if err != nil {
		t.Fatalf("analysis failures must not abort the pass: %v", err)
	}
	if result.Failed != 1 || result.Enriched != 0 {
		t.Errorf("result = %+v", result)
	}
	if len(books[0].Themes) != 0 {
		t.Errorf("failed analysis wrote themes: %+v", books[0])
	}
}
