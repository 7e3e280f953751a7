package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SamhitaKotian/reading-graph/internal/book"
	"github.com/SamhitaKotian/reading-graph/internal/ingest"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <csv-file>",
	Short: "Import a reading-history CSV export",
	Long: `Import a reading-history CSV export into the repository.

The import replaces the stored book list. Books already enriched with themes
keep them when the same book reappears in the export, so re-importing after
a fresh Goodreads download never loses analysis work.

Rows without a title or author are dropped silently.

Examples:
  reading-graph import goodreads_library_export.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// ImportResponse summarizes an import.
type ImportResponse struct {
	Status   string `json:"status"`
	Imported int    `json:"imported"`
	Dropped  int    `json:"dropped"`
	Retained int    `json:"themes_retained"`
}

func runImport(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	st := mustOpenStore(repoRoot)
	defer st.Close()

	f, err := os.Open(args[0])
	if err != nil {
		exitWithError(ExitError, "opening csv: %v", err)
	}
	defer f.Close()

	result, err := ingest.ParseCSV(f)
	if err != nil {
		exitWithError(ExitDataError, "parsing csv: %v", err)
	}

	existing, err := st.LoadBooks()
	if err != nil {
		exitWithError(ExitError, "loading stored books: %v", err)
	}

	retained := carryOverThemes(result.Books, existing)

	if err := st.SaveBooks(result.Books); err != nil {
		exitWithError(ExitError, "saving books: %v", err)
	}

	if humanOutput {
		outputHuman("Imported %d books (%d rows dropped, %d kept their themes)\n",
			len(result.Books), result.Dropped, retained)
		return nil
	}
	return outputJSON(ImportResponse{
		Status:   "imported",
		Imported: len(result.Books),
		Dropped:  result.Dropped,
		Retained: retained,
	})
}

// carryOverThemes copies themes from the previously stored list onto
// re-imported books that arrive without any. Returns how many books kept
// their themes.
func carryOverThemes(imported, existing []book.Record) int {
	if len(existing) == 0 {
		return 0
	}

	// Match by title and author rather than ID: IDs are positional, and
	// export row order changes between downloads.
	key := func(b *book.Record) string {
		return strings.ToLower(b.Title) + "\x1f" + strings.ToLower(b.Author)
	}

	prev := make(map[string]*book.Record, len(existing))
	for i := range existing {
		prev[key(&existing[i])] = &existing[i]
	}

	retained := 0
	for i := range imported {
		if len(imported[i].Themes) > 0 {
			continue
		}
		if old, ok := prev[key(&imported[i])]; ok && len(old.Themes) > 0 {
			imported[i].Themes = old.Themes
			imported[i].Quotes = old.Quotes
			retained++
		}
	}
	return retained
}
