package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var listEnrichedOnly bool

func init() {
	listCmd.Flags().BoolVar(&listEnrichedOnly, "enriched", false, "Only show books that have themes")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored books",
	RunE:  runList,
}

// ListEntry is one book in list output.
type ListEntry struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Rating   string   `json:"rating,omitempty"`
	DateRead string   `json:"date_read,omitempty"`
	Themes   []string `json:"themes,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	st := mustOpenStore(repoRoot)
	defer st.Close()

	books, err := st.LoadBooks()
	if err != nil {
		exitWithError(ExitError, "loading books: %v", err)
	}

	entries := make([]ListEntry, 0, len(books))
	for i := range books {
		b := &books[i]
		if listEnrichedOnly && len(b.Themes) == 0 {
			continue
		}
		entries = append(entries, ListEntry{
			ID:       b.ID,
			Title:    b.Title,
			Author:   b.Author,
			Rating:   b.Rating,
			DateRead: b.DateRead,
			Themes:   b.ThemeNames(),
		})
	}

	if humanOutput {
		if len(entries) == 0 {
			outputHuman("No books.\n")
			return nil
		}
		for _, e := range entries {
			outputHuman("%s  %s by %s\n", e.ID, truncateString(e.Title, ListTitleMaxLen), e.Author)
			if len(e.Themes) > 0 {
				outputHuman("  themes: %s\n", strings.Join(e.Themes, ", "))
			}
		}
		return nil
	}
	return outputJSON(entries)
}
