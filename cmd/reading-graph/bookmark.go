package main

import (
	"github.com/spf13/cobra"

	"github.com/SamhitaKotian/reading-graph/internal/bookmark"
)

var (
	bookmarkQuote  string
	bookmarkTheme  string
	bookmarkTitle  string
	bookmarkAuthor string
)

func init() {
	for _, cmd := range []*cobra.Command{bookmarkAddCmd, bookmarkToggleCmd} {
		cmd.Flags().StringVar(&bookmarkQuote, "quote", "", "Quote text (required)")
		cmd.Flags().StringVar(&bookmarkTheme, "theme", "", "Theme the quote illustrates")
		cmd.Flags().StringVar(&bookmarkTitle, "title", "", "Book title (required)")
		cmd.Flags().StringVar(&bookmarkAuthor, "author", "", "Book author")
		cmd.MarkFlagRequired("quote")
		cmd.MarkFlagRequired("title")
	}

	bookmarkCmd.AddCommand(bookmarkAddCmd)
	bookmarkCmd.AddCommand(bookmarkToggleCmd)
	bookmarkCmd.AddCommand(bookmarkListCmd)
	rootCmd.AddCommand(bookmarkCmd)
}

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark",
	Short: "Manage bookmarked quotes",
}

var bookmarkAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a bookmarked quote",
	Long: `Add a bookmarked quote.

Unlike toggle, adding a bookmark that already exists is an error.`,
	RunE: runBookmarkAdd,
}

var bookmarkToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Add a bookmarked quote, or remove it if it exists",
	Long: `Toggle a bookmarked quote.

A bookmark's identity is the combination of book title, author, quote text
and theme. Toggling an identical bookmark removes it.

Examples:
  reading-graph bookmark toggle --title "Beloved" --author "Toni Morrison" \
      --theme memory --quote "It was not a story to pass on."`,
	RunE: runBookmarkToggle,
}

var bookmarkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarked quotes",
	RunE:  runBookmarkList,
}

// BookmarkToggleResponse reports the post-toggle state.
type BookmarkToggleResponse struct {
	Status     string `json:"status"`
	Bookmarked bool   `json:"bookmarked"`
}

// flagBookmark assembles and validates a bookmark from the shared flags,
// exiting on invalid input.
func flagBookmark() bookmark.Bookmark {
	b := bookmark.Bookmark{
		Quote:      bookmarkQuote,
		Theme:      bookmarkTheme,
		BookTitle:  bookmarkTitle,
		BookAuthor: bookmarkAuthor,
	}
	if err := b.ValidateForCreate(); err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	b.SetDateAdded()
	return b
}

func runBookmarkAdd(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	st := mustOpenStore(repoRoot)
	defer st.Close()

	b := flagBookmark()

	list, err := st.LoadBookmarks()
	if err != nil {
		exitWithError(ExitError, "loading bookmarks: %v", err)
	}
	for i := range list {
		if list[i].Key() == b.Key() {
			exitWithError(ExitDataError, "bookmark already exists for %q", b.BookTitle)
		}
	}

	if err := st.SaveBookmarks(append(list, b)); err != nil {
		exitWithError(ExitError, "saving bookmarks: %v", err)
	}

	if humanOutput {
		outputHuman("Bookmarked quote from %q\n", b.BookTitle)
		return nil
	}
	return outputJSON(BookmarkToggleResponse{Status: "added", Bookmarked: true})
}

func runBookmarkToggle(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	st := mustOpenStore(repoRoot)
	defer st.Close()

	b := flagBookmark()
	added, err := st.ToggleBookmark(b)
	if err != nil {
		exitWithError(ExitError, "toggling bookmark: %v", err)
	}

	if humanOutput {
		if added {
			outputHuman("Bookmarked quote from %q\n", b.BookTitle)
		} else {
			outputHuman("Removed bookmark from %q\n", b.BookTitle)
		}
		return nil
	}
	return outputJSON(BookmarkToggleResponse{Status: "toggled", Bookmarked: added})
}

func runBookmarkList(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	st := mustOpenStore(repoRoot)
	defer st.Close()

	list, err := st.LoadBookmarks()
	if err != nil {
		exitWithError(ExitError, "loading bookmarks: %v", err)
	}

	if humanOutput {
		if len(list) == 0 {
			outputHuman("No bookmarks.\n")
			return nil
		}
		for _, b := range list {
			outputHuman("%s by %s\n", truncateString(b.BookTitle, ListTitleMaxLen), b.BookAuthor)
			if b.Theme != "" {
				outputHuman("  [%s]\n", b.Theme)
			}
			outputHuman("  %q\n\n", b.Quote)
		}
		return nil
	}

	if list == nil {
		list = []bookmark.Bookmark{}
	}
	return outputJSON(list)
}
