// Package main provides the reading-graph CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SamhitaKotian/reading-graph/internal/config"
	"github.com/SamhitaKotian/reading-graph/internal/store"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// verbose enables debug-level logging
var verbose bool

func main() {
	// A .env file can carry READINGGRAPH_* overrides; absence is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reading-graph",
	Short: "Theme-similarity graph for your reading history",
	Long: `reading-graph turns a reading-history CSV export into an interactive
theme-similarity graph.

Core features:
  - Import Goodreads-style CSV exports
  - Enrich books with literary themes via a local Ollama model
  - Build a force-directed graph linking books that share themes
  - Serve a live page with click-to-highlight selection
  - Bookmark quotes surfaced during analysis

Data lives in a local SQLite store under .readinggraph/.
All commands output JSON by default; pass --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Version = Version
}

// newLogger builds the process logger. Logs go to stderr so stdout stays
// parseable.
func newLogger() *zap.Logger {
	if verbose {
		log, err := zap.NewDevelopment()
		if err == nil {
			return log
		}
	}
	return zap.NewNop()
}

// mustFindRepository finds and validates the repository, exits on error.
// Returns the repository root path.
func mustFindRepository() string {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	repoRoot, err := config.FindRepository(cwd)
	if err != nil {
		exitWithError(ExitConfigError, "no reading-graph repository found\n\nRun 'reading-graph init' to create one.")
	}
	return repoRoot
}

// mustOpenStore opens the SQLite store, exits on error.
// The caller is responsible for calling Close() on the returned store.
func mustOpenStore(repoRoot string) *store.Store {
	st, err := store.Open(config.DBPath(repoRoot))
	if err != nil {
		exitWithError(ExitError, "opening store: %v", err)
	}
	return st
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}
