package main

import (
	"github.com/spf13/cobra"

	"github.com/SamhitaKotian/reading-graph/internal/config"
	"github.com/SamhitaKotian/reading-graph/internal/enrich"
)

var (
	enrichLimit int
	enrichForce bool
)

func init() {
	enrichCmd.Flags().IntVar(&enrichLimit, "limit", 0, "Enrich at most this many books (0 = no limit)")
	enrichCmd.Flags().BoolVar(&enrichForce, "force", false, "Re-analyze books that already have themes")
	rootCmd.AddCommand(enrichCmd)
}

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Analyze books for literary themes via Ollama",
	Long: `Analyze stored books for literary themes using a local Ollama model.

Books that already have themes are skipped unless --force is set. Individual
analysis failures are counted and reported, never fatal.

Examples:
  reading-graph enrich
  reading-graph enrich --limit 10
  reading-graph enrich --force`,
	RunE: runEnrich,
}

// EnrichResponse wraps a bulk enrichment summary.
type EnrichResponse struct {
	Status string            `json:"status"`
	Model  string            `json:"model"`
	Result enrich.BulkResult `json:"result"`
}

func runEnrich(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	st := mustOpenStore(repoRoot)
	defer st.Close()

	ctx := cmd.Context()
	analyzer := newAnalyzer(cfg)
	if err := analyzer.IsAvailable(ctx); err != nil {
		exitWithError(ExitOllamaError, "Ollama not available: %v\n\nStart it with 'ollama serve'.", err)
	}

	books, err := st.LoadBooks()
	if err != nil {
		exitWithError(ExitError, "loading books: %v", err)
	}
	if len(books) == 0 {
		exitWithError(ExitDataError, "no books stored; run 'reading-graph import' first")
	}

	// --limit truncates the pass after the Nth analyzable book; the rest of
	// the list is left untouched for a later run.
	target := books
	if enrichLimit > 0 {
		eligible := 0
		for i := range books {
			if len(books[i].Themes) == 0 || enrichForce {
				eligible++
				if eligible == enrichLimit {
					target = books[:i+1]
					break
				}
			}
		}
	}

	bulk := enrich.NewBulkEnricher(analyzer, cfg.EnrichRate(), newLogger())
	result, err := bulk.EnrichAll(ctx, target, enrichForce)
	if err != nil {
		exitWithError(ExitError, "enrichment aborted: %v", err)
	}

	if err := st.SaveBooks(books); err != nil {
		exitWithError(ExitError, "saving books: %v", err)
	}

	if humanOutput {
		outputHuman("Enriched %d books (%d skipped, %d failed) using %s\n",
			result.Enriched, result.Skipped, result.Failed, analyzer.ModelName())
		return nil
	}
	return outputJSON(EnrichResponse{Status: "enriched", Model: analyzer.ModelName(), Result: result})
}

// newAnalyzer builds the Ollama analyzer from config, keeping library
// defaults for unset fields.
func newAnalyzer(cfg *config.Config) *enrich.OllamaAnalyzer {
	var opts []enrich.OllamaOption
	if cfg.OllamaURL != "" {
		opts = append(opts, enrich.WithBaseURL(cfg.OllamaURL))
	}
	if cfg.OllamaModel != "" {
		opts = append(opts, enrich.WithModel(cfg.OllamaModel))
	}
	return enrich.NewOllamaAnalyzer(opts...)
}
