package enrich

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/SamhitaKotian/reading-graph/internal/book"
)

// maxBulkConcurrency limits parallel analysis calls during bulk enrichment.
const maxBulkConcurrency = 4

// BulkEnricher annotates many books in one pass, pacing calls with a rate
// limiter so a local model or remote quota is not hammered.
type BulkEnricher struct {
	analyzer Analyzer
	limiter  *rate.Limiter
	log      *zap.Logger
}

// NewBulkEnricher creates a bulk enricher. callsPerSecond bounds the
// steady-state analysis rate.
func NewBulkEnricher(analyzer Analyzer, callsPerSecond float64, log *zap.Logger) *BulkEnricher {
	if log == nil {
		log = zap.NewNop()
	}
	return &BulkEnricher{
		analyzer: analyzer,
		limiter:  rate.NewLimiter(rate.Limit(callsPerSecond), 1),
		log:      log,
	}
}

// BulkResult summarizes one bulk enrichment pass.
type BulkResult struct {
	Enriched int `json:"enriched"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// EnrichAll analyzes every book in the list that has no themes yet (all of
// them when force is set), writing results into the slice in place. Each
// goroutine owns its own index, so no locking is needed. Individual
// failures are logged and counted, never fatal; only context cancellation
// aborts the pass.
func (e *BulkEnricher) EnrichAll(ctx context.Context, books []book.Record, force bool) (BulkResult, error) {
	var result BulkResult

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxBulkConcurrency)

	outcomes := make([]int, len(books)) // 0 skipped, 1 enriched, 2 failed
	const (
		outcomeSkipped = iota
		outcomeEnriched
		outcomeFailed
	)

	for i := range books {
		if len(books[i].Themes) > 0 && !force {
			continue
		}

		g.Go(func() error {
			if err := e.limiter.Wait(ctx); err != nil {
				return err
			}

			a, err := e.analyzer.Analyze(ctx, books[i].Title, books[i].Author)
			if err != nil {
				e.log.Warn("analysis failed",
					zap.String("book_id", books[i].ID),
					zap.String("title", books[i].Title),
					zap.Error(err))
				outcomes[i] = outcomeFailed
				return nil
			}

			books[i].SetThemes(Themes(a))
			outcomes[i] = outcomeEnriched
			return nil
		})
	}

	err := g.Wait()

	for i := range books {
		switch outcomes[i] {
		case outcomeEnriched:
			result.Enriched++
		case outcomeFailed:
			result.Failed++
		default:
			result.Skipped++
		}
	}

	return result, err
}
