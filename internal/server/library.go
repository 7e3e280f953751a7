package server

import (
	"sync"

	"go.uber.org/zap"

	"github.com/SamhitaKotian/reading-graph/internal/book"
	"github.com/SamhitaKotian/reading-graph/internal/enrich"
	"github.com/SamhitaKotian/reading-graph/internal/store"
)

// Library owns the session's book list, backed by the durable store. It
// implements selection.Library: enrichment merges write through to disk.
type Library struct {
	mu    sync.RWMutex
	books []book.Record
	store *store.Store
	log   *zap.Logger
}

// NewLibrary loads the stored book list.
func NewLibrary(s *store.Store, log *zap.Logger) (*Library, error) {
	if log == nil {
		log = zap.NewNop()
	}

	books, err := s.LoadBooks()
	if err != nil {
		return nil, err
	}
	return &Library{books: books, store: s, log: log}, nil
}

// Books returns a snapshot of the current book list.
func (l *Library) Books() []book.Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]book.Record, len(l.books))
	copy(out, l.books)
	return out
}

// MergeAnalysis merges an enrichment result into the book list and persists
// it. Persistence failures are logged, not surfaced: the in-memory merge
// already happened and the session keeps working.
func (l *Library) MergeAnalysis(id, title, author string, a enrich.Analysis) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !enrich.Merge(l.books, id, title, author, a) {
		return false
	}

	if err := l.store.SaveBooks(l.books); err != nil {
		l.log.Warn("persisting enriched book list", zap.Error(err))
	}
	return true
}
