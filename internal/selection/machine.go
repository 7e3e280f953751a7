// Package selection owns the node-selection and highlight state machine.
package selection

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/SamhitaKotian/reading-graph/internal/book"
	"github.com/SamhitaKotian/reading-graph/internal/enrich"
	"github.com/SamhitaKotian/reading-graph/internal/graph"
)

// Phase is the machine's current state.
type Phase string

const (
	PhaseIdle      Phase = "idle"      // no selection
	PhaseSelecting Phase = "selecting" // node highlighted, enrichment in flight
	PhaseSelected  Phase = "selected"  // related set computed
)

// Library is the external owner of the shared book list. MergeAnalysis
// merges an enrichment result (locating the record by id, then by title and
// author) and persists the updated list; it reports whether a record
// matched.
type Library interface {
	Books() []book.Record
	MergeAnalysis(id, title, author string, a enrich.Analysis) bool
}

// State is an observable snapshot of the machine.
type State struct {
	Phase              Phase    `json:"phase"`
	SelectedNodeID     string   `json:"selectedNodeId,omitempty"`
	RelatedNodeIDs     []string `json:"relatedNodeIds,omitempty"`
	EnrichmentInFlight bool     `json:"enrichmentInFlight"`
}

// GraphSelection converts the snapshot into the builder's input form.
func (s State) GraphSelection() graph.Selection {
	sel := graph.Selection{SelectedID: s.SelectedNodeID}
	if len(s.RelatedNodeIDs) > 0 {
		sel.Related = make(map[string]bool, len(s.RelatedNodeIDs))
		for _, id := range s.RelatedNodeIDs {
			sel.Related[id] = true
		}
	}
	return sel
}

// Machine tracks which node is selected, lazily enriches clicked books that
// have no themes yet, and derives the related-node set. All transitions are
// serialized under one mutex; the only asynchronous step is the enrichment
// call, which never blocks the optimistic highlight.
type Machine struct {
	mu         sync.Mutex
	phase      Phase
	selectedID string
	related    map[string]bool
	inFlight   bool

	// generation increments on every new selection so in-flight enrichment
	// results from superseded clicks merge their data without overwriting
	// the newer selection.
	generation uint64

	library  Library
	analyzer enrich.Analyzer
	bus      Bus
	log      *zap.Logger

	wg sync.WaitGroup
}

// NewMachine creates a selection machine. analyzer may be nil, in which case
// clicked books without themes simply stay themeless.
func NewMachine(library Library, analyzer enrich.Analyzer, bus Bus, log *zap.Logger) *Machine {
	if bus == nil {
		bus = NopBus{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Machine{
		phase:    PhaseIdle,
		library:  library,
		analyzer: analyzer,
		bus:      bus,
		log:      log,
	}
}

// Click handles a user click on the node with the given ID. Clicking the
// currently selected node resets; any other click supersedes the previous
// selection immediately, even if its enrichment is still in flight.
func (m *Machine) Click(ctx context.Context, nodeID string) State {
	m.mu.Lock()

	if nodeID == "" || m.selectedID == nodeID {
		m.resetLocked()
		return m.snapshotLocked(true)
	}

	m.generation++
	gen := m.generation
	m.selectedID = nodeID
	m.related = map[string]bool{nodeID: true}
	m.inFlight = false

	books := m.library.Books()
	idx := book.FindByID(books, nodeID)

	// Unknown or already-enriched books complete synchronously.
	if idx < 0 || len(books[idx].Themes) > 0 || m.analyzer == nil {
		if idx >= 0 {
			m.related = relatedSet(books, idx)
		}
		m.phase = PhaseSelected
		m.publishLocked(Event{Type: EventNodeSelected, NodeID: nodeID})
		m.publishLocked(Event{Type: EventSelectionCompleted, NodeID: nodeID, Related: m.relatedLocked()})
		return m.snapshotLocked(true)
	}

	// Lazy enrichment: highlight now, finish the selection when the
	// analysis resolves.
	m.phase = PhaseSelecting
	m.inFlight = true
	m.publishLocked(Event{Type: EventNodeSelected, NodeID: nodeID})
	snap := m.snapshotLocked(false)

	rec := books[idx]
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.completeSelection(ctx, gen, rec)
	}()

	m.mu.Unlock()
	return snap
}

// completeSelection runs the enrichment call and finishes the selection it
// belongs to, unless a newer click superseded it in the meantime.
func (m *Machine) completeSelection(ctx context.Context, gen uint64, rec book.Record) {
	a, err := m.analyzer.Analyze(ctx, rec.Title, rec.Author)
	if err != nil {
		// Soft-fail: the selection still completes with whatever theme
		// data exists (possibly none).
		m.log.Warn("enrichment failed",
			zap.String("book_id", rec.ID),
			zap.String("title", rec.Title),
			zap.Error(err))
	} else if m.library.MergeAnalysis(rec.ID, rec.Title, rec.Author, a) {
		// Late results from superseded selections still land here: the
		// merge is keyed by book id and cannot conflict structurally.
		m.bus.Publish(Event{Type: EventBooksUpdated, NodeID: rec.ID})
	} else {
		m.log.Warn("enrichment result discarded: no matching record",
			zap.String("book_id", rec.ID),
			zap.String("title", rec.Title))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generation != gen {
		return // Superseded; the newer selection owns the state now.
	}

	books := m.library.Books()
	if idx := book.FindByID(books, rec.ID); idx >= 0 {
		m.related = relatedSet(books, idx)
	}
	m.phase = PhaseSelected
	m.inFlight = false
	m.publishLocked(Event{Type: EventSelectionCompleted, NodeID: rec.ID, Related: m.relatedLocked()})
}

// Reset clears the selection and notifies the renderer to restore the
// default framing.
func (m *Machine) Reset() State {
	m.mu.Lock()
	m.resetLocked()
	return m.snapshotLocked(true)
}

// resetLocked clears selection fields atomically under the held lock.
func (m *Machine) resetLocked() {
	m.generation++
	m.phase = PhaseIdle
	m.selectedID = ""
	m.related = nil
	m.inFlight = false
	m.publishLocked(Event{Type: EventSelectionCleared})
}

// Snapshot returns the current observable state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	return m.snapshotLocked(true)
}

// Wait blocks until in-flight enrichment goroutines finish. Used on
// teardown and in tests.
func (m *Machine) Wait() {
	m.wg.Wait()
}

// snapshotLocked builds a State and unlocks.
func (m *Machine) snapshotLocked(unlock bool) State {
	s := State{
		Phase:              m.phase,
		SelectedNodeID:     m.selectedID,
		RelatedNodeIDs:     m.relatedLocked(),
		EnrichmentInFlight: m.inFlight,
	}
	if unlock {
		m.mu.Unlock()
	}
	return s
}

// relatedLocked returns the related set as a sorted slice.
func (m *Machine) relatedLocked() []string {
	if len(m.related) == 0 {
		return nil
	}
	ids := make([]string, 0, len(m.related))
	for id, ok := range m.related {
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// publishLocked publishes while holding the lock. Buses must not call back
// into the machine.
func (m *Machine) publishLocked(ev Event) {
	m.bus.Publish(ev)
}

// relatedSet computes {self} plus every book sharing at least one theme
// with books[idx].
func relatedSet(books []book.Record, idx int) map[string]bool {
	related := map[string]bool{books[idx].ID: true}
	for j := range books {
		if j == idx {
			continue
		}
		if len(books[idx].SharedThemes(&books[j])) > 0 {
			related[books[j].ID] = true
		}
	}
	return related
}
