package selection

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/SamhitaKotian/reading-graph/internal/book"
	"github.com/SamhitaKotian/reading-graph/internal/enrich"
)

// memLibrary is an in-memory Library.
type memLibrary struct {
	mu    sync.Mutex
	books []book.Record
	saves int
}

func (l *memLibrary) Books() []book.Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]book.Record, len(l.books))
	copy(out, l.books)
	return out
}

func (l *memLibrary) MergeAnalysis(id, title, author string, a enrich.Analysis) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !enrich.Merge(l.books, id, title, author, a) {
		return false
	}
	l.saves++
	return true
}

// recordingBus collects published events.
type recordingBus struct {
	mu     sync.Mutex
	events []Event
}

func (b *recordingBus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
}

func (b *recordingBus) types() []EventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]EventType, len(b.events))
	for i, ev := range b.events {
		out[i] = ev.Type
	}
	return out
}

// gateAnalyzer blocks each Analyze call until released.
type gateAnalyzer struct {
	gate    chan struct{}
	results map[string]enrich.Analysis
	err     error
}

func (g *gateAnalyzer) Analyze(_ context.Context, title, _ string) (enrich.Analysis, error) {
	if g.gate != nil {
		<-g.gate
	}
	if g.err != nil {
		return enrich.Analysis{}, g.err
	}
	return g.results[title], nil
}

func themedRecord(id, title string, themes ...string) book.Record {
	r := book.Record{ID: id, Title: title, Author: title + " Author"}
	for _, name := range themes {
		r.Themes = append(r.Themes, book.Theme{Name: name})
	}
	return r
}

func testLibrary() *memLibrary {
	return &memLibrary{books: []book.Record{
		themedRecord("a", "Book A", "X"),
		themedRecord("b", "Book B", "X", "Y"),
		themedRecord("c", "Book C", "Y"),
		themedRecord("d", "Book D"), // unenriched
	}}
}

func hasID(ids []string, want string) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}

func TestClick_EnrichedBookSelectsImmediately(t *testing.T) {
	lib := testLibrary()
	bus := &recordingBus{}
	m := NewMachine(lib, nil, bus, nil)

	state := m.Click(context.Background(), "a")

	if state.Phase != PhaseSelected {
		t.Errorf("phase = %q, want %q", state.Phase, PhaseSelected)
	}
	if state.SelectedNodeID != "a" {
		t.Errorf("selected = %q", state.SelectedNodeID)
	}
	// relatedNodeIds = {a} ∪ {books sharing a theme with a} = {a, b}.
	if len(state.RelatedNodeIDs) != 2 || !hasID(state.RelatedNodeIDs, "a") || !hasID(state.RelatedNodeIDs, "b") {
		t.Errorf("related = %v, want [a b]", state.RelatedNodeIDs)
	}

	types := bus.types()
	if len(types) != 2 || types[0] != EventNodeSelected || types[1] != EventSelectionCompleted {
		t.Errorf("events = %v", types)
	}
}

func TestClick_SelfAlwaysRelated(t *testing.T) {
	lib := testLibrary()
	m := NewMachine(lib, nil, nil, nil)

	for _, id := range []string{"a", "b", "c"} {
		state := m.Click(context.Background(), id)
		if !hasID(state.RelatedNodeIDs, id) {
			t.Errorf("selected %q missing from its own related set %v", id, state.RelatedNodeIDs)
		}
		m.Reset()
	}
}

func TestClick_LazyEnrichment(t *testing.T) {
	lib := testLibrary()
	bus := &recordingBus{}
	analyzer := &gateAnalyzer{results: map[string]enrich.Analysis{
		"Book D": {Themes: []enrich.AnalyzedTheme{{Theme: "Y", Quotes: []string{"q"}}}},
	}}
	m := NewMachine(lib, analyzer, bus, nil)

	state := m.Click(context.Background(), "d")

	// Optimistic highlight: selection is visible before enrichment lands.
	if state.Phase != PhaseSelecting || !state.EnrichmentInFlight {
		t.Errorf("optimistic state = %+v", state)
	}
	if state.SelectedNodeID != "d" {
		t.Errorf("selected = %q", state.SelectedNodeID)
	}

	m.Wait()
	final := m.Snapshot()

	if final.Phase != PhaseSelected || final.EnrichmentInFlight {
		t.Errorf("final state = %+v", final)
	}
	// d gained theme Y, so b and c become related.
	for _, want := range []string{"d", "b", "c"} {
		if !hasID(final.RelatedNodeIDs, want) {
			t.Errorf("related %v missing %q", final.RelatedNodeIDs, want)
		}
	}

	// The merge was persisted through the library.
	if lib.saves != 1 {
		t.Errorf("saves = %d, want 1", lib.saves)
	}
	books := lib.Books()
	if got := books[3].Themes; len(got) != 1 || got[0].Name != "Y" {
		t.Errorf("merged themes = %+v", got)
	}
}

func TestClick_EnrichmentFailureSoftFails(t *testing.T) {
	lib := testLibrary()
	m := NewMachine(lib, &gateAnalyzer{err: errors.New("rate limited")}, nil, nil)

	m.Click(context.Background(), "d")
	m.Wait()
	final := m.Snapshot()

	if final.Phase != PhaseSelected {
		t.Errorf("phase = %q, want %q", final.Phase, PhaseSelected)
	}
	if len(final.RelatedNodeIDs) != 1 || final.RelatedNodeIDs[0] != "d" {
		t.Errorf("related = %v, want [d]", final.RelatedNodeIDs)
	}
}

func TestClick_ReClickResets(t *testing.T) {
	lib := testLibrary()
	m := NewMachine(lib, nil, nil, nil)

	m.Click(context.Background(), "a")
	state := m.Click(context.Background(), "a")

	if state.Phase != PhaseIdle || state.SelectedNodeID != "" || len(state.RelatedNodeIDs) != 0 {
		t.Errorf("re-click state = %+v", state)
	}
}

func TestReset_RestoresInitialState(t *testing.T) {
	lib := testLibrary()
	bus := &recordingBus{}
	m := NewMachine(lib, nil, bus, nil)

	initial := m.Snapshot()
	m.Click(context.Background(), "b")
	after := m.Reset()

	if after.Phase != initial.Phase || after.SelectedNodeID != initial.SelectedNodeID {
		t.Errorf("reset state %+v differs from initial %+v", after, initial)
	}
	if len(after.RelatedNodeIDs) != 0 || after.EnrichmentInFlight {
		t.Errorf("reset state not clean: %+v", after)
	}

	types := bus.types()
	if types[len(types)-1] != EventSelectionCleared {
		t.Errorf("last event = %v, want %v", types[len(types)-1], EventSelectionCleared)
	}
}

func TestClick_SupersededEnrichmentStillMerges(t *testing.T) {
	lib := testLibrary()
	gate := make(chan struct{})
	analyzer := &gateAnalyzer{
		gate: gate,
		results: map[string]enrich.Analysis{
			"Book D": {Themes: []enrich.AnalyzedTheme{{Theme: "X"}}},
		},
	}
	m := NewMachine(lib, analyzer, nil, nil)

	// Click d: enrichment hangs on the gate.
	m.Click(context.Background(), "d")

	// A new click supersedes it while the call is in flight.
	state := m.Click(context.Background(), "a")
	if state.SelectedNodeID != "a" {
		t.Fatalf("selected = %q, want a", state.SelectedNodeID)
	}

	// Let the stale enrichment resolve.
	close(gate)
	m.Wait()

	final := m.Snapshot()
	// The stale result must not overwrite the newer selection.
	if final.SelectedNodeID != "a" {
		t.Errorf("stale enrichment stole the selection: %+v", final)
	}
	if hasID(final.RelatedNodeIDs, "d") && len(lib.Books()[3].Themes) == 0 {
		t.Errorf("related set inconsistent: %+v", final)
	}

	// But its data still landed in the shared book list (harmless late write).
	if got := lib.Books()[3].Themes; len(got) != 1 || got[0].Name != "X" {
		t.Errorf("late merge missing: %+v", got)
	}
}

func TestClick_UnknownNodeDegrades(t *testing.T) {
	lib := testLibrary()
	m := NewMachine(lib, nil, nil, nil)

	state := m.Click(context.Background(), "ghost")
	if state.Phase != PhaseSelected {
		t.Errorf("phase = %q", state.Phase)
	}
	if len(state.RelatedNodeIDs) != 1 || state.RelatedNodeIDs[0] != "ghost" {
		t.Errorf("related = %v, want [ghost]", state.RelatedNodeIDs)
	}
}

func TestGraphSelection(t *testing.T) {
	s := State{SelectedNodeID: "a", RelatedNodeIDs: []string{"a", "b"}}
	sel := s.GraphSelection()

	if !sel.Active() || sel.SelectedID != "a" {
		t.Errorf("GraphSelection() = %+v", sel)
	}
	if !sel.Related["a"] || !sel.Related["b"] || sel.Related["c"] {
		t.Errorf("related map = %v", sel.Related)
	}

	idle := State{}.GraphSelection()
	if idle.Active() {
		t.Errorf("idle selection should be inactive: %+v", idle)
	}
}
