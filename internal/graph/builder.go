package graph

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/SamhitaKotian/reading-graph/internal/book"
)

const (
	// dimmedOpacity is applied to nodes outside the highlighted subgraph.
	dimmedOpacity = 0.2

	// baseWeight and weightPerTheme shape edge weights: weight grows
	// monotonically with the number of shared themes.
	baseWeight     = 0.7
	weightPerTheme = 0.1
)

// Builder converts a book list plus the current selection into a node/edge
// graph. Build is pure given identical inputs apart from the randomized
// per-source branching factor, which exists purely for visual variety and
// can be pinned with WithBranching for deterministic output.
type Builder struct {
	rng       *rand.Rand
	branching int // 0 = draw 2 or 3 per source
	now       func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithSeed seeds the branching draw so repeated builds agree.
func WithSeed(seed int64) Option {
	return func(b *Builder) {
		b.rng = rand.New(rand.NewSource(seed))
	}
}

// WithBranching pins the per-source partner count instead of drawing 2 or 3.
func WithBranching(k int) Option {
	return func(b *Builder) {
		b.branching = k
	}
}

// WithNow overrides the clock used for recency checks.
func WithNow(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// NewBuilder creates a Builder. Without options the branching draw is
// reseeded from the wall clock, giving each session its own topology.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build derives the full graph from the book list and selection state. It
// never fails: malformed ratings, dates or missing themes degrade to gray,
// non-pulsing or isolated nodes.
func (b *Builder) Build(books []book.Record, sel Selection) *Graph {
	ids := nodeIDs(books)
	return &Graph{
		Nodes: b.buildNodes(books, ids, sel),
		Edges: b.buildEdges(books, ids, sel),
	}
}

// nodeIDs resolves one stable ID per record, synthesizing "book-{index}"
// for records that arrived without one.
func nodeIDs(books []book.Record) []string {
	ids := make([]string, len(books))
	for i := range books {
		if books[i].ID != "" {
			ids[i] = books[i].ID
		} else {
			ids[i] = fmt.Sprintf("book-%d", i)
		}
	}
	return ids
}

// buildNodes creates one node per record in input order.
func (b *Builder) buildNodes(books []book.Record, ids []string, sel Selection) []Node {
	now := b.now()
	nodes := make([]Node, 0, len(books))

	for i := range books {
		r := &books[i]
		n := Node{
			ID:           ids[i],
			DisplayName:  r.Title,
			Author:       r.Author,
			RatingBucket: book.RatingBucket(r.Rating),
			ThemeCount:   len(r.Themes),
			IsRecent:     book.IsRecent(r.DateRead, now),
			Opacity:      1,
		}

		if sel.Active() {
			n.IsSelected = n.ID == sel.SelectedID
			n.IsRelated = sel.Related[n.ID]
			if !n.IsRelated && !n.IsSelected {
				n.Opacity = dimmedOpacity
			}
		}

		nodes = append(nodes, n)
	}

	return nodes
}

// candidate is a potential edge partner for one source book.
type candidate struct {
	index  int      // position in the book list
	shared []string // shared theme names, in the source's extraction order
}

// buildEdges runs the theme-similarity pass: each book ranks every other
// book by shared-theme count and keeps its top few partners. The first
// writer wins per unordered pair, so no duplicate or reversed edges appear.
func (b *Builder) buildEdges(books []book.Record, ids []string, sel Selection) []Edge {
	var edges []Edge
	seen := make(map[pairKey]bool)

	for i := range books {
		if len(books[i].Themes) == 0 {
			continue // Unenriched books stay isolated until themes arrive.
		}

		ranked := b.rankPartners(books, i)
		for _, c := range ranked[:min(b.drawBranching(), len(ranked))] {
			key := newPairKey(ids[i], ids[c.index])
			if seen[key] {
				continue
			}
			seen[key] = true

			edges = append(edges, Edge{
				SourceID:    ids[i],
				TargetID:    ids[c.index],
				SharedTheme: c.shared[0],
				Weight:      baseWeight + weightPerTheme*float64(len(c.shared)),
				IsVisible:   edgeVisible(ids[i], ids[c.index], sel),
			})
		}
	}

	return edges
}

// rankPartners finds every book sharing at least one theme with books[src],
// ordered by shared-theme count descending. Ties preserve book list order.
func (b *Builder) rankPartners(books []book.Record, src int) []candidate {
	var ranked []candidate
	for j := range books {
		if j == src {
			continue
		}
		shared := books[src].SharedThemes(&books[j])
		if len(shared) == 0 {
			continue
		}
		ranked = append(ranked, candidate{index: j, shared: shared})
	}

	sort.SliceStable(ranked, func(x, y int) bool {
		return len(ranked[x].shared) > len(ranked[y].shared)
	})
	return ranked
}

// drawBranching picks how many partners a source keeps this round.
func (b *Builder) drawBranching() int {
	if b.branching > 0 {
		return b.branching
	}
	return 2 + b.rng.Intn(2)
}

// edgeVisible hides edges unless both endpoints sit in the highlight set.
func edgeVisible(source, target string, sel Selection) bool {
	if !sel.Active() {
		return true
	}
	return sel.Related[source] && sel.Related[target]
}
