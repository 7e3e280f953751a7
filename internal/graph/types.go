// Package graph builds the theme-similarity graph for visualization.
package graph

// Node represents one book in the rendered graph. Nodes are ephemeral and
// rebuilt on every graph recomputation; the renderer only reads them.
type Node struct {
	ID           string  `json:"id"`
	DisplayName  string  `json:"displayName"`
	Author       string  `json:"author,omitempty"`
	RatingBucket string  `json:"ratingBucket"`
	ThemeCount   int     `json:"themeCount"`
	IsRecent     bool    `json:"isRecent"`
	IsRelated    bool    `json:"isRelated"`
	IsSelected   bool    `json:"isSelected"`
	Opacity      float64 `json:"opacity"`
}

// Edge represents a shared-theme relationship between two books. The pair is
// unordered and unique: at most one edge exists per pair of nodes.
type Edge struct {
	SourceID    string  `json:"sourceId"`
	TargetID    string  `json:"targetId"`
	SharedTheme string  `json:"sharedTheme"`
	Weight      float64 `json:"weight"`
	IsVisible   bool    `json:"isVisible"`
}

// Graph is the builder's output.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *Graph) IsEmpty() bool {
	return len(g.Nodes) == 0
}

// Selection is the builder's read-only view of the current selection state.
// A zero Selection means nothing is selected: every node renders at full
// opacity and every edge is visible.
type Selection struct {
	SelectedID string
	Related    map[string]bool
}

// Active reports whether a node is currently selected.
func (s Selection) Active() bool {
	return s.SelectedID != ""
}

// pairKey identifies an unordered node pair.
type pairKey struct {
	a, b string
}

// newPairKey normalizes the pair so (x,y) and (y,x) collide.
func newPairKey(x, y string) pairKey {
	if x > y {
		x, y = y, x
	}
	return pairKey{a: x, b: y}
}
