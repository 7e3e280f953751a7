package viz

import (
	"encoding/json"
	"fmt"

	"github.com/SamhitaKotian/reading-graph/internal/graph"
)

// CytoscapeElements represents the Cytoscape.js data format.
type CytoscapeElements struct {
	Nodes []CytoscapeNode `json:"nodes"`
	Edges []CytoscapeEdge `json:"edges"`
}

// CytoscapeNode represents a node in Cytoscape.js format.
type CytoscapeNode struct {
	Data graph.Node `json:"data"`
}

// CytoscapeEdge represents an edge in Cytoscape.js format.
type CytoscapeEdge struct {
	Data CytoscapeEdgeData `json:"data"`
}

// CytoscapeEdgeData contains the edge data fields.
type CytoscapeEdgeData struct {
	ID          string  `json:"id"`
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	SharedTheme string  `json:"sharedTheme"`
	Weight      float64 `json:"weight"`
	IsVisible   bool    `json:"isVisible"`
}

// ToCytoscapeJSON converts a graph to Cytoscape.js JSON format.
func ToCytoscapeJSON(g *graph.Graph) (string, error) {
	elements := CytoscapeElements{
		Nodes: make([]CytoscapeNode, 0, len(g.Nodes)),
		Edges: make([]CytoscapeEdge, 0, len(g.Edges)),
	}

	for _, n := range g.Nodes {
		elements.Nodes = append(elements.Nodes, CytoscapeNode{Data: n})
	}

	for i, e := range g.Edges {
		elements.Edges = append(elements.Edges, CytoscapeEdge{
			Data: CytoscapeEdgeData{
				ID:          edgeID(e.SourceID, e.TargetID, i),
				Source:      e.SourceID,
				Target:      e.TargetID,
				SharedTheme: e.SharedTheme,
				Weight:      e.Weight,
				IsVisible:   e.IsVisible,
			},
		})
	}

	jsonBytes, err := json.Marshal(elements)
	if err != nil {
		return "", fmt.Errorf("marshaling Cytoscape elements to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// edgeID generates a unique edge ID for the current visualization session.
// IDs are based on slice position and are not stable across rebuilds.
func edgeID(source, target string, index int) string {
	return fmt.Sprintf("%s-%s-%d", source, target, index)
}
