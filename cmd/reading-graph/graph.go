package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SamhitaKotian/reading-graph/internal/book"
	"github.com/SamhitaKotian/reading-graph/internal/filter"
	"github.com/SamhitaKotian/reading-graph/internal/graph"
	"github.com/SamhitaKotian/reading-graph/internal/viz"
)

var (
	graphOutput    string
	graphJSON      bool
	graphSeed      int64
	graphBranching int
	graphMinRating float64
	graphShelf     string
	graphReadAfter string
)

func init() {
	graphCmd.Flags().StringVarP(&graphOutput, "output", "o", "", "Output file path (default: stdout)")
	graphCmd.Flags().BoolVar(&graphJSON, "json", false, "Emit Cytoscape elements JSON instead of HTML")
	graphCmd.Flags().Int64Var(&graphSeed, "seed", 0, "Seed for the edge-branching draw (0 = random)")
	graphCmd.Flags().IntVar(&graphBranching, "branching", 0, "Pin edges per book instead of drawing 2 or 3")
	graphCmd.Flags().Float64Var(&graphMinRating, "min-rating", 0, "Only include books rated at or above this value")
	graphCmd.Flags().StringVar(&graphShelf, "shelf", "", "Only include books on shelves matching this keyword")
	graphCmd.Flags().StringVar(&graphReadAfter, "read-after", "", "Only include books read on or after this date")
	rootCmd.AddCommand(graphCmd)
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Generate the theme-similarity graph",
	Long: `Generate a static HTML visualization of the theme-similarity graph.

Books sharing literary themes are linked; edge thickness grows with the
number of shared themes. Unenriched books appear as isolated nodes.

Examples:
  # Generate HTML to stdout
  reading-graph graph > graph.html

  # Generate to file, only 4-star-and-up books
  reading-graph graph --min-rating 4 --output graph.html

  # Deterministic topology
  reading-graph graph --seed 7 --output graph.html

  # Raw elements for another renderer
  reading-graph graph --json`,
	RunE: runGraph,
}

func runGraph(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	st := mustOpenStore(repoRoot)
	defer st.Close()

	books, err := st.LoadBooks()
	if err != nil {
		exitWithError(ExitError, "loading books: %v", err)
	}
	books = filter.Apply(books, graphFilter())

	var opts []graph.Option
	if graphSeed != 0 {
		opts = append(opts, graph.WithSeed(graphSeed))
	}
	if graphBranching > 0 {
		opts = append(opts, graph.WithBranching(graphBranching))
	}

	g := graph.NewBuilder(opts...).Build(books, graph.Selection{})

	var out string
	if graphJSON {
		out, err = viz.ToCytoscapeJSON(g)
	} else {
		out, err = viz.GenerateHTML(g, viz.HTMLOptions{Title: "Reading Graph"})
	}
	if err != nil {
		exitWithError(ExitError, "rendering graph: %v", err)
	}

	if graphOutput == "" {
		fmt.Print(out)
		return nil
	}
	if err := os.WriteFile(graphOutput, []byte(out), 0644); err != nil {
		exitWithError(ExitError, "writing output: %v", err)
	}

	if humanOutput {
		outputHuman("Wrote %s (%d nodes, %d edges)\n", graphOutput, len(g.Nodes), len(g.Edges))
		return nil
	}
	return outputJSON(StatusResponse{Status: "written", Path: graphOutput})
}

// graphFilter assembles filter options from flags. An unparseable
// --read-after value is fatal rather than silently matching nothing.
func graphFilter() filter.Options {
	f := filter.Options{MinRating: graphMinRating, Shelf: graphShelf}
	if graphReadAfter != "" {
		t, ok := book.ParseDateRead(graphReadAfter)
		if !ok {
			exitWithError(ExitDataError, "unparseable --read-after date: %q", graphReadAfter)
		}
		f.ReadAfter = t
	}
	return f
}
