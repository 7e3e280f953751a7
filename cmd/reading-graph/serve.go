package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SamhitaKotian/reading-graph/internal/enrich"
	"github.com/SamhitaKotian/reading-graph/internal/server"
)

var (
	serveAddr string
	serveSeed int64
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().Int64Var(&serveSeed, "seed", 0, "Seed for the session's edge topology (0 = random)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the live graph page",
	Long: `Serve the interactive graph page locally.

Clicking a node highlights the books sharing its themes and dims the rest.
Clicking an unenriched book triggers a lazy Ollama analysis; the highlight
appears immediately and the related set streams in when the analysis
completes. Books read in the last 30 days pulse gently.

When Ollama is not running the page still works; clicked unenriched books
simply stay themeless.

Examples:
  reading-graph serve
  reading-graph serve --addr 127.0.0.1:9000`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	st := mustOpenStore(repoRoot)
	defer st.Close()

	addr := serveAddr
	if addr == "" {
		addr = cfg.Addr()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := newLogger()

	// The analyzer is only consulted on clicks; if Ollama is down those
	// clicks soft-fail, so availability is not checked up front.
	var analyzer enrich.Analyzer = newAnalyzer(cfg)

	srv, err := server.New(server.Options{
		Addr:     addr,
		Store:    st,
		Analyzer: analyzer,
		Seed:     serveSeed,
		Logger:   log,
	})
	if err != nil {
		exitWithError(ExitError, "starting server: %v", err)
	}

	outputHuman("Serving reading graph at http://%s (Ctrl-C to stop)\n", addr)
	if err := srv.Run(ctx); err != nil {
		exitWithError(ExitError, "server error: %v", err)
	}
	return nil
}
