package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SamhitaKotian/reading-graph/internal/book"
	"github.com/SamhitaKotian/reading-graph/internal/bookmark"
	"github.com/SamhitaKotian/reading-graph/internal/enrich"
	"github.com/SamhitaKotian/reading-graph/internal/filter"
	"github.com/SamhitaKotian/reading-graph/internal/graph"
	"github.com/SamhitaKotian/reading-graph/internal/selection"
	"github.com/SamhitaKotian/reading-graph/internal/store"
	"github.com/SamhitaKotian/reading-graph/internal/viz"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Addr     string
	Store    *store.Store
	Analyzer enrich.Analyzer // may be nil: clicks then never trigger enrichment
	Seed     int64           // pins the session's edge topology; 0 uses the clock
	Logger   *zap.Logger
}

// Server hosts the interactive graph page: the HTML shell, the JSON API the
// page polls, and the websocket carrying selection and pulse events.
type Server struct {
	addr    string
	lib     *Library
	store   *store.Store
	machine *selection.Machine
	hub     *Hub
	seed    int64
	now     func() time.Time
	log     *zap.Logger
}

// New wires a Server from the given options.
func New(opts Options) (*Server, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	lib, err := NewLibrary(opts.Store, log)
	if err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	hub := NewHub(log)
	return &Server{
		addr:    opts.Addr,
		lib:     lib,
		store:   opts.Store,
		machine: selection.NewMachine(lib, opts.Analyzer, hub, log),
		hub:     hub,
		seed:    seed,
		now:     time.Now,
		log:     log,
	}, nil
}

// Run serves until the context is cancelled, then shuts down gracefully and
// waits for any in-flight enrichment to settle.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Routes(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		runPulse(gctx, s.hub, s.lib, s.now, s.log)
		return nil
	})
	g.Go(func() error {
		s.log.Info("serving graph", zap.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	s.machine.Wait()
	return err
}

// Routes builds the HTTP handler tree.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.log))

	r.Get("/", s.handleIndex)
	r.Get("/ws", s.handleWS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.handleGraph)
		r.Get("/state", s.handleState)
		r.Post("/select/{id}", s.handleSelect)
		r.Post("/reset", s.handleReset)
		r.Get("/bookmarks", s.handleBookmarks)
		r.Post("/bookmarks/toggle", s.handleToggleBookmark)
	})

	return r
}

// handleIndex serves the live graph page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	g := s.buildGraph(filterFromQuery(r))
	page, err := viz.GenerateHTML(g, viz.HTMLOptions{Title: "Reading Graph", Live: true})
	if err != nil {
		s.httpError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}

// handleGraph returns the current graph as Cytoscape elements, reflecting
// the active selection and any filters in the query string.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	g := s.buildGraph(filterFromQuery(r))
	out, err := viz.ToCytoscapeJSON(g)
	if err != nil {
		s.httpError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(out))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

// handleSelect forwards a node click to the selection machine. The response
// carries the immediate state; completion arrives over the websocket.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "id")
	// Lazy enrichment outlives the request; Run waits for it on shutdown.
	state := s.machine.Click(context.WithoutCancel(r.Context()), nodeID)
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.machine.Reset())
}

func (s *Server) handleBookmarks(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.LoadBookmarks()
	if err != nil {
		s.httpError(w, http.StatusInternalServerError, err)
		return
	}
	if list == nil {
		list = []bookmark.Bookmark{}
	}
	s.writeJSON(w, http.StatusOK, list)
}

// handleToggleBookmark adds the posted bookmark, or removes it if an
// identical one already exists.
func (s *Server) handleToggleBookmark(w http.ResponseWriter, r *http.Request) {
	var b bookmark.Bookmark
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		s.httpError(w, http.StatusBadRequest, err)
		return
	}
	if err := b.ValidateForCreate(); err != nil {
		s.httpError(w, http.StatusBadRequest, err)
		return
	}
	b.SetDateAdded()

	added, err := s.store.ToggleBookmark(b)
	if err != nil {
		s.httpError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"bookmarked": added})
}

// handleWS upgrades to a websocket and attaches the client to the hub.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Warn("ws accept failed", zap.Error(err))
		return
	}

	client := NewClient(s.hub, conn)
	s.hub.Register(client)

	go client.WritePump(r.Context())
	client.ReadPump(r.Context())
}

// buildGraph derives the graph from the filtered book list and the current
// selection. The builder is reseeded identically per call so the topology
// stays put across page refreshes within one session.
func (s *Server) buildGraph(f filter.Options) *graph.Graph {
	books := filter.Apply(s.lib.Books(), f)
	b := graph.NewBuilder(graph.WithSeed(s.seed), graph.WithNow(s.now))
	return b.Build(books, s.machine.Snapshot().GraphSelection())
}

// filterFromQuery reads filter options from the query string. Malformed
// values are ignored rather than erroring; the page always gets a graph.
func filterFromQuery(r *http.Request) filter.Options {
	q := r.URL.Query()
	var f filter.Options

	if v := q.Get("min_rating"); v != "" {
		if rating, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinRating = rating
		}
	}
	f.Shelf = q.Get("shelf")
	if v := q.Get("read_after"); v != "" {
		if t, ok := book.ParseDateRead(v); ok {
			f.ReadAfter = t
		}
	}
	return f
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encoding response", zap.Error(err))
	}
}

func (s *Server) httpError(w http.ResponseWriter, status int, err error) {
	s.log.Warn("request failed", zap.Int("status", status), zap.Error(err))
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
