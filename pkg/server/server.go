package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/starlake-ai/starlake-site-builder/pkg/metadata"
	"github.com/starlake-ai/starlake-site-builder/pkg/pipeline"
	"github.com/starlake-ai/starlake-site-builder/pkg/prefs"
	"github.com/starlake-ai/starlake-site-builder/pkg/seo"
)

// Config wires the server's collaborators.
type Config struct {
	Catalog *metadata.Catalog

	// Runner builds diagrams. Nil creates an uncached runner over Catalog.
	Runner *pipeline.Runner

	// Prefs stores tab selections. Nil keeps them in memory.
	Prefs prefs.Store

	// SiteURL is the public origin used in the sitemap and robots.txt.
	SiteURL string

	Logger *log.Logger

	// Now stamps sitemap entries. Nil means time.Now.
	Now func() time.Time
}

// Server serves the documentation API.
type Server struct {
	catalog *metadata.Catalog
	runner  *pipeline.Runner
	prefs   prefs.Store
	index   *Index
	siteURL string
	logger  *log.Logger
	now     func() time.Time
	router  chi.Router
}

// New creates a server and its routes.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Catalog == nil {
		cfg.Catalog = metadata.New(metadata.Options{Logger: cfg.Logger})
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(cfg.Catalog, nil, nil, cfg.Logger)
	}
	if cfg.Prefs == nil {
		cfg.Prefs = prefs.NewMemoryStore()
	}
	if cfg.SiteURL == "" {
		cfg.SiteURL = seo.DefaultBaseURL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &Server{
		catalog: cfg.Catalog,
		runner:  cfg.Runner,
		prefs:   cfg.Prefs,
		index:   NewIndex(cfg.Catalog),
		siteURL: cfg.SiteURL,
		logger:  cfg.Logger.WithPrefix("http"),
		now:     cfg.Now,
	}
	s.router = s.routes()
	return s
}

// Index returns the search index so callers can invalidate it.
func (s *Server) Index() *Index { return s.index }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/robots.txt", s.handleRobots)
	r.Get("/sitemap.xml", s.handleSitemap)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/nav/sidebar", s.handleSidebar)

		r.Route("/load", func(r chi.Router) {
			r.Get("/", s.handleLoadDomains)
			r.Get("/{domain}", s.handleLoadDomain)
			r.Get("/{domain}/{table}", s.handleTable)
			r.Get("/{domain}/{table}/relations.{format}", s.handleRelations)
		})
		r.Route("/transform", func(r chi.Router) {
			r.Get("/", s.handleTransformDomains)
			r.Get("/{domain}", s.handleTransformDomain)
			r.Get("/{domain}/{task}", s.handleTask)
			r.Get("/{domain}/{task}/lineage.{format}", s.handleLineage)
		})

		r.Group(func(r chi.Router) {
			r.Use(clientID)
			r.Get("/prefs/{view}", s.handleGetPref)
			r.Put("/prefs/{view}", s.handlePutPref)
		})
	})
	return r
}

// =============================================================================
// Lifecycle
// =============================================================================

// Timeouts applied by [Server.ListenAndServe].
const (
	ReadTimeout       = 15 * time.Second
	WriteTimeout      = 60 * time.Second
	IdleTimeout       = 60 * time.Second
	ReadHeaderTimeout = 10 * time.Second
	ShutdownTimeout   = 30 * time.Second
)

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
		ReadHeaderTimeout: ReadHeaderTimeout,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
