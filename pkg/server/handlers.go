package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starlake-ai/starlake-site-builder/pkg/buildinfo"
	"github.com/starlake-ai/starlake-site-builder/pkg/cache"
	"github.com/starlake-ai/starlake-site-builder/pkg/diagram"
	"github.com/starlake-ai/starlake-site-builder/pkg/errors"
	"github.com/starlake-ai/starlake-site-builder/pkg/httputil"
	"github.com/starlake-ai/starlake-site-builder/pkg/metadata"
	"github.com/starlake-ai/starlake-site-builder/pkg/nav"
	"github.com/starlake-ai/starlake-site-builder/pkg/observability"
	"github.com/starlake-ai/starlake-site-builder/pkg/pipeline"
	"github.com/starlake-ai/starlake-site-builder/pkg/prefs"
	"github.com/starlake-ai/starlake-site-builder/pkg/search"
	"github.com/starlake-ai/starlake-site-builder/pkg/seo"
)

// =============================================================================
// Site
// =============================================================================

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Current()})
}

func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.Robots(s.siteURL)))
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	urls := seo.Sitemap(s.siteURL, s.catalog.LoadDomains(), s.catalog.TransformDomains(), s.now())
	var buf bytes.Buffer
	if err := seo.WriteSitemap(&buf, urls); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// =============================================================================
// Search
// =============================================================================

type searchResponse struct {
	Results []search.Record `json:"results"`
	Error   string          `json:"error,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		writeJSON(w, http.StatusOK, searchResponse{Results: []search.Record{}})
		return
	}

	records, err := s.index.Records(r.Context())
	if err != nil {
		s.logger.Error("search failed", "query", q, "error", err)
		writeJSON(w, http.StatusInternalServerError, searchResponse{
			Results: []search.Record{},
			Error:   "Failed to search",
		})
		return
	}

	results := search.Search(q, records)
	observability.Search().OnQuery(r.Context(), q, len(results), time.Since(start))
	writeJSON(w, http.StatusOK, searchResponse{Results: results})
}

func (s *Server) handleSidebar(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	writeJSON(w, http.StatusOK, map[string]any{
		"path":    nav.NormalizePath(path),
		"sidebar": nav.Sidebar(s.catalog.LoadDomains(), s.catalog.TransformDomains(), path),
	})
}

// =============================================================================
// Load
// =============================================================================

func (s *Server) handleLoadDomains(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"domains": s.catalog.LoadDomains()})
}

type domainPage struct {
	Domain      any          `json:"domain"`
	Breadcrumbs []nav.Crumb  `json:"breadcrumbs"`
	PrevNext    nav.PrevNext `json:"prevNext"`
}

func (s *Server) handleLoadDomain(w http.ResponseWriter, r *http.Request) {
	d, err := s.loadDomain(chi.URLParam(r, "domain"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domainPage{
		Domain:      d,
		Breadcrumbs: nav.Trail(nav.LoadPath, d.Name),
		PrevNext:    nav.Neighbours(nav.LoadPath, nav.LoadDomainNames(s.catalog.LoadDomains()), d.Name),
	})
}

type tablePage struct {
	Breadcrumbs []nav.Crumb           `json:"breadcrumbs"`
	Details     metadata.TableDetails `json:"details"`
	Definition  metadata.Object       `json:"definition"`
	Relations   diagram.Graph         `json:"relations"`
	Tab         string                `json:"tab"`
	Tabs        []string              `json:"tabs"`
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	domain, table := chi.URLParam(r, "domain"), chi.URLParam(r, "table")
	def, err := s.tableDefinition(domain, table)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	built, err := s.runner.Build(r.Context(), pipeline.Request{Kind: diagram.KindRelations, Domain: domain, Name: table})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tablePage{
		Breadcrumbs: nav.Trail(nav.LoadPath, domain, table),
		Details:     metadata.NewTableDetails(domain, table, def),
		Definition:  def,
		Relations:   built.Graph,
		Tab:         s.tab(r, prefs.ViewLoadDetails),
		Tabs:        prefs.Tabs(prefs.ViewLoadDetails),
	})
}

func (s *Server) handleRelations(w http.ResponseWriter, r *http.Request) {
	domain, table := chi.URLParam(r, "domain"), chi.URLParam(r, "table")
	if _, err := s.tableDefinition(domain, table); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.serveDiagram(w, r, diagram.KindRelations, domain, table)
}

func (s *Server) loadDomain(name string) (metadata.DomainInfo, error) {
	if err := errors.ValidateName("domain", name); err != nil {
		return metadata.DomainInfo{}, err
	}
	d, ok := s.catalog.Domain(name)
	if !ok {
		return metadata.DomainInfo{}, errors.New(errors.ErrCodeDomainNotFound, "unknown domain: %s", name)
	}
	return d, nil
}

func (s *Server) tableDefinition(domain, table string) (metadata.Object, error) {
	d, err := s.loadDomain(domain)
	if err != nil {
		return metadata.Object{}, err
	}
	if err := errors.ValidateName("table", table); err != nil {
		return metadata.Object{}, err
	}
	if _, ok := d.Table(table); !ok {
		return metadata.Object{}, errors.New(errors.ErrCodeTableNotFound, "unknown table: %s.%s", domain, table)
	}
	def, ok := s.catalog.TableJSON(domain, table)
	if !ok {
		return metadata.Object{}, errors.New(errors.ErrCodeTableNotFound, "unreadable table: %s.%s", domain, table)
	}
	return def, nil
}

// =============================================================================
// Transform
// =============================================================================

func (s *Server) handleTransformDomains(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"domains": s.catalog.TransformDomains()})
}

func (s *Server) handleTransformDomain(w http.ResponseWriter, r *http.Request) {
	d, err := s.transformDomain(chi.URLParam(r, "domain"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domainPage{
		Domain:      d,
		Breadcrumbs: nav.Trail(nav.TransformPath, d.Name),
		PrevNext:    nav.Neighbours(nav.TransformPath, nav.TransformDomainNames(s.catalog.TransformDomains()), d.Name),
	})
}

type taskPage struct {
	Breadcrumbs []nav.Crumb          `json:"breadcrumbs"`
	Details     metadata.TaskDetails `json:"details"`
	Definition  metadata.Object      `json:"definition"`
	Lineage     diagram.Graph        `json:"lineage"`
	Tab         string               `json:"tab"`
	Tabs        []string             `json:"tabs"`
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	domain, task := chi.URLParam(r, "domain"), chi.URLParam(r, "task")
	def, err := s.taskDefinition(domain, task)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	built, err := s.runner.Build(r.Context(), pipeline.Request{Kind: diagram.KindLineage, Domain: domain, Name: task})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskPage{
		Breadcrumbs: nav.Trail(nav.TransformPath, domain, task),
		Details:     metadata.NewTaskDetails(domain, task, def),
		Definition:  def,
		Lineage:     built.Graph,
		Tab:         s.tab(r, prefs.ViewTransformDetails),
		Tabs:        prefs.Tabs(prefs.ViewTransformDetails),
	})
}

func (s *Server) handleLineage(w http.ResponseWriter, r *http.Request) {
	domain, task := chi.URLParam(r, "domain"), chi.URLParam(r, "task")
	if _, err := s.taskDefinition(domain, task); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.serveDiagram(w, r, diagram.KindLineage, domain, task)
}

func (s *Server) transformDomain(name string) (metadata.TransformDomainInfo, error) {
	if err := errors.ValidateName("domain", name); err != nil {
		return metadata.TransformDomainInfo{}, err
	}
	d, ok := s.catalog.TransformDomain(name)
	if !ok {
		return metadata.TransformDomainInfo{}, errors.New(errors.ErrCodeDomainNotFound, "unknown domain: %s", name)
	}
	return d, nil
}

func (s *Server) taskDefinition(domain, task string) (metadata.Object, error) {
	d, err := s.transformDomain(domain)
	if err != nil {
		return metadata.Object{}, err
	}
	if err := errors.ValidateName("task", task); err != nil {
		return metadata.Object{}, err
	}
	if _, ok := d.Task(task); !ok {
		return metadata.Object{}, errors.New(errors.ErrCodeTaskNotFound, "unknown task: %s.%s", domain, task)
	}
	def, ok := s.catalog.TaskJSON(domain, task)
	if !ok {
		return metadata.Object{}, errors.New(errors.ErrCodeTaskNotFound, "unreadable task: %s.%s", domain, task)
	}
	return def, nil
}

// =============================================================================
// Diagrams
// =============================================================================

func (s *Server) serveDiagram(w http.ResponseWriter, r *http.Request, kind diagram.Kind, domain, name string) {
	format := chi.URLParam(r, "format")
	q := r.URL.Query()
	detailed := q.Get("detailed") == "true"
	res, err := s.runner.Execute(r.Context(), pipeline.Request{
		Kind:     kind,
		Domain:   domain,
		Name:     name,
		Formats:  []string{format},
		Detailed: detailed,
		Refresh:  q.Get("refresh") == "true",
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// The same graph renders differently per format and detail level.
	var etag string
	if res.GraphHash != "" {
		etag = httputil.ETag(cache.Hash([]byte(res.GraphHash + ":" + format + ":" + strconv.FormatBool(detailed))))
	}
	if httputil.NotModified(w, r, etag) {
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	_, _ = w.Write(res.Artifacts[format])
}

// =============================================================================
// Preferences
// =============================================================================

type prefBody struct {
	View string `json:"view"`
	Tab  string `json:"tab"`
}

// tab returns the remembered tab of the requesting client, if it sent one.
func (s *Server) tab(r *http.Request, view prefs.View) string {
	c, err := r.Cookie(ClientCookie)
	if err != nil || prefs.ValidateClient(c.Value) != nil {
		return prefs.DefaultTab
	}
	return prefs.Tab(r.Context(), s.prefs, c.Value, view)
}

func (s *Server) handleGetPref(w http.ResponseWriter, r *http.Request) {
	view := prefs.View(chi.URLParam(r, "view"))
	if prefs.Tabs(view) == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidView, "unknown view: %s", view))
		return
	}
	tab := prefs.Tab(r.Context(), s.prefs, clientFrom(r.Context()), view)
	writeJSON(w, http.StatusOK, prefBody{View: string(view), Tab: tab})
}

func (s *Server) handlePutPref(w http.ResponseWriter, r *http.Request) {
	view := prefs.View(chi.URLParam(r, "view"))
	var body prefBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&body); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	p, err := prefs.New(clientFrom(r.Context()), view, body.Tab)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.prefs.Set(r.Context(), p); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store preference"))
		return
	}
	writeJSON(w, http.StatusOK, prefBody{View: string(view), Tab: p.Tab})
}
