package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/starlake-ai/starlake-site-builder/pkg/cache"
	"github.com/starlake-ai/starlake-site-builder/pkg/diagram"
	"github.com/starlake-ai/starlake-site-builder/pkg/metadata"
	"github.com/starlake-ai/starlake-site-builder/pkg/observability"
)

// Catalog supplies the documents the pipeline builds from.
// [*metadata.Catalog] implements it.
type Catalog interface {
	TableRelations(domain, table string) ([]byte, bool)
	TaskLineage(domain, task string) ([]byte, bool)
	TaskJSON(domain, task string) (metadata.Object, bool)
}

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no results itself; multiple goroutines can use the same
// Runner with different requests.
type Runner struct {
	Catalog Catalog
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
}

// NewRunner creates a runner over a catalog.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(cat Catalog, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Catalog: cat,
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
	}
}

// Execute runs load → build → render with caching.
func (r *Runner) Execute(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	buildStart := time.Now()
	built, err := r.Build(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Graph = built.Graph
	result.Stats = built.Stats
	result.Found = built.Found
	result.GraphHash = built.Hash
	result.CacheInfo.BuildHit = built.Hit
	result.Timing.Build = time.Since(buildStart)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, req, built.Graph)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit
	result.Timing.Render = time.Since(renderStart)

	r.Logger.Debug("diagram ready",
		"kind", req.Kind,
		"id", req.ID(),
		"nodes", len(built.Graph.Nodes),
		"edges", len(built.Graph.Edges),
		"formats", req.Formats,
		"build", result.Timing.Build,
		"render", result.Timing.Render)

	return result, nil
}

// =============================================================================
// Build
// =============================================================================

// Built is the outcome of [Runner.Build].
type Built struct {
	Graph diagram.Graph
	Stats diagram.Stats
	Found bool
	Hash  string
	Hit   bool
}

// cachedGraph is the cache entry of a built graph.
type cachedGraph struct {
	Graph diagram.Graph `json:"graph"`
	Stats diagram.Stats `json:"stats"`
}

// Build loads and builds the diagram of req, positioned on the default grid.
// A missing or unparseable document yields an empty graph.
func (r *Runner) Build(ctx context.Context, req Request) (Built, error) {
	if err := req.Validate(); err != nil {
		return Built{}, err
	}

	raw, ok := r.document(req)
	if !ok {
		return Built{Graph: emptyGraph(req.Kind)}, nil
	}
	opts := r.buildOptions(req)

	sourceHash, err := sourceHash(raw, opts)
	if err != nil {
		return Built{}, err
	}
	key := r.Keyer.DiagramKey(sourceHash, cache.DiagramKeyOpts{
		Kind:   string(req.Kind),
		Domain: req.Domain,
		Name:   req.Name,
	})

	if !req.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached cachedGraph
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "diagram")
				return r.built(cached.Graph, cached.Stats, true), nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "key", key, "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "diagram")
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, string(req.Kind), req.ID())
	start := time.Now()

	doc, err := diagram.ParseDocument(raw)
	if err != nil {
		r.Logger.Warn("unusable diagram document", "kind", req.Kind, "id", req.ID(), "error", err)
		hooks.OnBuildComplete(ctx, string(req.Kind), req.ID(), observability.BuildStats{}, time.Since(start), nil)
		return Built{Graph: emptyGraph(req.Kind)}, nil
	}

	g, stats := diagram.Build(doc, opts)
	g = diagram.Place(g, diagram.DefaultGrid)
	skipped := stats.SkippedEntities + stats.MalformedRelations + stats.UnresolvedRelations
	hooks.OnBuildComplete(ctx, string(req.Kind), req.ID(), observability.BuildStats{
		Nodes:   stats.Nodes,
		Edges:   stats.Edges,
		Skipped: skipped,
	}, time.Since(start), nil)
	if skipped > 0 {
		r.Logger.Debug("skipped diagram entries",
			"id", req.ID(),
			"entities", stats.SkippedEntities,
			"malformed", stats.MalformedRelations,
			"unresolved", stats.UnresolvedRelations)
	}

	if data, err := json.Marshal(cachedGraph{Graph: g, Stats: stats}); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLDiagram); err == nil {
			observability.Cache().OnCacheSet(ctx, "diagram", len(data))
		}
	}
	return r.built(g, stats, false), nil
}

func (r *Runner) built(g diagram.Graph, stats diagram.Stats, hit bool) Built {
	hash, _ := cache.HashJSON(g)
	return Built{Graph: g, Stats: stats, Found: true, Hash: hash, Hit: hit}
}

func (r *Runner) document(req Request) ([]byte, bool) {
	if r.Catalog == nil {
		return nil, false
	}
	if req.Kind == diagram.KindLineage {
		return r.Catalog.TaskLineage(req.Domain, req.Name)
	}
	return r.Catalog.TableRelations(req.Domain, req.Name)
}

// buildOptions enriches lineage columns with the task's attribute key flags.
func (r *Runner) buildOptions(req Request) diagram.Options {
	opts := diagram.Options{Kind: req.Kind}
	if req.Kind != diagram.KindLineage {
		return opts
	}
	if def, ok := r.Catalog.TaskJSON(req.Domain, req.Name); ok {
		opts.Attributes = diagram.AttributeFlags(metadata.AttributeMaps(metadata.Attributes(def)))
	}
	return opts
}

// sourceHash covers everything the build reads: the document and the
// enrichment flags.
func sourceHash(raw []byte, opts diagram.Options) (string, error) {
	attrs, err := cache.HashJSON(opts.Attributes)
	if err != nil {
		return "", err
	}
	return cache.Hash([]byte(cache.Hash(raw) + ":" + attrs)), nil
}

func emptyGraph(kind diagram.Kind) diagram.Graph {
	return diagram.Graph{Kind: kind, Nodes: []diagram.Node{}, Edges: []diagram.Edge{}}
}

// =============================================================================
// Render
// =============================================================================

// RenderWithCacheInfo renders g in every requested format, reporting whether
// all artifacts came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, req Request, g diagram.Graph) (map[string][]byte, bool, error) {
	if len(req.Formats) == 0 {
		req.Formats = []string{DefaultFormat}
	}
	if err := ValidateFormats(req.Formats); err != nil {
		return nil, false, err
	}

	graphHash, err := cache.HashJSON(g)
	if err != nil {
		return nil, false, fmt.Errorf("hash graph: %w", err)
	}

	if !req.Refresh {
		artifacts := make(map[string][]byte, len(req.Formats))
		for _, format := range req.Formats {
			key := r.Keyer.ArtifactKey(graphHash, r.artifactKeyOpts(req, format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(req.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	rendered, err := Render(ctx, req, g)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(graphHash, r.artifactKeyOpts(req, format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, req Request, g diagram.Graph) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, req, g)
	return artifacts, err
}

func (r *Runner) artifactKeyOpts(req Request, format string) cache.ArtifactKeyOpts {
	if req.Detailed {
		format += "+detailed"
	}
	return cache.ArtifactKeyOpts{Format: format}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
