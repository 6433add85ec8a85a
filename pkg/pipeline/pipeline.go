// Package pipeline provides the diagram pipeline used by the CLI and the
// HTTP server.
//
// # Architecture
//
// The pipeline has three stages:
//
//  1. Load: read the relation or lineage document of a table or task
//  2. Build: turn it into a positioned [diagram.Graph]
//  3. Render: produce JSON, DOT, SVG, PNG or PDF artifacts
//
// Built graphs and rendered artifacts are cached. Graph keys embed a hash of
// the source document, artifact keys a hash of the graph, so an edited
// metadata file never serves a stale diagram.
//
// # Usage
//
//	runner := pipeline.NewRunner(catalog, cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Request{
//	    Kind:    diagram.KindRelations,
//	    Domain:  "sales",
//	    Name:    "orders",
//	    Formats: []string{"json", "svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// A table or task without a document yields an empty graph, not an error.
package pipeline

import (
	"time"

	"github.com/starlake-ai/starlake-site-builder/pkg/diagram"
	"github.com/starlake-ai/starlake-site-builder/pkg/errors"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// DefaultFormat is rendered when a request names no format.
const DefaultFormat = FormatJSON

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// ContentTypes maps formats to HTTP content types.
var ContentTypes = map[string]string{
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
}

// =============================================================================
// Request
// =============================================================================

// Request names one diagram and the formats wanted for it.
type Request struct {
	// Kind is relations (for a table) or lineage (for a task).
	Kind   diagram.Kind `json:"kind"`
	Domain string       `json:"domain"`
	Name   string       `json:"name"`

	Formats []string `json:"formats,omitempty"`

	// Detailed adds column types to rendered drawings.
	Detailed bool `json:"detailed,omitempty"`

	// Refresh bypasses cached graphs and artifacts.
	Refresh bool `json:"refresh,omitempty"`
}

// ID is the "domain.name" identifier used in logs and hooks.
func (r Request) ID() string {
	return r.Domain + "." + r.Name
}

// Validate checks names, kind and formats, applying defaults.
func (r *Request) Validate() error {
	if r.Kind == "" {
		r.Kind = diagram.KindRelations
	}
	if err := ValidateKind(r.Kind); err != nil {
		return err
	}
	if err := errors.ValidateName("domain", r.Domain); err != nil {
		return err
	}
	kind := "table"
	if r.Kind == diagram.KindLineage {
		kind = "task"
	}
	if err := errors.ValidateName(kind, r.Name); err != nil {
		return err
	}
	if len(r.Formats) == 0 {
		r.Formats = []string{DefaultFormat}
	}
	return ValidateFormats(r.Formats)
}

// ValidateKind checks that k is a diagram kind.
func ValidateKind(k diagram.Kind) error {
	if k != diagram.KindRelations && k != diagram.KindLineage {
		return errors.New(errors.ErrCodeInvalidInput, "invalid diagram kind: %s (must be relations or lineage)", k)
	}
	return nil
}

// ValidateFormat checks that f is a supported output format.
func ValidateFormat(f string) error {
	if !ValidFormats[f] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be json, dot, svg, png or pdf)", f)
	}
	return nil
}

// ValidateFormats checks all formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Result holds pipeline outputs.
type Result struct {
	Graph diagram.Graph `json:"graph"`
	Stats diagram.Stats `json:"stats"`

	// Found is false when the table or task has no document.
	Found bool `json:"found"`

	// GraphHash identifies the built graph. Empty for a missing document.
	GraphHash string `json:"graph_hash,omitempty"`

	Artifacts map[string][]byte `json:"-"`
	CacheInfo CacheInfo         `json:"cache"`
	Timing    Timing            `json:"timing"`
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	BuildHit  bool `json:"build_hit"`
	RenderHit bool `json:"render_hit"`
}

// Timing reports stage durations.
type Timing struct {
	Build  time.Duration `json:"build"`
	Render time.Duration `json:"render"`
}
