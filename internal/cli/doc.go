// Package cli implements the starlake-docs command-line interface.
//
// The commands read exported Starlake metadata from a base path and either
// serve it over HTTP or answer one question and exit. The CLI is built on
// cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - serve: HTTP API with search, diagrams, sitemap and robots.txt
//   - search: one-shot ranked search
//   - browse: interactive search with debounced queries
//   - graph relations|lineage: export a diagram as JSON, DOT, SVG, PNG or PDF
//   - catalog: list load and transform domains
//   - sitemap, robots: print the SEO documents
//   - cache clear|path: manage the diagram cache
//
// # Configuration
//
// Settings are read from starlake-docs.toml (or --config), then from
// STARLAKE_DOCS_* environment variables, then from flags. The legacy
// SITE_BASE_PATH and TPCH_BASE_PATH variables are honored when the new ones
// are unset.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed through context.Context.
package cli
