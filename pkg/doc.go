// Package pkg provides the core libraries for the Starlake metadata
// documentation site.
//
// # Overview
//
// Starlake projects describe their load domains, tables, and transform tasks
// as JSON files under a metadata tree. The site renders those files as
// browsable pages, entity relationship diagrams, and task lineage graphs.
//
// The typical data flow:
//
//	metadata/**/*.json
//	         ↓
//	    [metadata] package (catalog of domains, tables, and tasks)
//	         ↓
//	    [diagram] package (relations and lineage graph builder)
//	         ↓
//	    [render/nodelink] package (DOT, SVG, PNG, PDF)
//	         ↓
//	    [server] package (HTML API, search, sitemap)
//
// # Quick Start
//
//	cat := metadata.Open("./site", "", logger)
//	raw, ok := cat.TableRelations("sales", "orders")
//	if !ok {
//	    return
//	}
//	doc, _ := diagram.ParseDocument(raw)
//	g, stats := diagram.Build(doc, diagram.Options{Kind: diagram.KindRelations})
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//
// # Main Packages
//
// [metadata] - Loads the domain and task indexes, looks up entity documents,
// and shapes them into table and task details with attribute grids.
//
// [diagram] - Turns a relations or lineage document into positioned nodes
// and edges with column handles.
//
// [search] - Builds the search index over domains, tables, and tasks and
// ranks records against a query.
//
// [nav] - Breadcrumbs, previous and next links, and the sidebar tree.
//
// [seo] - Sitemap and robots.txt generation.
//
// [pipeline] - Load, build, render, and cache orchestration for diagrams.
//
// [cache] - Cache backends (file, Redis, null) keyed by document hash.
//
// [prefs] - Per-client UI preferences (memory, file, MongoDB).
//
// [server] - The HTTP API with file watching for live reload.
//
// [metadata]: https://pkg.go.dev/github.com/starlake-ai/starlake-site-builder/pkg/metadata
// [diagram]: https://pkg.go.dev/github.com/starlake-ai/starlake-site-builder/pkg/diagram
// [render/nodelink]: https://pkg.go.dev/github.com/starlake-ai/starlake-site-builder/pkg/render/nodelink
// [search]: https://pkg.go.dev/github.com/starlake-ai/starlake-site-builder/pkg/search
// [nav]: https://pkg.go.dev/github.com/starlake-ai/starlake-site-builder/pkg/nav
// [seo]: https://pkg.go.dev/github.com/starlake-ai/starlake-site-builder/pkg/seo
// [pipeline]: https://pkg.go.dev/github.com/starlake-ai/starlake-site-builder/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/starlake-ai/starlake-site-builder/pkg/cache
// [prefs]: https://pkg.go.dev/github.com/starlake-ai/starlake-site-builder/pkg/prefs
// [server]: https://pkg.go.dev/github.com/starlake-ai/starlake-site-builder/pkg/server
package pkg
