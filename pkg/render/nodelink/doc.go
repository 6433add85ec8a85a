// Package nodelink renders schema diagrams as Graphviz node-link drawings.
//
// # Usage
//
// Convert a built graph to DOT, then render to SVG:
//
//	g, _ := diagram.Build(doc, diagram.Options{Kind: diagram.KindRelations})
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// PNG and PDF go through SVG and need rsvg-convert on the PATH:
//
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//
// # DOT Format
//
// Nodes are plaintext shapes with HTML table labels. The first row holds the
// domain and table name; each following row is one column with a PORT so
// column-bound edges attach to the row they reference. Key columns are
// prefixed with PK and FK markers.
//
// The layout runs left to right (rankdir=LR). Edges that point back in
// discovery order are drawn with constraint=false so they do not reshuffle
// the ranks.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
