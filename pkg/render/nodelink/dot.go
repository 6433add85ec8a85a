package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/starlake-ai/starlake-site-builder/pkg/diagram"
	"github.com/starlake-ai/starlake-site-builder/pkg/render"
)

// Options configures diagram rendering.
type Options struct {
	// Detailed adds column types to the rows of each node.
	Detailed bool
}

// ToDOT converts a diagram into Graphviz DOT source.
//
// Each node is an HTML table: a header with the domain and table, then one
// row per column carrying a port. Edges bound to column handles attach to
// those ports; edges without handles attach to the node itself.
func ToDOT(g diagram.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=plaintext, fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10, color=\"#64748b\"];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	ports := make(map[string]map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		ports[n.ID] = columnPorts(n)
		fmt.Fprintf(&buf, "  %q [label=<%s>];\n", n.ID, fmtLabel(n, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		from := endpoint(e.Source, e.SourceHandle, ports, "e")
		to := endpoint(e.Target, e.TargetHandle, ports, "w")
		attrs := []string{fmt.Sprintf("id=%q", e.ID)}
		if e.Label != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
		}
		if e.Direction == diagram.RightToLeft {
			attrs = append(attrs, "constraint=false")
		}
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", from, to, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// columnPorts maps trimmed column names to their port ids.
func columnPorts(n diagram.Node) map[string]string {
	out := make(map[string]string, len(n.Columns))
	for i, c := range n.Columns {
		name := diagram.NormalizeHandle(c.Name)
		if _, dup := out[name]; !dup {
			out[name] = "c" + strconv.Itoa(i)
		}
	}
	return out
}

func endpoint(node, handle string, ports map[string]map[string]string, compass string) string {
	if col, ok := diagram.HandleColumn(handle); ok {
		if port, ok := ports[node][col]; ok {
			return fmt.Sprintf("%q:%s:%s", node, port, compass)
		}
	}
	return strconv.Quote(node)
}

func fmtLabel(n diagram.Node, detailed bool) string {
	header := html.EscapeString(n.Table)
	if n.Domain != "" {
		header = `<FONT POINT-SIZE="9" COLOR="#64748b">` + html.EscapeString(n.Domain) + `</FONT><BR/>` + header
	}
	fill := "#e0f2fe"
	if n.IsTask {
		fill = "#ede9fe"
	}

	var b strings.Builder
	b.WriteString(`<TABLE BORDER="1" CELLBORDER="0" CELLSPACING="0" CELLPADDING="4" COLOR="#94a3b8" BGCOLOR="white">`)
	fmt.Fprintf(&b, `<TR><TD BGCOLOR="%s"><B>%s</B></TD></TR>`, fill, header)
	for i, c := range n.Columns {
		text := keyMarker(c) + html.EscapeString(c.Name)
		if detailed && c.ColumnType != "" {
			text += ` <FONT COLOR="#64748b">` + html.EscapeString(c.ColumnType) + `</FONT>`
		}
		fmt.Fprintf(&b, `<TR><TD PORT="c%d" ALIGN="LEFT">%s</TD></TR>`, i, text)
	}
	b.WriteString(`</TABLE>`)
	return b.String()
}

func keyMarker(c diagram.Column) string {
	switch {
	case c.PrimaryKey && c.ForeignKey:
		return "PK FK "
	case c.PrimaryKey:
		return "PK "
	case c.ForeignKey:
		return "FK "
	}
	return ""
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg tag with one whose viewBox starts
// at the origin and whose size matches the drawing.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPNG renders DOT source as PNG via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}

// RenderPDF renders DOT source as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}
