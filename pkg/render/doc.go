// Package render converts rendered diagrams between output formats.
//
// [ToPDF] and [ToPNG] turn any SVG into PDF or PNG with the external
// rsvg-convert tool (from librsvg). The [nodelink] subpackage produces the
// SVG in the first place.
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [nodelink]: github.com/starlake-ai/starlake-site-builder/pkg/render/nodelink
package render
