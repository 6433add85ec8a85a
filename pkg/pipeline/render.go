package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/starlake-ai/starlake-site-builder/pkg/diagram"
	"github.com/starlake-ai/starlake-site-builder/pkg/errors"
	"github.com/starlake-ai/starlake-site-builder/pkg/observability"
	"github.com/starlake-ai/starlake-site-builder/pkg/render/nodelink"
)

// Render generates output artifacts for g in the requested formats.
// The DOT source is produced once and shared by the drawing formats.
func Render(ctx context.Context, req Request, g diagram.Graph) (map[string][]byte, error) {
	var dot string
	dotFor := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(g, nodelink.Options{Detailed: req.Detailed})
		}
		return dot
	}

	hooks := observability.Pipeline()
	artifacts := make(map[string][]byte, len(req.Formats))
	for _, format := range req.Formats {
		hooks.OnRenderStart(ctx, string(req.Kind), req.ID(), format)
		start := time.Now()

		var data []byte
		var err error
		switch format {
		case FormatJSON:
			data, err = json.MarshalIndent(g, "", "  ")
		case FormatDOT:
			data = []byte(dotFor())
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dotFor())
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dotFor(), 2.0)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dotFor())
		default:
			err = fmt.Errorf("unsupported format: %s", format)
		}

		hooks.OnRenderComplete(ctx, string(req.Kind), req.ID(), format, len(data), time.Since(start), err)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
