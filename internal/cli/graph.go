package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/starlake-ai/starlake-site-builder/pkg/diagram"
	"github.com/starlake-ai/starlake-site-builder/pkg/pipeline"
)

// graphOpts holds the flags shared by the graph subcommands.
type graphOpts struct {
	output   string // output file, or base path when several formats are asked
	formats  string // comma-separated formats
	detailed bool   // column types in drawings
	refresh  bool   // bypass cached graphs and artifacts
	noCache  bool   // disable the cache entirely
}

// graphCommand creates the diagram export command.
func (c *CLI) graphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export relation and lineage diagrams",
	}
	cmd.AddCommand(c.graphKindCommand(diagram.KindRelations, "relations <domain> <table>", "Export the relations diagram of a table"))
	cmd.AddCommand(c.graphKindCommand(diagram.KindLineage, "lineage <domain> <task>", "Export the column lineage diagram of a task"))
	return cmd
}

func (c *CLI) graphKindCommand(kind diagram.Kind, use, short string) *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, kind, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout for one format, <domain>.<name>-<kind>.<format> otherwise)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.DefaultFormat, "output formats: json, dot, svg, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show column types")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, kind diagram.Kind, domain, name string, opts graphOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.config()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, c.catalog(cfg), opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	req := pipeline.Request{
		Kind:     kind,
		Domain:   domain,
		Name:     name,
		Formats:  parseFormats(opts.formats),
		Detailed: opts.detailed,
		Refresh:  opts.refresh,
	}

	prog := newProgress(logger)
	spin := newSpinner(ctx, os.Stderr, fmt.Sprintf("Building %s of %s...", kind, req.ID()))
	spin.Start()
	res, err := runner.Execute(ctx, req)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Built %s of %s", kind, req.ID()))
	if !res.Found {
		logger.Warn("no document found, the diagram is empty", "kind", kind, "id", req.ID())
	}

	if len(req.Formats) == 1 && opts.output == "" {
		_, err := c.Out.Write(res.Artifacts[req.Formats[0]])
		return err
	}

	p := printer{w: os.Stderr}
	for _, format := range req.Formats {
		path := outputPath(opts.output, req, format)
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		p.file(path)
	}
	p.stats(len(res.Graph.Nodes), len(res.Graph.Edges), res.CacheInfo.BuildHit && res.CacheInfo.RenderHit)
	return nil
}

// parseFormats splits a comma-separated format list, dropping blanks.
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return []string{pipeline.DefaultFormat}
	}
	return out
}

// outputPath names the file of one format. An explicit output is used as is
// for a single format and as a base (extension stripped) for several.
func outputPath(output string, req pipeline.Request, format string) string {
	if output != "" && len(req.Formats) == 1 {
		return output
	}
	base := output
	if base == "" {
		base = req.ID() + "-" + string(req.Kind)
	} else if i := strings.LastIndex(base, "."); i > strings.LastIndexAny(base, `/\`) {
		base = base[:i]
	}
	return base + "." + format
}
