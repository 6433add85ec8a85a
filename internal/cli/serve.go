package cli

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/starlake-ai/starlake-site-builder/pkg/server"
)

// serveCommand creates the HTTP server command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		siteURL string
		noCache bool
		noWatch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the documentation API",
		Long: `Serve the documentation API over HTTP.

The metadata directories are watched for changes; any change drops the
search index so the next query sees the new catalog.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("site-url") {
				cfg.SiteURL = siteURL
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cfg, noCache, noWatch)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&siteURL, "site-url", "", "public origin used in sitemap.xml and robots.txt")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the diagram cache")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not watch the metadata directories")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg Config, noCache, noWatch bool) error {
	c.registerHooks()

	cat := c.catalog(cfg)
	runner, err := c.newRunner(ctx, cfg, cat, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	store, err := newPrefs(ctx, cfg.Prefs)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(server.Config{
		Catalog: cat,
		Runner:  runner,
		Prefs:   store,
		SiteURL: cfg.SiteURL,
		Logger:  c.Logger,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(ctx, cfg.Addr) })

	if dirs := server.MetadataDirs(cfg.BasePath, cfg.TransformBasePath); !noWatch && len(dirs) > 0 {
		w, err := server.NewWatcher(dirs, func(string) { srv.Index().Invalidate() }, c.Logger.WithPrefix("watch"))
		if err != nil {
			c.Logger.Warn("metadata changes will not be picked up", "error", err)
		} else {
			g.Go(func() error { return w.Run(ctx) })
		}
	}

	return g.Wait()
}
