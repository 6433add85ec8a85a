package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/starlake-ai/starlake-site-builder/pkg/seo"
)

// sitemapCommand prints or writes sitemap.xml.
func (c *CLI) sitemapCommand() *cobra.Command {
	var output, siteURL string

	cmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Generate sitemap.xml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if siteURL != "" {
				cfg.SiteURL = siteURL
			}
			cat := c.catalog(cfg)
			urls := seo.Sitemap(cfg.SiteURL, cat.LoadDomains(), cat.TransformDomains(), time.Now())
			return c.writeOutput(output, func(w io.Writer) error { return seo.WriteSitemap(w, urls) })
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&siteURL, "site-url", "", "public origin (default "+seo.DefaultBaseURL+")")
	return cmd
}

// robotsCommand prints or writes robots.txt.
func (c *CLI) robotsCommand() *cobra.Command {
	var output, siteURL string

	cmd := &cobra.Command{
		Use:   "robots",
		Short: "Generate robots.txt",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if siteURL != "" {
				cfg.SiteURL = siteURL
			}
			return c.writeOutput(output, func(w io.Writer) error {
				_, err := io.WriteString(w, seo.Robots(cfg.SiteURL))
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&siteURL, "site-url", "", "public origin (default "+seo.DefaultBaseURL+")")
	return cmd
}

// writeOutput runs write against path, or against the command output when
// path is empty.
func (c *CLI) writeOutput(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(c.Out)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	printer{w: os.Stderr}.file(path)
	return nil
}
