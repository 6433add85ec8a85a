package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/starlake-ai/starlake-site-builder/pkg/search"
)

// searchCommand creates the one-shot search command.
func (c *CLI) searchCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search domains, tables and tasks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")

			records, err := search.BuildIndex(cmd.Context(), c.catalog(cfg))
			if err != nil {
				return err
			}
			hits := search.Rank(query, records, search.MaxResults)

			if asJSON {
				results := make([]search.Record, len(hits))
				for i, h := range hits {
					results[i] = h.Record
				}
				enc := json.NewEncoder(c.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"results": results})
			}

			p := printer{w: c.Out}
			if len(hits) == 0 {
				p.info("No results for %q", query)
				return nil
			}
			rows := make([][]string, len(hits))
			for i, h := range hits {
				rows[i] = []string{h.Record.Title, string(h.Record.Type), h.Record.Breadcrumb, fmt.Sprint(h.Score)}
			}
			p.line(renderTable([]string{"Title", "Type", "Path", "Score"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}
