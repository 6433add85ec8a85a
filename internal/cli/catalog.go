package cli

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"
)

// catalogCommand lists what the metadata directories contain.
func (c *CLI) catalogCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List load and transform domains",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			cat := c.catalog(cfg)
			load, transform := cat.LoadDomains(), cat.TransformDomains()

			if asJSON {
				enc := json.NewEncoder(c.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"load": load, "transform": transform})
			}

			p := printer{w: c.Out}
			if len(load) == 0 && len(transform) == 0 {
				p.warning("No domains found")
				p.detail("Set %s or pass --base-path", EnvBasePath)
				return nil
			}

			var rows [][]string
			for _, d := range load {
				rows = append(rows, []string{d.Name, "load", strconv.Itoa(len(d.Tables))})
			}
			for _, d := range transform {
				rows = append(rows, []string{d.Name, "transform", strconv.Itoa(len(d.Tasks))})
			}
			p.line(renderTable([]string{"Domain", "Section", "Entries"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")
	return cmd
}
