package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewSitemapCmd creates the sitemap command.
func NewSitemapCmd() *cobra.Command {
	sitemapCmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Rebuild the sitemap XML from the published location pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			xml, err := a.orch.RebuildSitemap(cmd.Context())
			if err != nil {
				return err
			}

			output, _ := cmd.Flags().GetString("output")
			if output == "-" {
				fmt.Print(xml)
				return nil
			}
			if err := os.WriteFile(output, []byte(xml), 0644); err != nil {
				return fmt.Errorf("failed to write sitemap: %w", err)
			}
			fmt.Printf("Wrote sitemap to %s\n", output)
			return nil
		},
	}

	sitemapCmd.Flags().StringP("output", "o", "sitemap.xml", "Output file, or - for stdout")
	return sitemapCmd
}
