package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/84emllc/84em-local-pages-sub000/internal/orchestrator"
)

// NewSchemaCmd creates the schema command, which recomputes structured data
// without touching page content.
func NewSchemaCmd() *cobra.Command {
	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Regenerate JSON-LD schema for all or filtered pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			state, _ := cmd.Flags().GetString("state")
			report, err := a.orch.RegenerateSchemas(cmd.Context(), state)
			if err != nil {
				return err
			}
			fmt.Println(orchestrator.RenderSummary(report))
			return nil
		},
	}

	schemaCmd.Flags().String("state", "", "Limit to one state's pages")
	return schemaCmd
}
