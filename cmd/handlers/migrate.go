package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/84emllc/84em-local-pages-sub000/internal/orchestrator"
)

// NewMigrateCmd creates the migrate command, which renames legacy flat slugs
// to the current hierarchical structure. City children resolve their new URLs
// through the parent-slug change alone.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Migrate legacy state-page slugs to the current URL structure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.orch.MigrateURLs(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(orchestrator.RenderSummary(report))
			return nil
		},
	}
}
