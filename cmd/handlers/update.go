package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/84emllc/84em-local-pages-sub000/internal/orchestrator"
)

// NewUpdateCmd creates the update command, which regenerates every existing
// location page without creating new ones.
func NewUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Regenerate every existing location page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.orch.UpdateAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(orchestrator.RenderSummary(report))
			return nil
		},
	}
}
