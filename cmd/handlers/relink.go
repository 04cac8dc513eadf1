package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/84emllc/84em-local-pages-sub000/internal/orchestrator"
)

// NewRelinkCmd creates the relink command, which strips the known keyword and
// location anchors and reruns linking from a clean slate.
func NewRelinkCmd() *cobra.Command {
	relinkCmd := &cobra.Command{
		Use:   "relink",
		Short: "Rerun keyword and location linking across existing pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			state, _ := cmd.Flags().GetString("state")
			report, err := a.orch.RelinkAll(cmd.Context(), state)
			if err != nil {
				return err
			}
			fmt.Println(orchestrator.RenderSummary(report))
			return nil
		},
	}

	relinkCmd.Flags().String("state", "", "Limit to one state's pages")
	return relinkCmd
}
