package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/84emllc/84em-local-pages-sub000/internal/orchestrator"
)

// NewStatusCmd creates the status command, which reports page counts and any
// resumable checkpoints.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show page counts and pending checkpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			info, err := a.orch.Status(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(orchestrator.RenderStatus(info))
			return nil
		},
	}
}
