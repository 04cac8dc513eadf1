package handlers

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewIndexCmd creates the index command, which rebuilds the index page
// listing every state.
func NewIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Rebuild the index page listing all state pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.orch.RebuildIndex(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Index page rebuilt")
			return nil
		},
	}
}
