package handlers

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeleteCmd creates the delete command. Deleting a state also deletes its
// city pages.
func NewDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <state> [city]",
		Short: "Delete a state page (and its cities) or a single city page",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.Close()

			city := ""
			if len(args) == 2 {
				city = args[1]
			}
			if err := a.orch.Delete(cmd.Context(), args[0], city); err != nil {
				return err
			}
			if city != "" {
				fmt.Printf("Deleted city page for %s, %s\n", city, args[0])
			} else {
				fmt.Printf("Deleted state page for %s and its city pages\n", args[0])
			}
			return nil
		},
	}
}
