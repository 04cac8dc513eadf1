package handlers

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/84emllc/84em-local-pages-sub000/internal/core"
	"github.com/84emllc/84em-local-pages-sub000/internal/orchestrator"
)

// NewGenerateCmd creates the generate command covering bulk, per-state, and
// per-city generation.
func NewGenerateCmd() *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate [state] [city|all]",
		Short: "Create or update location pages",
		Long: `Create or update local pages. With no arguments every state and city page
is generated; existing pages are updated in place. Long runs checkpoint their
progress and resume automatically after an interruption.

Examples:
  localpages generate
  localpages generate --states-only
  localpages generate Iowa
  localpages generate Iowa "Des Moines"
  localpages generate Iowa all --with-state`,
		Args: cobra.MaximumNArgs(2),
		RunE: generateRunFunc,
	}

	generateCmd.Flags().Bool("states-only", false, "Generate state pages only, skip cities")
	generateCmd.Flags().Bool("with-state", false, "Also refresh the state page when generating cities")

	return generateCmd
}

func generateRunFunc(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	statesOnly, _ := cmd.Flags().GetBool("states-only")
	withState, _ := cmd.Flags().GetBool("with-state")
	ctx := cmd.Context()

	var report core.RunReport
	switch len(args) {
	case 0:
		report, err = a.orch.GenerateAll(ctx, statesOnly)
	case 1:
		report, err = a.orch.State(ctx, args[0])
	default:
		report, err = a.orch.City(ctx, args[0], args[1], withState)
	}
	if err != nil {
		return err
	}

	fmt.Println(orchestrator.RenderSummary(report))
	return nil
}
