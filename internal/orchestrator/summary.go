package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/84emllc/84em-local-pages-sub000/internal/core"
	"github.com/84emllc/84em-local-pages-sub000/internal/pages"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().Bold(true)
	successStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	partialStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failureLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	summaryBoxStyle   = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1)
)

// RenderSummary formats the terminal summary block for a finished run.
func RenderSummary(report core.RunReport) string {
	var b strings.Builder

	b.WriteString(summaryTitleStyle.Render(fmt.Sprintf("Run summary: %s", report.Operation)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total: %d  Created: %d  Updated: %d  Failed: %d  Skipped: %d\n",
		report.Total, report.Created, report.Updated, report.Failed, report.Skipped)
	fmt.Fprintf(&b, "Duration: %s\n", report.Duration.Round(time.Second))

	if report.FullSuccess() {
		b.WriteString(successStyle.Render("All locations succeeded"))
	} else {
		b.WriteString(partialStyle.Render(fmt.Sprintf("Partial success: %d location(s) failed", report.Failed)))
		for _, f := range report.Failures {
			b.WriteString("\n" + failureLineStyle.Render("  - "+f))
		}
	}
	return summaryBoxStyle.Render(b.String())
}

// StatusInfo summarizes what exists on the site and whether any bulk run has
// a resumable checkpoint.
type StatusInfo struct {
	StatePages  int
	CityPages   int
	Checkpoints []core.Checkpoint
}

// statusOperations are the bulk operations whose checkpoints Status reports.
var statusOperations = []string{"generate-all", "update-all"}

// Status reports page counts and pending checkpoints.
func (o *Orchestrator) Status(ctx context.Context) (StatusInfo, error) {
	var info StatusInfo

	existing, err := o.Store.FindAll(ctx, pages.Filter{})
	if err != nil {
		return info, fmt.Errorf("failed to list pages: %w", err)
	}
	for _, p := range existing {
		if p.IsStatePage() {
			info.StatePages++
		} else {
			info.CityPages++
		}
	}

	for _, op := range statusOperations {
		cp, err := o.Checkpoints.Load(op)
		if err != nil {
			return info, err
		}
		if cp != nil {
			info.Checkpoints = append(info.Checkpoints, *cp)
		}
	}
	return info, nil
}

// RenderStatus formats the status block for the terminal.
func RenderStatus(info StatusInfo) string {
	var b strings.Builder
	b.WriteString(summaryTitleStyle.Render("Local pages status"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "State pages: %d / 50\n", info.StatePages)
	fmt.Fprintf(&b, "City pages:  %d / 500", info.CityPages)
	if len(info.Checkpoints) == 0 {
		b.WriteString("\n" + successStyle.Render("No pending checkpoints"))
	} else {
		for _, cp := range info.Checkpoints {
			b.WriteString("\n" + partialStyle.Render(fmt.Sprintf(
				"Resumable %s run: %d location(s) completed", cp.OperationType, len(cp.Completed))))
		}
	}
	return summaryBoxStyle.Render(b.String())
}
