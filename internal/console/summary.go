package console

import (
	"fmt"
	"io"

	"github.com/daniloc96/canvas-xnat-sync/internal/models"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderSummary prints the totals of a run as a table.
func RenderSummary(out io.Writer, result *models.RunResult) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	title := "Integration summary"
	if result.DryRun {
		title += " [DRY RUN]"
	}
	tw.SetTitle(title)
	tw.AppendHeader(table.Row{"Metric", "Value"})
	tw.AppendRows([]table.Row{
		{"Courses", result.Summary.Courses},
		{"XNAT users", result.Summary.DirectorySize},
		{"Projects created", result.Summary.ProjectsCreated},
		{"Participants processed", result.Counters.Processed},
		{"Users verified", result.Counters.Verified},
		{"Users enabled", result.Counters.Enabled},
		{"Added to project", result.Counters.AddedToProject},
		{"Pending (no login)", result.Summary.PendingSkipped},
		{"Not in XNAT", result.Summary.UnmatchedSkipped},
		{"Actions failed", result.Summary.ActionsFailed},
	})
	tw.AppendFooter(table.Row{"Duration", fmt.Sprintf("%dms", result.DurationMs)})
	tw.Style().Format.Footer = text.FormatDefault
	tw.Render()

	if len(result.Errors) == 0 {
		return
	}
	ew := table.NewWriter()
	ew.SetOutputMirror(out)
	ew.AppendHeader(table.Row{"#", "Error"})
	for i, msg := range result.Errors {
		ew.AppendRow(table.Row{i + 1, msg})
	}
	ew.Render()
}

// RenderHistory prints recorded runs, one row per run.
func RenderHistory(out io.Writer, records []models.RunRecord) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.AppendHeader(table.Row{"Started", "Run", "Dry run", "Courses", "Processed", "Verified", "Enabled", "Added", "Created", "Failed"})
	for _, r := range records {
		tw.AppendRow(table.Row{
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.RunID,
			r.DryRun,
			r.Courses,
			r.Processed,
			r.Verified,
			r.Enabled,
			r.AddedToProject,
			r.ProjectsCreated,
			r.ActionsFailed,
		})
	}
	tw.Render()
}
