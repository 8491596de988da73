package cmdutil

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"gedops/internal/cleanup"
	"gedops/internal/types"
)

// RenderCandidates prints a dry-run candidate listing.
func RenderCandidates(job string, items []cleanup.Item) {
	if len(items) == 0 {
		Print(fmt.Sprintf("no %s cleanup candidates", job))
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Description", "Age (days)", "Size"})
	for _, item := range items {
		size := ""
		if item.Size > 0 {
			size = FormatBytes(item.Size)
		}
		t.AppendRow(table.Row{item.ID, item.Description, item.AgeDays, size})
	}
	t.Render()
}

// RenderArtifacts prints the backup catalog.
func RenderArtifacts(artifacts []*types.Artifact) {
	if len(artifacts) == 0 {
		Print("no artifacts in catalog")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Source", "Location", "Size", "Verified", "Created"})
	for _, a := range artifacts {
		t.AppendRow(table.Row{
			a.ID, a.Source, a.Location,
			FormatBytes(a.Size), a.Verified,
			a.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	t.Render()
}

func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
