package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/trove"
	"github.com/aretw0/trove/internal/registry"
)

// ReportMarkdown summarizes a reload.
func ReportMarkdown(r *registry.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Snapshot `%s`\n\n", r.SnapshotID)
	fmt.Fprintf(&sb, "- **Assets:** %d\n", r.Assets)
	fmt.Fprintf(&sb, "- **Dropped:** %d\n", r.Dropped)
	fmt.Fprintf(&sb, "- **Duration:** %s\n\n", r.Duration)

	if !r.HasProblems() {
		sb.WriteString("No problems found.\n")
		return sb.String()
	}
	fmt.Fprintf(&sb, "## Problems (%d)\n\n", len(r.Problems))
	sb.WriteString("| Path | Problem |\n|---|---|\n")
	for _, p := range r.Problems {
		fmt.Fprintf(&sb, "| `%s` | %s |\n", p.Path, escapeCell(p.Message))
	}
	return sb.String()
}

// ResultMarkdown lists the items of one or more rolls of the same table.
func ResultMarkdown(results []*trove.Result) string {
	var sb strings.Builder
	for i, res := range results {
		if len(results) > 1 {
			fmt.Fprintf(&sb, "## Roll %d\n\n", i+1)
		} else {
			fmt.Fprintf(&sb, "# %s\n\n", res.Table)
		}
		fmt.Fprintf(&sb, "_seed %d_\n\n", res.Seed)
		if len(res.Items) == 0 {
			sb.WriteString("Nothing dropped.\n\n")
			continue
		}
		sb.WriteString("| Item | Count | Tags |\n|---|---:|---|\n")
		for _, item := range res.Items {
			fmt.Fprintf(&sb, "| %s | %d | %s |\n", item.Name, item.Count, tagList(item.Tags))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func tagList(tags map[string]any) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, 0, len(tags))
	for k, v := range tags {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	slices.Sort(parts)
	return escapeCell(strings.Join(parts, ", "))
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
