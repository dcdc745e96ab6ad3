package tui

import (
	"fmt"
	"strings"
	"time"

	"synapse-cli/internal/board"
	"synapse-cli/internal/model"
)

// reportMarkdown builds the weekly status report as markdown, rendered by
// glamour in the report view. It is the console counterpart of the static
// HTML report.
func reportMarkdown(agg model.Aggregate, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Weekly Status Report\n\n")
	fmt.Fprintf(&b, "_Generated %s_\n\n", now.Format("Monday, 2 January 2006"))

	b.WriteString("## Projects\n\n")
	for _, col := range board.Group(agg.Projects, func(p model.Project) string { return p.Stage }) {
		fmt.Fprintf(&b, "### %s\n\n", col.Label)
		for _, p := range col.Cards {
			fmt.Fprintf(&b, "- **%s** — %s\n", board.OrPlaceholder(p.Name), board.OrPlaceholder(p.Status))
			fmt.Fprintf(&b, "  - Step: %s\n", board.OrPlaceholder(p.ProcessStep))
			fmt.Fprintf(&b, "  - Manager: %s · Customer: %s\n",
				board.OrPlaceholder(p.Manager), board.OrPlaceholder(p.Customer))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Customers\n\n")
	for _, col := range board.Group(agg.Customers, func(c model.Customer) string { return c.CRMPhase }) {
		fmt.Fprintf(&b, "### %s\n\n", col.Label)
		for _, c := range col.Cards {
			fmt.Fprintf(&b, "- **%s**: %s (next: %s)\n",
				board.OrPlaceholder(c.CompanyName),
				board.OrPlaceholder(c.InitialProjectIdea),
				board.OrPlaceholder(c.NextStepSummary))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Stakeholders\n\n")
	for _, col := range board.Group(agg.Stakeholders, func(s model.Stakeholder) string { return s.Phase }) {
		fmt.Fprintf(&b, "### %s\n\n", col.Label)
		for _, s := range col.Cards {
			fmt.Fprintf(&b, "- **%s**: %s (next: %s)\n",
				board.OrPlaceholder(s.Name),
				board.OrPlaceholder(s.Purpose),
				board.OrPlaceholder(s.NextStepSummary))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Open Tasks\n\n")
	if len(agg.Tasks) == 0 {
		b.WriteString("No open tasks.\n")
	} else {
		b.WriteString("| Task | Entity | Responsible | Due | Status |\n")
		b.WriteString("| --- | --- | --- | --- | --- |\n")
		for _, t := range agg.Tasks {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				mdCell(t.Title), mdCell(t.EntityName), mdCell(t.Responsible),
				mdCell(t.PlannedEnd), mdCell(t.Status))
		}
	}

	return b.String()
}

func mdCell(s string) string {
	return strings.ReplaceAll(board.OrPlaceholder(s), "|", "\\|")
}
