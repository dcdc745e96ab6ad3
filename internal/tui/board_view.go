package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"synapse-cli/internal/board"
	"synapse-cli/internal/model"
)

// renderBoard produces the full dashboard body: three kanban sections and
// the open-tasks listing. Columns come from board.Group, so their order and
// the card order inside them follow the grouping rules, not render order.
func renderBoard(agg model.Aggregate, width int) string {
	var b strings.Builder

	b.WriteString(filterBar(agg))
	b.WriteString("\n\n")

	b.WriteString(sectionTitle("Projects"))
	b.WriteString("\n")
	b.WriteString(renderColumns(
		board.Group(agg.Projects, func(p model.Project) string { return p.Stage }),
		projectCard,
		func(label string) board.Class { return board.StageClass(label) },
		width,
	))
	b.WriteString("\n\n")

	b.WriteString(sectionTitle("Customers"))
	b.WriteString("\n")
	b.WriteString(renderColumns(
		board.Group(agg.Customers, func(c model.Customer) string { return c.CRMPhase }),
		customerCard,
		func(string) board.Class { return board.ClassDefault },
		width,
	))
	b.WriteString("\n\n")

	b.WriteString(sectionTitle("Stakeholders"))
	b.WriteString("\n")
	b.WriteString(renderColumns(
		board.Group(agg.Stakeholders, func(s model.Stakeholder) string { return s.Phase }),
		stakeholderCard,
		func(string) board.Class { return board.ClassDefault },
		width,
	))
	b.WriteString("\n\n")

	b.WriteString(sectionTitle("Tasks"))
	b.WriteString("\n")
	b.WriteString(renderTasks(agg.Tasks, width))

	return b.String()
}

// filterBar is a static summary strip above the board. The counts are live;
// the controls themselves are not interactive.
func filterBar(agg model.Aggregate) string {
	chip := lipgloss.NewStyle().Foreground(colorChrome)
	return chip.Render(fmt.Sprintf(
		"Filters: All types ▾  All assignees ▾    %d projects · %d customers · %d stakeholders · %d tasks",
		len(agg.Projects), len(agg.Customers), len(agg.Stakeholders), len(agg.Tasks),
	))
}

func sectionTitle(s string) string {
	return lipgloss.NewStyle().Bold(true).Underline(true).Render(s)
}

func projectCard(p model.Project, w int) []string {
	title := xansi.Truncate(board.OrPlaceholder(p.Name), w, "…")
	statusStyle := lipgloss.NewStyle().Foreground(classColor(board.StageClass(p.Stage)))
	return []string{
		lipgloss.NewStyle().Bold(true).Render(title),
		statusStyle.Render(board.OrPlaceholder(p.Status)),
		cardMeta("Step", p.ProcessStep, w),
		cardMeta("Manager", p.Manager, w),
		cardMeta("Customer", p.Customer, w),
	}
}

func customerCard(c model.Customer, w int) []string {
	title := xansi.Truncate(board.OrPlaceholder(c.CompanyName), w, "…")
	return []string{
		lipgloss.NewStyle().Bold(true).Render(title),
		cardMeta("Idea", c.InitialProjectIdea, w),
		cardMeta("Next", c.NextStepSummary, w),
		cardMeta("Status", c.Status, w),
	}
}

func stakeholderCard(s model.Stakeholder, w int) []string {
	title := xansi.Truncate(board.OrPlaceholder(s.Name), w, "…")
	return []string{
		lipgloss.NewStyle().Bold(true).Render(title),
		cardMeta("Purpose", s.Purpose, w),
		cardMeta("Next", s.NextStepSummary, w),
		cardMeta("Status", s.Status, w),
	}
}

func cardMeta(label, value string, w int) string {
	line := label + ": " + board.OrPlaceholder(value)
	return styleMuted().Render(xansi.Truncate(line, w, "…"))
}

// renderColumns lays the columns out side by side at equal widths.
func renderColumns[T any](cols []board.Column[T], card func(T, int) []string, headClass func(string) board.Class, width int) string {
	n := len(cols)
	if n == 0 {
		return styleMuted().Render("Nothing here yet.")
	}

	gap := 2
	avail := width - gap*(n-1)
	if avail < n {
		avail = n
	}
	colW := avail / n
	if colW < 14 {
		colW = 14
	}
	innerW := colW - 2

	colStyle := lipgloss.NewStyle().
		Width(colW).
		Padding(0, 1).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(colorCardBdr)

	rendered := make([]string, 0, n)
	for _, col := range cols {
		var cb strings.Builder
		headStyle := lipgloss.NewStyle().Bold(true).Foreground(classColor(headClass(col.Label)))
		cb.WriteString(headStyle.Render(xansi.Truncate(col.Label, innerW, "…")))
		cb.WriteString(styleMuted().Render(fmt.Sprintf(" (%d)", len(col.Cards))))
		cb.WriteString("\n")
		for _, c := range col.Cards {
			cb.WriteString("\n")
			for _, line := range card(c, innerW) {
				cb.WriteString(line)
				cb.WriteString("\n")
			}
		}
		rendered = append(rendered, colStyle.Render(strings.TrimRight(cb.String(), "\n")))
	}

	out := rendered[0]
	sep := strings.Repeat(" ", gap)
	for i := 1; i < len(rendered); i++ {
		out = lipgloss.JoinHorizontal(lipgloss.Top, out, sep, rendered[i])
	}
	return out
}

func renderTasks(tasks []model.Task, width int) string {
	if len(tasks) == 0 {
		return styleMuted().Render("No open tasks.")
	}

	var b strings.Builder
	for i, t := range tasks {
		if i > 0 {
			b.WriteString("\n")
		}
		statusStyle := lipgloss.NewStyle().Foreground(classColor(board.TaskStatusClass(t.Status)))
		mark := " "
		if strings.EqualFold(t.Importance, "yes") || strings.EqualFold(t.Importance, "true") {
			mark = lipgloss.NewStyle().Foreground(colorWarning).Render("★")
		}
		line := fmt.Sprintf("%s %s  %s", mark,
			statusStyle.Render("["+board.OrPlaceholder(t.Status)+"]"),
			lipgloss.NewStyle().Bold(true).Render(board.OrPlaceholder(t.Title)))
		b.WriteString(xansi.Truncate(line, width, "…"))
		b.WriteString("\n")
		meta := fmt.Sprintf("    %s · %s · due %s",
			board.OrPlaceholder(t.EntityName),
			board.OrPlaceholder(t.Responsible),
			board.OrPlaceholder(t.PlannedEnd))
		b.WriteString(styleMuted().Render(xansi.Truncate(meta, width, "…")))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
