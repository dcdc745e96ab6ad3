// Package report renders the project status report as a single static HTML
// file: grouped kanban tables for customers, stakeholders and projects,
// plus a flat tasks table, with print-friendly CSS.
package report

import (
	"html/template"
	"io"
	"os"
	"time"

	"synapse-cli/internal/board"
	"synapse-cli/internal/model"
)

type Data struct {
	GeneratedAt time.Time
	Aggregate   model.Aggregate
}

type viewModel struct {
	GeneratedOn     string
	CustomerCols    []board.Column[model.Customer]
	StakeholderCols []board.Column[model.Stakeholder]
	ProjectCols     []board.Column[model.Project]
	Tasks           []model.Task
}

// Render writes the report HTML to w.
func Render(w io.Writer, d Data) error {
	vm := viewModel{
		GeneratedOn:     d.GeneratedAt.Format("2006-01-02 15:04:05 MST"),
		CustomerCols:    board.Group(d.Aggregate.Customers, func(c model.Customer) string { return c.CRMPhase }),
		StakeholderCols: board.Group(d.Aggregate.Stakeholders, func(s model.Stakeholder) string { return s.Phase }),
		ProjectCols:     board.Group(d.Aggregate.Projects, func(p model.Project) string { return p.Stage }),
		Tasks:           d.Aggregate.Tasks,
	}
	return reportTmpl.Execute(w, vm)
}

// WriteFile renders the report to path, overwriting any previous report.
func WriteFile(path string, d Data) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Render(f, d); err != nil {
		return err
	}
	return f.Close()
}

// projectStatusColor mirrors the board's status palette for print.
func projectStatusColor(status string) string {
	switch status {
	case "Potential":
		return "#660099"
	case "Active":
		return "#3300FF"
	case "On Hold":
		return "#CC9900"
	case "Blocked":
		return "#680000"
	case "Completed":
		return "#00FF00"
	default:
		return "#585858"
	}
}

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"orNA":        board.OrPlaceholder,
	"statusColor": projectStatusColor,
}).Parse(reportTemplate))
