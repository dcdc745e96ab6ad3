package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"synapse-cli/internal/model"
)

func newLogTable() table.Model {
	cols := []table.Column{
		{Title: "Timestamp", Width: 20},
		{Title: "Service", Width: 14},
		{Title: "Action", Width: 16},
		{Title: "Status", Width: 8},
		{Title: "Message", Width: 40},
	}

	st := table.DefaultStyles()
	st.Header = st.Header.
		Bold(true).
		Foreground(colorChrome).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorCardBdr).
		BorderBottom(true)
	st.Selected = st.Selected.
		Foreground(colorAccent).
		Bold(true)

	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithStyles(st),
	)
	return t
}

func logRows(logs []model.LogEntry) []table.Row {
	rows := make([]table.Row, 0, len(logs))
	for _, l := range logs {
		msg := l.Message
		if msg == "" {
			msg = l.Details
		}
		rows = append(rows, table.Row{l.Timestamp, l.Service, l.Action, l.Status, msg})
	}
	return rows
}
