package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// chromeLines is the vertical space taken by the header, nav, flash line
// and footer around the active view's content area.
const chromeLines = 6

func (m appModel) View() string {
	if !m.authenticated {
		return m.loginView()
	}
	return m.dashView()
}

func (m *appModel) resizeDash() {
	w := max(m.width, 40)
	h := max(m.height-chromeLines, 6)

	m.dash.boardVP.Width = w
	m.dash.boardVP.Height = h
	m.dash.reportVP.Width = w
	m.dash.reportVP.Height = h
	m.dash.logTable.SetWidth(w)
	m.dash.logTable.SetHeight(h)

	m.refreshDashContent()
}

// refreshDashContent re-renders the width-dependent viewport contents.
func (m *appModel) refreshDashContent() {
	if !m.dash.aggLoaded {
		return
	}
	w := max(m.width, 40)
	m.dash.boardVP.SetContent(renderBoard(m.dash.agg, w))
	m.dash.reportVP.SetContent(renderMarkdown(reportMarkdown(m.dash.agg, m.now()), min(w, 100)))
}

func (m appModel) loginView() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("Nueroflux Project Admin")
	sub := styleMuted().Render("Sign in to continue")

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(sub)
	b.WriteString("\n\n")

	if m.flash.kind != flashNone {
		b.WriteString(m.flashLine())
		b.WriteString("\n\n")
	}

	b.WriteString("  Email\n  ")
	b.WriteString(m.login.identifier.View())
	b.WriteString("\n\n  Password\n  ")
	b.WriteString(m.login.secret.View())
	b.WriteString("\n\n")

	switch {
	case m.login.submitting:
		b.WriteString("  " + m.loading.View() + " Signing in...")
	case m.login.localErr != "" && m.flash.kind == flashNone:
		// The root flash owns the line above the form; while it is showing,
		// the local form error stays hidden.
		errStyle := lipgloss.NewStyle().Foreground(colorFailure)
		b.WriteString("  " + errStyle.Render(m.login.localErr))
	default:
		b.WriteString("  " + styleMuted().Render("enter: sign in  tab: switch field  ctrl+c: quit"))
	}
	b.WriteString("\n")

	if m.width > 0 {
		return lipgloss.NewStyle().Width(m.width).Render(b.String())
	}
	return b.String()
}

func (m appModel) dashView() string {
	var b strings.Builder

	header := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("Nueroflux Project Admin")
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(m.navLine())
	b.WriteString("\n")
	b.WriteString(m.flashLine())
	b.WriteString("\n")

	switch m.view {
	case viewReport:
		b.WriteString(m.reportBody())
	case viewLogs:
		b.WriteString(m.logsBody())
	default:
		b.WriteString(m.boardBody())
	}

	b.WriteString("\n")
	b.WriteString(styleMuted().Render("1/2/3 or tab: switch view  ctrl+l: sign out  q: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m appModel) navLine() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	inactive := styleMuted()

	parts := make([]string, 0, 3)
	for _, v := range []view{viewBoard, viewReport, viewLogs} {
		label := viewTitle(v)
		if v == m.view {
			parts = append(parts, active.Render("["+label+"]"))
		} else {
			parts = append(parts, inactive.Render(" "+label+" "))
		}
	}
	return strings.Join(parts, "  ")
}

func (m appModel) flashLine() string {
	switch m.flash.kind {
	case flashWarning:
		return lipgloss.NewStyle().Foreground(colorWarning).Bold(true).Render("! " + m.flash.text)
	case flashError:
		return lipgloss.NewStyle().Foreground(colorFailure).Bold(true).Render("✗ " + m.flash.text)
	case flashInfo:
		return lipgloss.NewStyle().Foreground(colorInfo).Render(m.flash.text)
	default:
		return ""
	}
}

func (m appModel) boardBody() string {
	if !m.dash.aggLoaded {
		return m.loading.View() + " Loading dashboard..."
	}
	return m.dash.boardVP.View()
}

func (m appModel) reportBody() string {
	if !m.dash.aggLoaded {
		return m.loading.View() + " Loading dashboard..."
	}
	return m.dash.reportVP.View()
}

func (m appModel) logsBody() string {
	if !m.dash.logsLoaded {
		return m.loading.View() + " Loading sync logs..."
	}
	if m.dash.logsErr != "" {
		return lipgloss.NewStyle().Foreground(colorFailure).Render(m.dash.logsErr)
	}
	if len(m.dash.logs) == 0 {
		return styleMuted().Render("No sync activity recorded yet.")
	}
	return m.dash.logTable.View()
}
