package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"synapse-cli/internal/api"
	"synapse-cli/internal/idle"
)

const (
	flashSessionExpired = "Session expired or invalid. Please log in again."
	flashFetchFailed    = "An error has occurred. Please log in again."
	flashIdleWarning    = "You will be signed out soon due to inactivity."
	flashIdleTimeout    = "You have been signed out due to inactivity."
	loginErrBadDetails  = "Your login details are incorrect"
)

func (m appModel) Init() tea.Cmd {
	if m.authenticated {
		return tea.Batch(
			m.fetchAggregateCmd(m.sessionGen),
			m.fetchLogsCmd(m.sessionGen),
			m.scheduleIdleCmd(),
			m.loading.Tick,
		)
	}
	return textinput.Blink
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeDash()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.authenticated {
			return m.updateDashKey(msg)
		}
		return m.updateLoginKey(msg)

	case tea.MouseMsg:
		if !m.authenticated {
			return m, nil
		}
		// Pointer movement, presses and wheel scroll all count as activity.
		cmd := m.touchActivity()
		var vpCmd tea.Cmd
		switch m.view {
		case viewBoard:
			m.dash.boardVP, vpCmd = m.dash.boardVP.Update(msg)
		case viewReport:
			m.dash.reportVP, vpCmd = m.dash.reportVP.Update(msg)
		case viewLogs:
			m.dash.logTable, vpCmd = m.dash.logTable.Update(msg)
		}
		return m, tea.Batch(cmd, vpCmd)

	case loginResultMsg:
		return m.applyLoginResult(msg)

	case aggregateMsg:
		return m.applyAggregate(msg)

	case logsMsg:
		return m.applyLogs(msg)

	case idleTickMsg:
		return m.applyIdleTick(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loading, cmd = m.loading.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m appModel) updateLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.login.focusOnID = !m.login.focusOnID
		if m.login.focusOnID {
			m.login.identifier.Focus()
			m.login.secret.Blur()
		} else {
			m.login.secret.Focus()
			m.login.identifier.Blur()
		}
		return m, textinput.Blink

	case "enter":
		if m.login.submitting {
			return m, nil
		}
		identifier := strings.TrimSpace(m.login.identifier.Value())
		secret := m.login.secret.Value()
		if identifier == "" || secret == "" {
			m.login.localErr = "Email and password are required"
			return m, nil
		}
		m.login.submitting = true
		m.login.localErr = ""
		return m, tea.Batch(m.loginCmd(identifier, secret), m.loading.Tick)
	}

	var cmd tea.Cmd
	if m.login.focusOnID {
		m.login.identifier, cmd = m.login.identifier.Update(msg)
	} else {
		m.login.secret, cmd = m.login.secret.Update(msg)
	}
	return m, cmd
}

func (m appModel) updateDashKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	activityCmd := m.touchActivity()

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		m.view = viewBoard
		return m, activityCmd
	case "2":
		m.view = viewReport
		return m, activityCmd
	case "3":
		m.view = viewLogs
		return m, activityCmd
	case "tab":
		switch m.view {
		case viewBoard:
			m.view = viewReport
		case viewReport:
			m.view = viewLogs
		default:
			m.view = viewBoard
		}
		return m, activityCmd
	case "ctrl+l":
		// Explicit logout carries no flash; the login view speaks for itself.
		m.leaveAuthenticated(flash{})
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	switch m.view {
	case viewBoard:
		m.dash.boardVP, cmd = m.dash.boardVP.Update(msg)
	case viewReport:
		m.dash.reportVP, cmd = m.dash.reportVP.Update(msg)
	case viewLogs:
		m.dash.logTable, cmd = m.dash.logTable.Update(msg)
	}
	return m, tea.Batch(activityCmd, cmd)
}

// touchActivity records qualifying user activity: the idle counter resets,
// a pending warning notice is withdrawn, and the wakeup is rescheduled
// under a fresh seq.
func (m *appModel) touchActivity() tea.Cmd {
	if m.monitor == nil {
		return nil
	}
	m.monitor.Touch(m.now())
	if m.flash.kind == flashWarning {
		m.flash = flash{}
	}
	m.idleSeq++
	return m.scheduleIdleCmd()
}

func (m appModel) applyLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	if m.authenticated || !m.login.submitting {
		return m, nil
	}
	m.login.submitting = false

	if msg.err != nil {
		// Rejected credentials and unparsable envelopes read the same to the
		// user; anything else passes through verbatim.
		if errors.Is(msg.err, api.ErrInvalidCredentials) || errors.Is(msg.err, api.ErrMalformedResponse) {
			m.login.localErr = loginErrBadDetails
		} else {
			m.login.localErr = msg.err.Error()
		}
		return m, nil
	}

	if err := m.cfg.Sessions.SetToken(msg.token); err != nil {
		m.login.localErr = "Could not save session: " + err.Error()
		return m, nil
	}

	// Success clears the flash channel and any form error.
	m.flash = flash{}
	m.login.localErr = ""
	m.login.secret.SetValue("")
	m.enterAuthenticated()
	return m, tea.Batch(
		m.fetchAggregateCmd(m.sessionGen),
		m.fetchLogsCmd(m.sessionGen),
		m.scheduleIdleCmd(),
		m.loading.Tick,
	)
}

func (m appModel) applyAggregate(msg aggregateMsg) (tea.Model, tea.Cmd) {
	if !m.authenticated || msg.gen != m.sessionGen {
		return m, nil
	}

	if msg.err != nil {
		if errors.Is(msg.err, api.ErrSessionExpired) || errors.Is(msg.err, api.ErrUnauthenticated) {
			m.leaveAuthenticated(flash{kind: flashError, text: flashSessionExpired})
		} else {
			// Transport and server failures end the session too; see DESIGN.md
			// for why this matches the upstream behavior instead of retrying.
			m.leaveAuthenticated(flash{kind: flashError, text: flashFetchFailed})
		}
		return m, textinput.Blink
	}

	m.dash.agg = msg.agg
	m.dash.aggLoaded = true
	m.refreshDashContent()
	return m, nil
}

func (m appModel) applyLogs(msg logsMsg) (tea.Model, tea.Cmd) {
	if !m.authenticated || msg.gen != m.sessionGen {
		return m, nil
	}

	if msg.err != nil {
		// Isolated failure: the logs panel degrades on its own and must not
		// touch the session or the other views.
		m.dash.logsErr = "Could not load sync logs."
		m.dash.logsLoaded = true
		return m, nil
	}

	m.dash.logs = msg.logs
	m.dash.logsLoaded = true
	m.dash.logsErr = ""
	m.dash.logTable.SetRows(logRows(msg.logs))
	return m, nil
}

func (m appModel) applyIdleTick(msg idleTickMsg) (tea.Model, tea.Cmd) {
	if !m.authenticated || m.monitor == nil || msg.seq != m.idleSeq {
		return m, nil
	}

	switch m.monitor.Tick(m.now()) {
	case idle.Warn:
		m.flash = flash{kind: flashWarning, text: flashIdleWarning}
		m.idleSeq++
		return m, m.scheduleIdleCmd()
	case idle.Expire:
		m.leaveAuthenticated(flash{kind: flashError, text: flashIdleTimeout})
		return m, textinput.Blink
	default:
		m.idleSeq++
		return m, m.scheduleIdleCmd()
	}
}
