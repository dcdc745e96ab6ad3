package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"synapse-cli/internal/idle"
	"synapse-cli/internal/model"
)

type view int

const (
	viewLogin view = iota
	viewBoard
	viewReport
	viewLogs
)

func viewTitle(v view) string {
	switch v {
	case viewBoard:
		return "Dashboard"
	case viewReport:
		return "Weekly Status Report"
	case viewLogs:
		return "Sync Logs"
	default:
		return "Login"
	}
}

type flashKind int

const (
	flashNone flashKind = iota
	flashInfo
	flashWarning
	flashError
)

// flash is the single transient notice shown above the active view.
// Last-write-wins; cleared on successful login.
type flash struct {
	kind flashKind
	text string
}

type loginState struct {
	identifier textinput.Model
	secret     textinput.Model
	focusOnID  bool
	submitting bool
	// localErr is the form's own error text; the root flash suppresses it.
	localErr string
}

type dashState struct {
	agg       model.Aggregate
	aggLoaded bool

	logs       []model.LogEntry
	logsLoaded bool
	// logsErr renders inline in the logs panel; it never affects the session.
	logsErr string

	boardVP  viewport.Model
	reportVP viewport.Model
	logTable table.Model
}

// appModel is the root controller: it owns the session credential, the
// active view, the flash channel and the idle monitor lifecycle. Exactly
// one of the login form or the dashboard is presented at any time,
// determined solely by session presence.
type appModel struct {
	cfg Config

	width  int
	height int

	authenticated bool
	view          view
	flash         flash

	login loginState
	dash  dashState

	// sessionGen distinguishes the current authenticated session from any
	// earlier one, so fetch results that land after a logout are discarded.
	sessionGen int

	monitor *idle.Monitor
	idleSeq int

	loading spinner.Model

	now func() time.Time
}

func newAppModel(cfg Config) appModel {
	if cfg.IdleLimit <= 0 {
		cfg.IdleLimit = 15 * time.Minute
	}
	if cfg.WarnLead <= 0 || cfg.WarnLead >= cfg.IdleLimit {
		cfg.WarnLead = 2 * time.Minute
	}

	m := appModel{
		cfg:  cfg,
		view: viewLogin,
		now:  time.Now,
	}

	m.login.identifier = textinput.New()
	m.login.identifier.Placeholder = "email"
	m.login.identifier.CharLimit = 128
	m.login.identifier.Focus()
	m.login.focusOnID = true

	m.login.secret = textinput.New()
	m.login.secret.Placeholder = "password"
	m.login.secret.CharLimit = 128
	m.login.secret.EchoMode = textinput.EchoPassword
	m.login.secret.EchoCharacter = '•'

	m.loading = spinner.New(spinner.WithSpinner(spinner.Dot))

	m.dash.boardVP = viewport.New(80, 24)
	m.dash.reportVP = viewport.New(80, 24)
	m.dash.logTable = newLogTable()

	// Restore a persisted session unvalidated; the first fetch that comes
	// back session-expired is the actual validation point.
	if _, ok := cfg.Sessions.Token(); ok {
		m.enterAuthenticated()
	}
	return m
}

// enterAuthenticated flips to the dashboard and arms a fresh idle monitor.
// It does not schedule commands; callers batch the fetches and the idle
// wakeup themselves.
func (m *appModel) enterAuthenticated() {
	m.authenticated = true
	m.view = viewBoard
	m.sessionGen++
	m.dash = dashState{
		boardVP:  viewport.New(max(m.width, 80), max(m.height-chromeLines, 10)),
		reportVP: viewport.New(max(m.width, 80), max(m.height-chromeLines, 10)),
		logTable: newLogTable(),
	}
	mon, err := idle.New(m.cfg.IdleLimit, m.cfg.WarnLead, m.now())
	if err == nil {
		m.monitor = mon
	}
	m.idleSeq++
	m.resizeDash()
}

// leaveAuthenticated clears the session and tears the monitor down. Any
// in-flight fetch or idle tick becomes stale via the generation counters.
func (m *appModel) leaveAuthenticated(f flash) {
	_ = m.cfg.Sessions.Clear()
	m.authenticated = false
	m.view = viewLogin
	m.flash = f
	m.monitor = nil
	m.idleSeq++
	m.sessionGen++
	m.login.submitting = false
	m.login.localErr = ""
	m.login.identifier.Focus()
	m.login.secret.Blur()
	m.login.focusOnID = true
}
