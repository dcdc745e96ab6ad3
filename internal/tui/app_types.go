package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"synapse-cli/internal/model"
)

type loginResultMsg struct {
	token string
	err   error
}

// aggregateMsg and logsMsg carry the session generation they were fetched
// for; results from a generation that has since been logged out are
// discarded rather than applied.
type aggregateMsg struct {
	gen int
	agg model.Aggregate
	err error
}

type logsMsg struct {
	gen  int
	logs []model.LogEntry
	err  error
}

// idleTickMsg is seq-guarded: every activity reschedules the wakeup under a
// new seq, so a stale timer firing is a no-op.
type idleTickMsg struct {
	seq int
}

func (m appModel) loginCmd(identifier, secret string) tea.Cmd {
	client := m.cfg.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		tok, err := client.Login(ctx, identifier, secret)
		return loginResultMsg{token: tok, err: err}
	}
}

func (m appModel) fetchAggregateCmd(gen int) tea.Cmd {
	client := m.cfg.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		agg, err := client.FetchDashboard(ctx)
		return aggregateMsg{gen: gen, agg: agg, err: err}
	}
}

func (m appModel) fetchLogsCmd(gen int) tea.Cmd {
	client := m.cfg.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		logs, err := client.FetchLogs(ctx)
		return logsMsg{gen: gen, logs: logs, err: err}
	}
}

// scheduleIdleCmd arms a wakeup at the monitor's next pending transition.
func (m appModel) scheduleIdleCmd() tea.Cmd {
	if m.monitor == nil {
		return nil
	}
	deadline := m.monitor.NextDeadline()
	if deadline.IsZero() {
		return nil
	}
	d := deadline.Sub(m.now())
	if d < 0 {
		d = 0
	}
	seq := m.idleSeq
	return tea.Tick(d, func(time.Time) tea.Msg { return idleTickMsg{seq: seq} })
}
