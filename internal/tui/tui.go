package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"synapse-cli/internal/api"
	"synapse-cli/internal/session"
)

// Run starts the interactive console. Mouse reporting is enabled so pointer
// movement counts as session activity, matching the idle-tracking rules.
func Run(cfg Config) error {
	applyColorProfilePreference()
	m := newAppModel(cfg)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

// Config wires the console to its collaborators.
type Config struct {
	Client   *api.Client
	Sessions session.Store

	IdleLimit time.Duration
	WarnLead  time.Duration
}
