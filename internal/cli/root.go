package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"synapse-cli/internal/api"
	"synapse-cli/internal/session"
	"synapse-cli/internal/tui"
)

// App carries the persistent flag values shared by every subcommand.
type App struct {
	Dir     string
	Backend string

	IdleLimit time.Duration
	WarnLead  time.Duration
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "synapse",
		Short:        "Nueroflux project admin console",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive console
  synapse

  # Scriptable session management
  synapse login --email admin@example.com
  synapse logout

  # Generate the static HTML status report
  synapse report --out report.html

  # Reconcile workspace projects against the issue tracker
  synapse sync

  # Run the aggregation backend the console talks to
  synapse serve --addr 127.0.0.1:8787
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive console.
			if len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("SYNAPSE_DIR", ""), "Path to state dir (session token, server key, sync logs)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", envOr("SYNAPSE_BACKEND", "http://127.0.0.1:8787"), "Base URL of the aggregation backend")
	cmd.PersistentFlags().DurationVar(&app.IdleLimit, "idle-limit", 15*time.Minute, "Inactivity window before the session is ended")
	cmd.PersistentFlags().DurationVar(&app.WarnLead, "idle-warn", 2*time.Minute, "How long before the idle limit the warning shows")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newReportCmd(app))
	cmd.AddCommand(newSyncCmd(app))
	cmd.AddCommand(newServeCmd(app))

	return cmd
}

func runTUI(app *App) error {
	dir, err := resolveDir(app)
	if err != nil {
		return err
	}
	sessions := session.Store{Dir: dir}
	return tui.Run(tui.Config{
		Client:    &api.Client{BaseURL: app.Backend, Sessions: sessions},
		Sessions:  sessions,
		IdleLimit: app.IdleLimit,
		WarnLead:  app.WarnLead,
	})
}

// resolveDir returns the state dir, creating it if needed. An explicit
// --dir wins; otherwise the per-user config dir is used.
func resolveDir(app *App) (string, error) {
	dir := strings.TrimSpace(app.Dir)
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, "synapse")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
