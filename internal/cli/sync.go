package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"synapse-cli/internal/server"
	"synapse-cli/internal/tracker"
	"synapse-cli/internal/workspace"
)

func newSyncCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile workspace projects against the issue tracker",
		Long: strings.TrimSpace(`
One-shot reconciliation: every non-completed workspace project gets a
tracker repository named after it, and every feature linked to the project
gets an issue whose body follows the feature content. Each action is
appended to the sync log the dashboard's logs view shows.

Tracker access comes from SYNAPSE_TRACKER_URL, SYNAPSE_TRACKER_TOKEN and
SYNAPSE_TRACKER_OWNER. Workspace access is configured the same way as for
"synapse report".
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return err
			}

			wcfg := workspace.ConfigFromEnv()
			if strings.TrimSpace(wcfg.Key) == "" {
				return errors.New("sync: SYNAPSE_WORKSPACE_KEY is not set")
			}
			token := envOr("SYNAPSE_TRACKER_TOKEN", "")
			owner := envOr("SYNAPSE_TRACKER_OWNER", "")
			if token == "" || owner == "" {
				return errors.New("sync: SYNAPSE_TRACKER_TOKEN and SYNAPSE_TRACKER_OWNER must be set")
			}

			logs, err := server.OpenLogStore(cmd.Context(), dir)
			if err != nil {
				return err
			}
			defer logs.Close()

			syncer := &tracker.Syncer{
				Source: workspace.NewSource(wcfg),
				Client: &tracker.Client{
					BaseURL: envOr("SYNAPSE_TRACKER_URL", "https://api.github.com"),
					Token:   token,
					Owner:   owner,
				},
			}

			actions, err := syncer.Run(cmd.Context())
			if err != nil {
				_ = logs.Append(cmd.Context(), time.Now(), "github-sync", "run", err.Error(), "error")
				return err
			}

			failed := 0
			for _, a := range actions {
				status := "success"
				details := a.Detail
				if a.Err != nil {
					failed++
					status = "error"
					details = fmt.Sprintf("%s: %v", a.Detail, a.Err)
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %s (%s): %v\n", a.Kind, a.Detail, a.Project, a.Err)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", a.Kind, a.Detail, a.Project)
				}
				action := a.Kind + " " + tracker.Slug(a.Project)
				if err := logs.Append(cmd.Context(), time.Now(), "github-sync", action, details, status); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "sync finished: %d actions, %d errors\n", len(actions), failed)
			if failed > 0 {
				return fmt.Errorf("sync: %d of %d actions failed", failed, len(actions))
			}
			return nil
		},
	}

	return cmd
}
