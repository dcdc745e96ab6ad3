package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"synapse-cli/internal/report"
	"synapse-cli/internal/workspace"
)

func newReportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Pull the workspace and write the static HTML status report",
		Long: strings.TrimSpace(`
Pull every category from the workspace service and render the status report
as a single self-contained HTML file, suitable for printing or attaching to
a weekly update.

Workspace credentials and database ids come from the environment:
SYNAPSE_WORKSPACE_URL, SYNAPSE_WORKSPACE_KEY, SYNAPSE_CRM_DB_ID,
SYNAPSE_STAKEHOLDER_DB_ID, SYNAPSE_PROJECTS_DB_ID, SYNAPSE_TASKS_DB_ID,
SYNAPSE_NEXT_STEPS_DB_ID, SYNAPSE_PEOPLE_DB_ID.
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := workspace.ConfigFromEnv()
			if strings.TrimSpace(cfg.Key) == "" {
				return errors.New("report: SYNAPSE_WORKSPACE_KEY is not set")
			}

			src := workspace.NewSource(cfg)
			agg, results := src.PullAll(cmd.Context())

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "pull %s: %v (section will be empty)\n", r.Category, r.Err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pulled %s: %d records\n", r.Category, r.Count)
			}
			if failed == len(results) {
				return errors.New("report: every category pull failed")
			}

			d := report.Data{GeneratedAt: time.Now(), Aggregate: agg}
			if err := report.WriteFile(out, d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "report.html", "Output path for the rendered report")

	return cmd
}
