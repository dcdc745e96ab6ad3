package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"synapse-cli/internal/server"
	"synapse-cli/internal/workspace"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	var cacheTTL time.Duration
	var tokenTTL time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the aggregation backend",
		Long: strings.TrimSpace(`
Run the HTTP backend the console talks to. It authenticates the single admin
credential, pulls the workspace on demand with a short-lived cache, and
records every pull in the sync log.

Admin credentials come from SYNAPSE_ADMIN_EMAIL and SYNAPSE_ADMIN_PASSWORD.
Workspace access is configured the same way as for "synapse report".
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return err
			}

			identifier := envOr("SYNAPSE_ADMIN_EMAIL", "")
			secret := envOr("SYNAPSE_ADMIN_PASSWORD", "")
			if identifier == "" || secret == "" {
				return errors.New("serve: SYNAPSE_ADMIN_EMAIL and SYNAPSE_ADMIN_PASSWORD must be set")
			}

			wcfg := workspace.ConfigFromEnv()
			if strings.TrimSpace(wcfg.Key) == "" {
				return errors.New("serve: SYNAPSE_WORKSPACE_KEY is not set")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logs, err := server.OpenLogStore(ctx, dir)
			if err != nil {
				return err
			}
			defer logs.Close()

			srv, err := server.New(server.Config{
				Dir:        dir,
				Identifier: identifier,
				Secret:     secret,
				CacheTTL:   cacheTTL,
				TokenTTL:   tokenTTL,
				Source:     workspace.NewSource(wcfg),
				Logs:       logs,
			})
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", strings.TrimSpace(addr))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "listening on http://%s\n", ln.Addr())

			hs := &http.Server{Handler: srv.Handler()}
			errCh := make(chan error, 1)
			go func() { errCh <- hs.Serve(ln) }()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return hs.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("SYNAPSE_ADDR", "127.0.0.1:8787"), "Listen address")
	cmd.Flags().DurationVar(&cacheTTL, "cache-ttl", 10*time.Minute, "How long a pulled aggregate is served from cache")
	cmd.Flags().DurationVar(&tokenTTL, "token-ttl", 12*time.Hour, "Session token lifetime")

	return cmd
}
