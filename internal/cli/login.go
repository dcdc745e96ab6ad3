package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"synapse-cli/internal/api"
	"synapse-cli/internal/session"
)

func newLoginCmd(app *App) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session token",
		Long: strings.TrimSpace(`
Sign in against the aggregation backend and persist the session token in the
state dir, so the interactive console starts signed in.

The password comes from --password, the SYNAPSE_PASSWORD environment
variable, or a prompt on stdin, in that order.
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return err
			}

			email = strings.TrimSpace(email)
			if email == "" {
				return errors.New("login: missing --email")
			}
			if password == "" {
				password = envOr("SYNAPSE_PASSWORD", "")
			}
			if password == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Password for %s: ", email)
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil {
					return fmt.Errorf("login: read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("login: empty password")
			}

			sessions := session.Store{Dir: dir}
			client := &api.Client{BaseURL: app.Backend, Sessions: sessions}
			tok, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				if errors.Is(err, api.ErrInvalidCredentials) {
					return errors.New("login: invalid credentials")
				}
				return err
			}
			if err := sessions.SetToken(tok); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", envOr("SYNAPSE_EMAIL", ""), "Admin email")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (prefer SYNAPSE_PASSWORD or the prompt)")

	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the persisted session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return err
			}
			if err := (session.Store{Dir: dir}).Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}
