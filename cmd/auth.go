package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bnema/x-analytics-cli/internal/domain"
	"github.com/spf13/cobra"
)

var errNoPassword = errors.New("no password given (use --password or pipe it on stdin)")

func newAuthCmd(app *app, opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the dashboard login gate",
	}

	cmd.AddCommand(
		newAuthLoginCmd(app),
		newAuthLogoutCmd(app),
		newAuthStatusCmd(app, opts),
		newAuthSetPasswordCmd(app),
	)

	return cmd
}

func newAuthLoginCmd(app *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Open a session with the shared password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			value, err := readPassword(cmd, password)
			if err != nil {
				return err
			}

			if err := app.gate.Login(cmd.Context(), value); err != nil {
				return fmt.Errorf("login: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "logged in, session valid for %s\n", app.gate.TTL())
			return err
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Shared password (read from stdin when omitted)")

	return cmd
}

func newAuthLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Close the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.gate.Logout(cmd.Context()); err != nil {
				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return err
		},
	}
}

func newAuthSetPasswordCmd(app *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "set-password",
		Short: "Store the shared password digest and close any session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			value, err := readPassword(cmd, password)
			if err != nil {
				return err
			}

			if err := app.gate.SetPassword(cmd.Context(), value); err != nil {
				return fmt.Errorf("set password: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "password updated")
			return err
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "New shared password (read from stdin when omitted)")

	return cmd
}

type authStatus struct {
	Configured    bool       `json:"configured"`
	Authenticated bool       `json:"authenticated"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

func newAuthStatusCmd(app *app, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the gate is configured and the session is valid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := loadAuthStatus(cmd, app)
			if err != nil {
				return err
			}

			if opts.asJSON {
				return writeJSON(cmd, status)
			}

			out := cmd.OutOrStdout()
			switch {
			case !status.Configured:
				_, err = fmt.Fprintln(out, "gate: not configured (all commands open)")
			case status.Authenticated && status.ExpiresAt != nil:
				_, err = fmt.Fprintf(out, "gate: configured\nsession: valid until %s\n", status.ExpiresAt.UTC().Format(time.RFC3339))
			case status.Authenticated:
				_, err = fmt.Fprintln(out, "gate: configured\nsession: valid")
			default:
				_, err = fmt.Fprintln(out, "gate: configured\nsession: none or expired")
			}
			return err
		},
	}
}

func loadAuthStatus(cmd *cobra.Command, app *app) (authStatus, error) {
	configured, err := app.gate.Configured(cmd.Context())
	if err != nil {
		return authStatus{}, err
	}

	status := authStatus{Configured: configured}
	if !configured {
		return status, nil
	}

	session, err := app.gate.Session(cmd.Context())
	if errors.Is(err, domain.ErrSessionNotFound) {
		return status, nil
	}
	if err != nil {
		return authStatus{}, fmt.Errorf("load session: %w", err)
	}

	ttl := app.gate.TTL()
	status.Authenticated = session.IsValid(app.clock.Now(), ttl)
	if !session.CreatedAt.IsZero() {
		createdAt := session.CreatedAt
		status.CreatedAt = &createdAt
		if ttl > 0 {
			expiresAt := createdAt.Add(ttl)
			status.ExpiresAt = &expiresAt
		}
	}

	return status, nil
}

func readPassword(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errNoPassword
	}
	return password, nil
}
