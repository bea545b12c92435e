package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ipl-fantasy/roster/internal/session"
)

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login [username]",
		Short: "Log in, registering the username on first use",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var username string
			if len(args) == 1 {
				username = strings.TrimSpace(args[0])
			} else {
				if !a.interactive {
					return errors.New("username is required when not running in a terminal")
				}
				var err error
				if username, err = a.prompt(); err != nil {
					return err
				}
			}
			if username == "" {
				return errors.New("username is required")
			}

			s, err := a.login(cmd.Context(), username)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.success("Logged in as "+s.Username))
			return nil
		},
	}
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the remembered login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := session.Clear(a.sessionPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the remembered login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := session.Load(a.sessionPath)
			if errors.Is(err, session.ErrNoSession) {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) on %s\n", s.Username, s.UserID, s.Server)
			return nil
		},
	}
}
