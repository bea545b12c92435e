// Package cli implements the rosterctl command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ipl-fantasy/roster/internal/client"
	"github.com/ipl-fantasy/roster/internal/session"
)

const defaultServer = "http://localhost:8080"

// app carries what every subcommand needs once flags are parsed.
type app struct {
	server      string
	sessionPath string
	interactive bool
	styled      bool
	prompt      func() (string, error)
}

// Execute runs rosterctl.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the rosterctl command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{
		interactive: isTerminal(os.Stdin),
		styled:      isTerminal(os.Stdout),
		prompt:      promptUsername,
	})
}

func newRootCmd(a *app) *cobra.Command {
	server := os.Getenv("ROSTER_SERVER")
	if server == "" {
		server = defaultServer
	}

	root := &cobra.Command{
		Use:           "rosterctl",
		Short:         "Manage your fantasy teams from the terminal",
		Long:          "rosterctl logs in to a roster server, uploads team workbooks and shows your teams and today's matches.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.sessionPath != "" {
				return nil
			}
			path, err := session.DefaultPath()
			if err != nil {
				return err
			}
			a.sessionPath = path
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.server, "server", server, "roster server URL (env ROSTER_SERVER)")
	root.PersistentFlags().StringVar(&a.sessionPath, "session-file", "", "where the login is remembered (default $XDG_CONFIG_HOME/rosterctl/session.yaml)")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newUploadCmd(a),
		newTeamsCmd(a),
		newMatchesCmd(a),
	)
	return root
}

func (a *app) client() *client.Client {
	return client.New(a.server)
}

// resume logs in again as the remembered user so commands work against a
// server whose store was reset since the last login.
func (a *app) resume(ctx context.Context) (*session.Session, error) {
	s, err := session.Load(a.sessionPath)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, errors.New("not logged in; run `rosterctl login` first")
		}
		return nil, err
	}
	return a.login(ctx, s.Username)
}

func (a *app) login(ctx context.Context, username string) (*session.Session, error) {
	u, err := a.client().Login(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("logging in as %q: %w", username, err)
	}

	s := &session.Session{Server: a.server, Username: u.Username, UserID: u.ID}
	if err := session.Save(a.sessionPath, s); err != nil {
		return nil, err
	}
	return s, nil
}

func promptUsername() (string, error) {
	var name string
	err := huh.NewInput().
		Title("Username").
		Description("New usernames are registered on first login.").
		Value(&name).
		Validate(func(v string) error {
			if strings.TrimSpace(v) == "" {
				return errors.New("username is required")
			}
			return nil
		}).
		Run()
	return strings.TrimSpace(name), err
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
