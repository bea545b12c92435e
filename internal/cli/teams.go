package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTeamsCmd(a *app) *cobra.Command {
	var (
		only    string
		columns []string
	)

	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Show your teams and their players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.resume(cmd.Context())
			if err != nil {
				return err
			}

			teams, err := a.client().GetTeams(cmd.Context(), s.UserID)
			if err != nil {
				return fmt.Errorf("fetching teams: %w", err)
			}

			out := cmd.OutOrStdout()
			if only != "" {
				players, ok := teams.Get(only)
				if !ok {
					return fmt.Errorf("no team named %q", only)
				}
				fmt.Fprintln(out, a.teamCard(only, players, columns))
				return nil
			}

			if len(teams) == 0 {
				fmt.Fprintln(out, "No teams yet; run `rosterctl upload <file.xlsx>`")
				return nil
			}
			for _, e := range teams {
				fmt.Fprintln(out, a.teamCard(e.Name, e.Players, columns))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&only, "team", "", "show only the named team")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "show only these player fields, in this order")
	return cmd
}

func newMatchesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "matches",
		Short: "Show today's matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			matches, err := a.client().TodayMatches(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching matches: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(matches) == 0 {
				fmt.Fprintln(out, "No matches scheduled for today")
				return nil
			}
			for _, m := range matches {
				fmt.Fprintln(out, a.matchLine(m))
			}
			return nil
		},
	}
}
