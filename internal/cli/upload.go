package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ipl-fantasy/roster/internal/workbook"
)

func newUploadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.xlsx>",
		Short: "Replace all your teams with the sheets of a workbook",
		Long: `Each sheet with data becomes one team named after the sheet; the first row
holds the column names. Teams missing from the workbook are removed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			teams, err := workbook.ParseFile(path)
			if err != nil {
				if errors.Is(err, workbook.ErrInvalidWorkbook) {
					return fmt.Errorf("could not read %s as a workbook; please re-upload a valid .xlsx or .xls file", path)
				}
				return err
			}
			if len(teams) == 0 {
				return fmt.Errorf("%s has no sheets with data; nothing was uploaded", path)
			}

			s, err := a.resume(cmd.Context())
			if err != nil {
				return err
			}

			saved, err := a.client().ReplaceTeams(cmd.Context(), s.UserID, teams)
			if err != nil {
				return fmt.Errorf("uploading teams: %w", err)
			}

			lines := make([]string, 0, len(saved))
			for _, e := range saved {
				lines = append(lines, fmt.Sprintf("%s: %d players", e.Name, len(e.Players)))
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.success(fmt.Sprintf("Uploaded %d teams", len(saved)), lines...))
			return nil
		},
	}
}
