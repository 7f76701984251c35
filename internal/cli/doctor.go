package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/venvbin/venvbin/internal/branding"
	"github.com/venvbin/venvbin/internal/userdata"
)

var doctorFix bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Create missing directories, rebuild missing records and remove dangling links")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the " + branding.DisplayName() + " installation",
	Long: `Check that the home and bin directories exist, that the bin directory is on
PATH, that every virtualenv has a package record, and that no published
script points at a virtualenv that is gone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := newRepository(cmd)

		venvs, err := repo.Virtualenvs()
		if err != nil {
			return err
		}

		checkup := &userdata.Checkup{
			Home:        repo.Home(),
			BinDir:      repo.BinDir(),
			Virtualenvs: venvs,
			Path:        os.Getenv("PATH"),
			Rebuild: func(venvPath string) error {
				_, err := repo.RebuildRecord(cmd.Context(), venvPath)
				return err
			},
		}

		if problems := checkup.Run(cmd.OutOrStdout(), doctorFix); problems > 0 {
			return fmt.Errorf("%d problem(s) found", problems)
		}
		return nil
	},
}
