package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var upgradeEditable bool

var upgradeCmd = &cobra.Command{
	Use:   "upgrade <package>",
	Short: "Upgrade an installed package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := newRepository(cmd)
		if _, err := repo.Upgrade(cmd.Context(), args[0], upgradeEditable); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Done.")
		return nil
	},
}

func init() {
	upgradeCmd.Flags().BoolVarP(&upgradeEditable, "editable", "e", false,
		"Enable editable installation; only works for local packages")
	rootCmd.AddCommand(upgradeCmd)
}
