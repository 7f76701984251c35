package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/venvbin/venvbin/internal/branding"
	"github.com/venvbin/venvbin/internal/registry"
)

var (
	installPython     string
	installEditable   bool
	installSystemSite bool
)

var installCmd = &cobra.Command{
	Use:   "install <package>",
	Short: "Install scripts from a Python package",
	Long: `Install a Python package into a new virtualenv and publish the scripts it
provides into the bin directory (defaults to ~/.local/bin).

The package may be a requirement for the package index ("httpie", "black>=24"),
a VCS or archive URL naming the package with #egg=<name>, or a local project
directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installPython, "python", "",
		"The python interpreter to use, a major version or a path (env "+branding.EnvVar("PYTHON")+")")
	installCmd.Flags().BoolVarP(&installEditable, "editable", "e", false,
		"Enable editable installation; only works for local packages")
	installCmd.Flags().BoolVar(&installSystemSite, "system-site-packages", false,
		"Give the virtualenv access to the global site-packages")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	repo := newRepository(cmd)
	res, err := repo.Install(cmd.Context(), args[0], registry.InstallOptions{
		Python:             installPython,
		Editable:           installEditable,
		SystemSitePackages: installSystemSite,
	})
	if err != nil {
		return err
	}
	if !res.AlreadyInstalled {
		fmt.Fprintln(cmd.OutOrStdout(), "Done.")
	}
	return nil
}
