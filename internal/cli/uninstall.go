package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/venvbin/venvbin/internal/registry"
)

var uninstallYes bool

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <package>",
	Short: "Uninstall the scripts of a package and remove its virtualenv",
	Args:  cobra.ExactArgs(1),
	RunE:  runUninstall,
}

func init() {
	uninstallCmd.Flags().BoolVarP(&uninstallYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(uninstallCmd)
}

// errAborted is returned when the user declines a prompt.
var errAborted = errors.New("aborted")

func runUninstall(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	repo := newRepository(cmd)

	info, err := repo.Uninstall(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !info.Installed {
		return fmt.Errorf("%s is %w", info.Package, registry.ErrNotInstalled)
	}

	fmt.Fprintln(out, "The following paths will be removed:")
	for _, path := range info.Paths {
		fmt.Fprintf(out, "  %s\n", path)
	}
	fmt.Fprintln(out)

	if !uninstallYes {
		ok, err := confirm(cmd.InOrStdin(), out, fmt.Sprintf("Do you want to uninstall %s?", info.Package))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Aborted!")
			return errAborted
		}
	}

	if err := info.Perform(); err != nil {
		logger.Warn("some paths could not be removed", "err", err)
	}
	fmt.Fprintln(out, "Done!")
	return nil
}

// confirm asks a yes/no question. Anything but y/yes, including end of
// input, is a no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		fmt.Fprintln(out)
		return false, scanner.Err()
	}
	answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return answer == "y" || answer == "yes", nil
}
