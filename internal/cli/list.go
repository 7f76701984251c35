package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/venvbin/venvbin/internal/branding"
	"github.com/venvbin/venvbin/internal/registry"
)

var (
	listVersions bool
	listJSON     bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the installed packages and their scripts",
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listVersions, "versions", false, "Show package versions")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	pkgs, err := newRepository(cmd).ListEverything(cmd.Context())
	if err != nil {
		return err
	}
	pkgs = withScripts(pkgs)

	if listJSON {
		data, err := json.MarshalIndent(pkgs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling package list: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	printPackages(cmd.OutOrStdout(), pkgs, listVersions)
	return nil
}

// withScripts drops packages that published nothing.
func withScripts(pkgs []registry.Package) []registry.Package {
	kept := make([]registry.Package, 0, len(pkgs))
	for _, p := range pkgs {
		if len(p.Scripts) > 0 {
			kept = append(kept, p)
		}
	}
	return kept
}

func printPackages(w io.Writer, pkgs []registry.Package, versions bool) {
	if len(pkgs) == 0 {
		fmt.Fprintf(w, "There are no scripts installed through %s\n", branding.CLIName())
		return
	}

	fmt.Fprintf(w, "Packages and scripts installed through %s:\n", branding.CLIName())
	for _, p := range pkgs {
		if versions {
			version := p.Version
			if version == "" {
				version = "unknown"
			}
			fmt.Fprintf(w, "  Package %q (%s):\n", p.Name, version)
		} else {
			fmt.Fprintf(w, "  Package %q:\n", p.Name)
		}
		for _, script := range p.Scripts {
			fmt.Fprintf(w, "    %s\n", script)
		}
	}
}
