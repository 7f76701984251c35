package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/venvbin/venvbin/internal/branding"
	"github.com/venvbin/venvbin/internal/config"
	"github.com/venvbin/venvbin/internal/registry"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// logger is configured by the root command before any subcommand runs.
var logger = log.New(io.Discard)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` installs Python command-line tools into one virtualenv per package
and publishes their scripts into a shared bin directory.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("home", "", "The folder that contains the virtualenvs (env "+branding.EnvVar("HOME")+")")
	flags.String("bin-dir", "", "The path where the scripts are published to (env "+branding.EnvVar("BIN_DIR")+")")
	flags.Bool("debug", false, "Log every subprocess invocation (env "+branding.EnvVar("DEBUG")+")")
}

// setup loads configuration, binds the global flags over it and builds the
// logger.
func setup(cmd *cobra.Command, args []string) error {
	config.Load()

	flags := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		config.KeyHome:   "home",
		config.KeyBinDir: "bin-dir",
		config.KeyDebug:  "debug",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}

	logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: branding.CLIName(),
		Level:  log.WarnLevel,
	})
	if config.Current().Debug {
		logger.SetLevel(log.DebugLevel)
		logger.SetReportTimestamp(true)
	}
	return nil
}

// newRepository builds the package repository from the resolved settings.
func newRepository(cmd *cobra.Command) *registry.Repository {
	settings := config.Current()
	logger.Debug("settings", "home", settings.Home, "bin_dir", settings.BinDir, "python", settings.Python)
	return registry.New(registry.Options{
		Home:   settings.Home,
		BinDir: settings.BinDir,
		Python: settings.Python,
		Out:    cmd.OutOrStdout(),
		Logger: logger,
	})
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errAborted) {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}
