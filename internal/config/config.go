package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/venvbin/venvbin/internal/branding"
	"github.com/venvbin/venvbin/internal/userdata"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyHome   = "home"    // directory holding the virtualenvs
	KeyBinDir = "bin_dir" // directory scripts are published into
	KeyPython = "python"  // default interpreter choice
	KeyDebug  = "debug"   // debug logging
)

// Keys lists every key config get/set accepts.
var Keys = []string{KeyHome, KeyBinDir, KeyPython, KeyDebug}

// Settings is a resolved view of the configuration.
type Settings struct {
	Home   string
	BinDir string
	Python string
	Debug  bool
}

// Dir returns the path to the config directory (~/.venvbin/).
func Dir() string {
	dir, err := userdata.GetConfigDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return dir
}

// FilePath returns the full path to the config file (~/.venvbin/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	if home, err := userdata.DefaultHome(); err == nil {
		viper.SetDefault(KeyHome, home)
	}
	if bin, err := userdata.DefaultBinDir(); err == nil {
		viper.SetDefault(KeyBinDir, bin)
	}
	viper.SetDefault(KeyPython, "")
	viper.SetDefault(KeyDebug, false)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Current returns the resolved settings.
func Current() Settings {
	return Settings{
		Home:   expandHome(viper.GetString(KeyHome)),
		BinDir: expandHome(viper.GetString(KeyBinDir)),
		Python: viper.GetString(KeyPython),
		Debug:  viper.GetBool(KeyDebug),
	}
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(Keys, ", "))
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
