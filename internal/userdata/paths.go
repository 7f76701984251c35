package userdata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/venvbin/venvbin/internal/branding"
)

// Default locations, relative to the user's home directory.
var (
	DefaultHomeParts   = []string{".local", "venvs"}
	DefaultBinDirParts = []string{".local", "bin"}
)

// Permission constants.
const (
	DirPermNormal os.FileMode = 0755
)

// DefaultHome returns ~/.local/venvs, where one virtualenv per package lives.
func DefaultHome() (string, error) {
	return underUserHome(DefaultHomeParts...)
}

// DefaultBinDir returns ~/.local/bin, where scripts are published.
func DefaultBinDir() (string, error) {
	return underUserHome(DefaultBinDirParts...)
}

// GetConfigDir returns the directory holding the config file.
// It checks the VENVBIN_CONFIG_DIR environment variable first,
// then falls back to ~/.venvbin.
func GetConfigDir() (string, error) {
	if v := os.Getenv(branding.EnvVar("CONFIG_DIR")); v != "" {
		return v, nil
	}
	return underUserHome(branding.HomeDir())
}

func underUserHome(parts ...string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(append([]string{home}, parts...)...), nil
}
