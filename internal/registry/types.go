package registry

import (
	"errors"
	"fmt"
	"os"

	"github.com/venvbin/venvbin/internal/manifest"
)

// Spec is a resolved install spec.
type Spec struct {
	Name        string   // package name as declared by the spec
	InstallArgs []string // arguments handed to pip
}

// InstallOptions controls Install.
type InstallOptions struct {
	// Python is an interpreter choice: empty for the default, a single
	// digit for a major version, a command name, or a path.
	Python             string
	Editable           bool
	SystemSitePackages bool
}

// InstallResult describes a finished install.
type InstallResult struct {
	Name             string
	VenvPath         string
	AlreadyInstalled bool
	Record           *manifest.PackageRecord // nil when AlreadyInstalled
}

// Package is one entry of ListEverything.
type Package struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Scripts  []string `json:"scripts"`
	VenvPath string   `json:"venv"`
}

// UninstallInfo is the removal plan for one package. Nothing is removed
// until Perform is called.
type UninstallInfo struct {
	Package   string
	Installed bool
	Paths     []string // virtualenv first, then the published scripts
}

// Perform removes every path in the plan. Real directories are removed
// recursively and everything else (files, symlinks) singly. A failure on
// one path does not stop the others; all failures are returned joined.
// Paths that are already gone are not failures.
func (u *UninstallInfo) Perform() error {
	var errs []error
	for _, path := range u.Paths {
		if err := removePath(path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func removePath(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("inspecting %s: %w", path, err)
	}

	if info.IsDir() {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}
