package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ListEverything returns every virtualenv under the home directory with its
// record, sorted by name. Directories without an interpreter at the layout's
// expected location are not virtualenvs and are skipped. A missing home
// directory lists nothing.
func (r *Repository) ListEverything(ctx context.Context) ([]Package, error) {
	venvs, err := r.Virtualenvs()
	if err != nil {
		return nil, err
	}

	packages := make([]Package, 0, len(venvs))
	for _, venvPath := range venvs {
		name := filepath.Base(venvPath)
		record, err := r.store.Load(ctx, venvPath, name)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", name, err)
		}
		packages = append(packages, Package{
			Name:     name,
			Version:  record.Version,
			Scripts:  record.Scripts,
			VenvPath: venvPath,
		})
	}

	sort.Slice(packages, func(i, j int) bool { return packages[i].Name < packages[j].Name })
	return packages, nil
}

// Virtualenvs returns the paths of all virtualenvs under the home directory.
func (r *Repository) Virtualenvs() ([]string, error) {
	entries, err := os.ReadDir(r.home)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", r.home, err)
	}
	var venvs []string
	for _, entry := range entries {
		venvPath := filepath.Join(r.home, entry.Name())
		if r.isVirtualenv(venvPath) {
			venvs = append(venvs, venvPath)
		}
	}
	return venvs, nil
}

func (r *Repository) isVirtualenv(path string) bool {
	if !isDir(path) {
		return false
	}
	info, err := os.Stat(r.layout.Interpreter(path))
	return err == nil && info.Mode().IsRegular()
}
