package registry

import (
	"context"
	"fmt"
	"os"

	"github.com/venvbin/venvbin/internal/linker"
	"github.com/venvbin/venvbin/internal/manifest"
	"github.com/venvbin/venvbin/internal/runtime"
)

// Upgrade reinstalls an installed package with pip's --upgrade, publishes
// the scripts the new version provides and removes the previously published
// scripts it no longer provides.
func (r *Repository) Upgrade(ctx context.Context, spec string, editable bool) (*manifest.PackageRecord, error) {
	// The interpreter is only needed to read a local project's setup.py.
	python, _ := runtime.FindInterpreter(r.python, r.lookPath)
	resolved, err := r.ResolveSpec(ctx, spec, python)
	if err != nil {
		return nil, err
	}

	venvPath, name, err := r.PackagePath(resolved.Name)
	if err != nil {
		return nil, err
	}
	if !isDir(venvPath) {
		return nil, fmt.Errorf("%s is %w", resolved.Name, ErrNotInstalled)
	}

	old, err := r.store.Load(ctx, venvPath, name)
	if err != nil {
		return nil, err
	}

	pipOpts := runtime.InstallOptions{Editable: editable, Upgrade: true}
	if err := r.provisioner.Install(ctx, venvPath, resolved.InstallArgs, pipOpts); err != nil {
		fmt.Fprintln(r.out, "Failed to upgrade through pip.  Aborting.")
		return nil, fmt.Errorf("%w: upgrading %s: %v", ErrSubprocess, name, err)
	}

	scripts := r.discovery.Scripts(ctx, venvPath, name)
	current := linker.Destinations(r.linker.Publish(scripts))

	for _, stale := range staleScripts(old.Scripts, current) {
		if !r.ownsScript(venvPath, stale) {
			r.log.Debug("old script no longer belongs to package", "path", stale, "package", name)
			continue
		}
		fmt.Fprintf(r.out, "  Removing old script %s\n", stale)
		if err := os.Remove(stale); err != nil {
			r.log.Debug("removing old script failed", "path", stale, "err", err)
		}
	}

	return r.store.Save(ctx, venvPath, name, current)
}

// staleScripts returns the entries of old that are missing from current, in
// the order of old.
func staleScripts(old, current []string) []string {
	keep := make(map[string]bool, len(current))
	for _, s := range current {
		keep[s] = true
	}
	var stale []string
	for _, s := range old {
		if !keep[s] {
			stale = append(stale, s)
		}
	}
	return stale
}
