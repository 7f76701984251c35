package registry

import (
	"context"
	"fmt"
	"os"

	"github.com/venvbin/venvbin/internal/linker"
	"github.com/venvbin/venvbin/internal/runtime"
)

// Install provisions a virtualenv for spec, installs the package into it and
// publishes its scripts. An existing virtualenv for the package is left
// untouched and reported through InstallResult.AlreadyInstalled. Any failure
// after the virtualenv was created removes it again.
func (r *Repository) Install(ctx context.Context, spec string, opts InstallOptions) (*InstallResult, error) {
	choice := opts.Python
	if choice == "" {
		choice = r.python
	}
	interp, err := runtime.ResolveInterpreter(ctx, r.runner, choice, r.lookPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	r.log.Debug("selected interpreter", "python", interp.Path, "version", interp.Version)

	resolved, err := r.ResolveSpec(ctx, spec, interp.Path)
	if err != nil {
		return nil, err
	}

	venvPath, name, err := r.PackagePath(resolved.Name)
	if err != nil {
		return nil, err
	}
	if isDir(venvPath) {
		fmt.Fprintf(r.out, "%s is already installed\n", name)
		return &InstallResult{Name: name, VenvPath: venvPath, AlreadyInstalled: true}, nil
	}

	if err := os.MkdirAll(r.binDir, 0755); err != nil {
		return nil, fmt.Errorf("creating bin directory: %w", err)
	}

	if err := r.provisioner.Create(ctx, interp, venvPath, opts.SystemSitePackages); err != nil {
		fmt.Fprintln(r.out, "Failed to create virtualenv.  Aborting.")
		r.cleanup(venvPath)
		return nil, fmt.Errorf("%w: creating virtualenv for %s: %v", ErrSubprocess, name, err)
	}

	pipOpts := runtime.InstallOptions{Editable: opts.Editable}
	if err := r.provisioner.Install(ctx, venvPath, resolved.InstallArgs, pipOpts); err != nil {
		fmt.Fprintln(r.out, "Failed to pip install.  Aborting.")
		r.cleanup(venvPath)
		return nil, fmt.Errorf("%w: installing %s: %v", ErrSubprocess, name, err)
	}

	scripts := r.discovery.Scripts(ctx, venvPath, name)
	published := r.linker.Publish(scripts)
	if len(published) == 0 {
		fmt.Fprintln(r.out, "Did not find any scripts.  Uninstalling.")
		r.cleanup(venvPath)
		return nil, fmt.Errorf("%s: %w", name, ErrNoScripts)
	}

	destinations := linker.Destinations(published)
	record, err := r.store.Save(ctx, venvPath, name, destinations)
	if err != nil {
		r.unpublish(destinations)
		r.cleanup(venvPath)
		return nil, err
	}
	return &InstallResult{Name: name, VenvPath: venvPath, Record: record}, nil
}
