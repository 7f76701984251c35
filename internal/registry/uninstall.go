package registry

import "context"

// Uninstall plans the removal of the package named by spec. The plan lists
// the virtualenv and every recorded script that still links into it; a
// package without a virtualenv yields a plan with Installed false and no
// paths.
func (r *Repository) Uninstall(ctx context.Context, spec string) (*UninstallInfo, error) {
	venvPath, name, err := r.PackagePath(spec)
	if err != nil {
		return nil, err
	}
	if !isDir(venvPath) {
		return &UninstallInfo{Package: name}, nil
	}

	record, err := r.store.Load(ctx, venvPath, name)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, 1+len(record.Scripts))
	paths = append(paths, venvPath)
	for _, script := range record.Scripts {
		if r.ownsScript(venvPath, script) {
			paths = append(paths, script)
		}
	}
	return &UninstallInfo{Package: record.Name, Installed: true, Paths: paths}, nil
}
