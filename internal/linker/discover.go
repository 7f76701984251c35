package linker

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/venvbin/venvbin/internal/platform"
	"github.com/venvbin/venvbin/internal/runtime"
)

// Discovery determines which files in a virtualenv's scripts directory are
// executable entry points of a given package.
type Discovery struct {
	Introspector runtime.Introspector
	Publisher    platform.Publisher
	Layout       platform.Layout
	Logger       *log.Logger
}

// Scripts returns the normalized paths of pkg's entry points inside the
// virtualenv at venvPath. Introspection failures and empty output both yield
// an empty result; order is not meaningful.
func (d *Discovery) Scripts(ctx context.Context, venvPath, pkg string) []string {
	raw, err := d.Introspector.FindScripts(ctx, venvPath, pkg)
	if err != nil {
		d.logger().Debug("script discovery failed", "venv", venvPath, "package", pkg, "err", err)
		return []string{}
	}

	scriptsDir := platform.Normalize(d.Layout.ScriptsDir(venvPath))
	seen := make(map[string]bool, len(raw))
	scripts := make([]string, 0, len(raw))
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			scripts = append(scripts, path)
		}
	}

	for _, p := range raw {
		path := platform.Normalize(p)
		if !platform.HasPathPrefix(path, scriptsDir) {
			continue
		}
		if !d.Publisher.IsExecutable(path) {
			continue
		}
		add(path)
		for _, variant := range d.Publisher.Variants(path) {
			add(platform.Normalize(variant))
		}
	}

	d.logger().Debug("discovered scripts", "package", pkg, "raw", len(raw), "kept", len(scripts))
	return scripts
}

func (d *Discovery) logger() *log.Logger {
	if d.Logger == nil {
		return log.New(io.Discard)
	}
	return d.Logger
}
