package registry

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/venvbin/venvbin/internal/linker"
	"github.com/venvbin/venvbin/internal/manifest"
	"github.com/venvbin/venvbin/internal/platform"
	"github.com/venvbin/venvbin/internal/runtime"
)

// Options configures a Repository. Only Home and BinDir are required; the
// remaining collaborators default to the real implementations.
type Options struct {
	Home   string // directory holding one virtualenv per package
	BinDir string // directory scripts are published into

	// Python is the default interpreter choice for installs and for reading
	// local project names.
	Python string

	// Out receives user-facing notices.
	Out    io.Writer
	Logger *log.Logger

	Runner       runtime.Runner
	Introspector runtime.Introspector
	Publisher    platform.Publisher
	Layout       platform.Layout
	LookPath     runtime.LookPathFunc
}

// Repository manages the virtualenvs under a home directory and the scripts
// they publish into a bin directory.
type Repository struct {
	home   string
	binDir string
	python string

	out      io.Writer
	log      *log.Logger
	runner   runtime.Runner
	layout   platform.Layout
	lookPath runtime.LookPathFunc
	copies   bool // scripts are published as copies, not symlinks

	provisioner *runtime.Provisioner
	discovery   *linker.Discovery
	linker      *linker.Linker
	store       *manifest.Store
}

// New builds a Repository from opts.
func New(opts Options) *Repository {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	layout := opts.Layout
	if layout.BinDir == "" {
		layout = platform.CurrentLayout()
	}
	lookPath := opts.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	runner := opts.Runner
	if runner == nil {
		runner = &runtime.ExecRunner{Logger: logger}
	}
	introspector := opts.Introspector
	if introspector == nil {
		introspector = &runtime.PythonIntrospector{Runner: runner, Layout: layout}
	}
	publisher := opts.Publisher
	if publisher == nil {
		publisher = platform.Detect()
	}

	binDir := opts.BinDir
	if abs, err := filepath.Abs(binDir); err == nil {
		binDir = abs
	}

	discovery := &linker.Discovery{
		Introspector: introspector,
		Publisher:    publisher,
		Layout:       layout,
		Logger:       logger,
	}

	return &Repository{
		home:     platform.Normalize(opts.Home),
		binDir:   binDir,
		python:   opts.Python,
		out:      out,
		log:      logger,
		runner:   runner,
		layout:   layout,
		lookPath: lookPath,
		copies:   publisher.Name() == "copy",
		provisioner: &runtime.Provisioner{
			Runner:       runner,
			Introspector: introspector,
			Layout:       layout,
			LookPath:     lookPath,
		},
		discovery: discovery,
		linker: &linker.Linker{
			BinDir:    binDir,
			Publisher: publisher,
			Out:       out,
			Logger:    logger,
		},
		store: &manifest.Store{
			Introspector: introspector,
			Finder:       discovery,
			BinDir:       binDir,
			Copies:       publisher.Name() == "copy",
			Logger:       logger,
		},
	}
}

// Home returns the normalized home directory.
func (r *Repository) Home() string { return r.home }

// BinDir returns the absolute bin directory.
func (r *Repository) BinDir() string { return r.binDir }

// Layout returns the virtualenv layout in use.
func (r *Repository) Layout() platform.Layout { return r.layout }

// PackagePath returns the virtualenv location for pkg and its canonical name.
func (r *Repository) PackagePath(pkg string) (string, string, error) {
	name, err := NormalizePackage(pkg)
	if err != nil {
		return "", "", err
	}
	return filepath.Join(r.home, name), name, nil
}

// cleanup removes a half-built virtualenv. Failures are logged and dropped.
func (r *Repository) cleanup(venvPath string) {
	if err := os.RemoveAll(venvPath); err != nil {
		r.log.Debug("cleanup failed", "path", venvPath, "err", err)
	}
}

// ownsScript reports whether the bin-dir entry at path belongs to the
// virtualenv at venvPath. Copies carry no link back to their source, so on
// copy platforms every recorded path is trusted.
func (r *Repository) ownsScript(venvPath, path string) bool {
	if r.copies {
		return true
	}
	target, ok := platform.ReadLinkTarget(path)
	if !ok {
		return false
	}
	return platform.HasPathPrefix(target, platform.Normalize(r.layout.ScriptsDir(venvPath)))
}

// unpublish removes published scripts. Failures are logged and dropped.
func (r *Repository) unpublish(paths []string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			r.log.Debug("removing script failed", "path", path, "err", err)
		}
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
