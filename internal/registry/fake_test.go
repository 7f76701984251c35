package registry

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"github.com/venvbin/venvbin/internal/platform"
	venvrt "github.com/venvbin/venvbin/internal/runtime"
)

// fakePython stands in for every interpreter, venv and pip invocation. pip
// "installs" a package by writing its scripts into the virtualenv's bin dir.
type fakePython struct {
	version   string              // `python --version` output
	packages  map[string][]string // pip target -> scripts on install
	upgrades  map[string][]string // pip target -> scripts on upgrade
	setupName string              // `setup.py --name` output

	failVenv bool
	failPip  bool

	calls []venvrt.Command
}

func (f *fakePython) Run(_ context.Context, cmd venvrt.Command) (*venvrt.Output, error) {
	f.calls = append(f.calls, cmd)
	args := cmd.Args

	switch {
	case len(args) == 2 && args[1] == "--version":
		return &venvrt.Output{Stdout: f.version}, nil

	case len(args) >= 3 && args[1] == "setup.py" && args[2] == "--name":
		if f.setupName == "" {
			return &venvrt.Output{ExitCode: 1, Stderr: "error in setup.py"}, nil
		}
		return &venvrt.Output{Stdout: "warning: noise\n" + f.setupName}, nil

	case len(args) >= 4 && args[1] == "-m" && args[2] == "venv":
		if f.failVenv {
			// A failing venv may leave a partial directory behind.
			_ = os.MkdirAll(args[3], 0755)
			return &venvrt.Output{ExitCode: 1, Stderr: "Error: venv failed"}, nil
		}
		return f.createVenv(args[3])

	case len(args) >= 4 && args[1] == "-m" && args[2] == "pip":
		if f.failPip {
			return &venvrt.Output{ExitCode: 1, Stderr: "ERROR: No matching distribution"}, nil
		}
		venv := filepath.Dir(filepath.Dir(args[0]))
		target := args[len(args)-1]
		if name, err := NormalizePackage(target); err == nil {
			target = name
		}
		scripts := f.packages[target]
		if slices.Contains(args, "--upgrade") {
			scripts = f.upgrades[target]
		}
		return f.pipInstall(venv, scripts)
	}
	return &venvrt.Output{ExitCode: 127, Stderr: "unexpected command"}, nil
}

func (f *fakePython) createVenv(venv string) (*venvrt.Output, error) {
	bin := filepath.Join(venv, "bin")
	if err := os.MkdirAll(bin, 0755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(bin, "python"), []byte("#!/bin/sh\n"), 0755); err != nil {
		return nil, err
	}
	return &venvrt.Output{}, nil
}

func (f *fakePython) pipInstall(venv string, scripts []string) (*venvrt.Output, error) {
	bin := filepath.Join(venv, "bin")
	entries, err := os.ReadDir(bin)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Name() != "python" {
			if err := os.Remove(filepath.Join(bin, e.Name())); err != nil {
				return nil, err
			}
		}
	}
	for _, s := range scripts {
		if err := os.WriteFile(filepath.Join(bin, s), []byte("#!/bin/sh\n"), 0755); err != nil {
			return nil, err
		}
	}
	return &venvrt.Output{}, nil
}

func (f *fakePython) commandsWith(arg string) []venvrt.Command {
	var out []venvrt.Command
	for _, c := range f.calls {
		if slices.Contains(c.Args, arg) {
			out = append(out, c)
		}
	}
	return out
}

// fakeIntrospector reports every non-interpreter file in the bin dir and
// remembers the distribution names it was asked about.
type fakeIntrospector struct {
	version string
	names   []string

	// beforeFind runs ahead of every FindScripts call.
	beforeFind func(venv string)
}

func (f *fakeIntrospector) FindScripts(_ context.Context, venv, pkg string) ([]string, error) {
	f.names = append(f.names, pkg)
	if f.beforeFind != nil {
		f.beforeFind(venv)
	}
	entries, err := os.ReadDir(filepath.Join(venv, "bin"))
	if err != nil {
		return nil, err
	}
	var scripts []string
	for _, e := range entries {
		if e.Name() != "python" {
			scripts = append(scripts, filepath.Join(venv, "bin", e.Name()))
		}
	}
	return scripts, nil
}

func (f *fakeIntrospector) PackageVersion(context.Context, string, string) (string, error) {
	return f.version, nil
}

func (f *fakeIntrospector) RealInterpreter(_ context.Context, python string) (string, error) {
	return python, nil
}

type testEnv struct {
	repo   *Repository
	python *fakePython
	intro  *fakeIntrospector
	home   string
	bin    string
	out    *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require developer mode on Windows")
	}

	tmp := t.TempDir()
	env := &testEnv{
		python: &fakePython{
			version: "Python 3.11.4",
			packages: map[string][]string{
				"widget": {"widget", "widget-admin"},
				"gadget": {"gadget"},
			},
			upgrades: map[string][]string{
				"widget": {"widget", "widget-new"},
			},
		},
		intro: &fakeIntrospector{version: "1.0.0"},
		home:  filepath.Join(tmp, "h"),
		bin:   filepath.Join(tmp, "b"),
		out:   &bytes.Buffer{},
	}
	env.repo = New(Options{
		Home:         env.home,
		BinDir:       env.bin,
		Out:          env.out,
		Runner:       env.python,
		Introspector: env.intro,
		Publisher:    platform.ForOS("linux"),
		Layout:       platform.LayoutFor("linux"),
		LookPath: func(file string) (string, error) {
			if file == "python3" {
				return "/usr/bin/python3", nil
			}
			return "", os.ErrNotExist
		},
	})
	return env
}

// tree lists every path below root, relative to it.
func tree(t *testing.T, root string) []string {
	t.Helper()
	var paths []string
	err := filepath.Walk(root, func(path string, _ os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		paths = append(paths, rel)
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	return paths
}
