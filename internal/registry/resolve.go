package registry

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/cases"

	"github.com/venvbin/venvbin/internal/runtime"
)

var (
	// requirementName matches the project name at the start of a PEP 508
	// requirement.
	requirementName = regexp.MustCompile(`^\s*([A-Za-z0-9][A-Za-z0-9._-]*)`)

	// unsafeNameChars are collapsed to a single "-" in project names.
	unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9.]+`)
)

// requirementTail lists what may follow the name in a requirement: extras,
// a version specifier, an environment marker or a direct URL.
const requirementTail = "[(<>=!~;@"

// NormalizePackage reduces a requirement to its canonical project name:
// extras, version specifiers, markers and URLs are dropped, runs of
// characters other than letters, digits and "." become "-", and the result
// is case-folded. NormalizePackage is idempotent.
func NormalizePackage(requirement string) (string, error) {
	m := requirementName.FindStringSubmatchIndex(requirement)
	if m == nil {
		return "", fmt.Errorf("%w: %q does not start with a project name", ErrSpec, requirement)
	}
	name := requirement[m[2]:m[3]]
	rest := strings.TrimSpace(requirement[m[1]:])
	if rest != "" && !strings.ContainsRune(requirementTail, rune(rest[0])) {
		return "", fmt.Errorf("%w: unexpected %q after project name in %q", ErrSpec, rest, requirement)
	}
	return cases.Fold().String(unsafeNameChars.ReplaceAllString(name, "-")), nil
}

// pyproject is the subset of pyproject.toml that can name a project.
type pyproject struct {
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name string `toml:"name"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// ResolveSpec turns an install spec into a package name and pip arguments.
//
//   - A URL with a host (VCS or archive) must name the package in an
//     "#egg=<name>" fragment and is handed to pip unchanged.
//   - A file:// URL or an existing directory is a local project; its name
//     comes from pyproject.toml when declared statically, otherwise from
//     `python setup.py --name`. pip receives the directory.
//   - Anything else is a requirement for the package index.
//
// python is the interpreter used for setup.py; it is only consulted for
// local projects without a static name.
func (r *Repository) ResolveSpec(ctx context.Context, spec, python string) (*Spec, error) {
	var location string
	u, err := url.Parse(spec)
	switch {
	case err == nil && u.Scheme == "file":
		location = u.Path
	case err == nil && u.Host != "":
		egg, ok := strings.CutPrefix(u.Fragment, "egg=")
		if !ok || egg == "" {
			return nil, fmt.Errorf("%w: when installing from URLs you need to add an egg at the end, for instance git+https://.../#egg=Foo", ErrSpec)
		}
		return &Spec{Name: egg, InstallArgs: []string{spec}}, nil
	case isDir(spec):
		location = spec
	default:
		return &Spec{Name: spec, InstallArgs: []string{spec}}, nil
	}

	name, err := r.localProjectName(ctx, spec, location, python)
	if err != nil {
		return nil, err
	}
	return &Spec{Name: name, InstallArgs: []string{location}}, nil
}

func (r *Repository) localProjectName(ctx context.Context, spec, location, python string) (string, error) {
	name, err := pyprojectName(filepath.Join(location, "pyproject.toml"))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrSpec, spec, err)
	}
	if name != "" {
		return name, nil
	}

	if _, err := os.Stat(filepath.Join(location, "setup.py")); err != nil {
		return "", fmt.Errorf("%w: %s does not appear to be a local Python package", ErrSpec, spec)
	}
	if python == "" {
		return "", fmt.Errorf("%w: no interpreter available to read the name of %s", ErrConfig, spec)
	}

	cmd := runtime.Command{Args: []string{python, "setup.py", "--name"}, Dir: location}
	out, err := r.runner.Run(ctx, cmd)
	if err == nil {
		err = runtime.Check(cmd, out)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s does not appear to be a valid package: %v", ErrSpec, spec, err)
	}

	lines := strings.Split(strings.TrimSpace(out.Stdout), "\n")
	name = strings.TrimSpace(lines[len(lines)-1])
	if name == "" {
		return "", fmt.Errorf("%w: setup.py in %s reported no name", ErrSpec, spec)
	}
	return name, nil
}

// pyprojectName returns the statically declared project name, or "" when
// the file is absent or declares none.
func pyprojectName(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	var p pyproject
	if err := toml.Unmarshal(data, &p); err != nil {
		return "", fmt.Errorf("parsing pyproject.toml: %w", err)
	}
	if p.Project.Name != "" {
		return p.Project.Name, nil
	}
	return p.Tool.Poetry.Name, nil
}
