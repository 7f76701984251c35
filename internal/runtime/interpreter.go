package runtime

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	// ErrVersionParse is returned when an interpreter's --version output
	// cannot be understood.
	ErrVersionParse = errors.New("unrecognized interpreter version")

	// ErrInterpreterNotFound is returned when a requested interpreter is not
	// on the executable search path.
	ErrInterpreterNotFound = errors.New("interpreter not found")
)

var (
	versionPattern  = regexp.MustCompile(`^Python (\d)\.(\d+)\.(\d+)`)
	majorOnlyChoice = regexp.MustCompile(`^\d$`)
)

// defaultInterpreters are tried in order when no interpreter is requested.
var defaultInterpreters = []string{"python3", "python"}

// LookPathFunc matches exec.LookPath; tests replace it.
type LookPathFunc func(file string) (string, error)

// Interpreter is a concrete Python executable and its version.
type Interpreter struct {
	Path    string
	Version *semver.Version
}

// Major returns the interpreter's major version.
func (i *Interpreter) Major() uint64 {
	return i.Version.Major()
}

func (i *Interpreter) String() string {
	return fmt.Sprintf("%s (Python %s)", i.Path, i.Version)
}

// FindInterpreter maps a user choice to an executable path. The choice may
// be empty (use the default interpreter), a single digit naming a major
// version ("3" → python3 on PATH), a bare command name, or a path.
func FindInterpreter(choice string, lookPath LookPathFunc) (string, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	switch {
	case choice == "":
		for _, name := range defaultInterpreters {
			if p, err := lookPath(name); err == nil {
				return p, nil
			}
		}
		return "", fmt.Errorf("%w: none of %s on PATH", ErrInterpreterNotFound, strings.Join(defaultInterpreters, ", "))

	case majorOnlyChoice.MatchString(choice):
		name := "python" + choice
		p, err := lookPath(name)
		if err != nil {
			return "", fmt.Errorf("%w: can not find %s in PATH", ErrInterpreterNotFound, name)
		}
		return p, nil

	case strings.ContainsAny(choice, `/\`):
		return choice, nil

	default:
		if p, err := lookPath(choice); err == nil {
			return p, nil
		}
		return choice, nil
	}
}

// ParseVersion extracts the semantic version from `python --version` output.
func ParseVersion(raw string) (*semver.Version, error) {
	m := versionPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return nil, fmt.Errorf("%w: could not match %s out of %q", ErrVersionParse, versionPattern, raw)
	}
	return semver.NewVersion(fmt.Sprintf("%s.%s.%s", m[1], m[2], m[3]))
}

// ProbeInterpreter runs `<path> --version` and parses the result. Python 2
// prints its version on stderr, so stderr is consulted when stdout is empty.
func ProbeInterpreter(ctx context.Context, r Runner, path string) (*Interpreter, error) {
	cmd := Command{Args: []string{path, "--version"}}
	out, err := r.Run(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if err := Check(cmd, out); err != nil {
		return nil, fmt.Errorf("probing interpreter: %w", err)
	}

	raw := out.Stdout
	if raw == "" {
		raw = out.Stderr
	}
	v, err := ParseVersion(raw)
	if err != nil {
		return nil, err
	}
	return &Interpreter{Path: path, Version: v}, nil
}

// ResolveInterpreter combines FindInterpreter and ProbeInterpreter.
func ResolveInterpreter(ctx context.Context, r Runner, choice string, lookPath LookPathFunc) (*Interpreter, error) {
	path, err := FindInterpreter(choice, lookPath)
	if err != nil {
		return nil, err
	}
	return ProbeInterpreter(ctx, r, path)
}
