package runtime

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/venvbin/venvbin/internal/platform"
)

// PayloadVersion identifies the output contract of the embedded payloads.
const PayloadVersion = 1

var (
	//go:embed payload/find_scripts.py
	findScriptsPayload string

	//go:embed payload/get_version.py
	getVersionPayload string

	//go:embed payload/real_prefix.py
	realPrefixPayload string
)

// Introspector answers questions about a virtualenv by running code inside
// the relevant interpreter.
type Introspector interface {
	// FindScripts lists the raw paths a distribution registered in the
	// virtualenv at venvPath, unfiltered and unnormalized.
	FindScripts(ctx context.Context, venvPath, pkg string) ([]string, error)

	// PackageVersion reports the installed version of pkg, or "" when unknown.
	PackageVersion(ctx context.Context, venvPath, pkg string) (string, error)

	// RealInterpreter returns the interpreter that hosts python when python
	// itself runs inside a virtualenv, or python unchanged otherwise.
	RealInterpreter(ctx context.Context, python string) (string, error)
}

// PythonIntrospector implements Introspector with the embedded payloads.
type PythonIntrospector struct {
	Runner Runner
	Layout platform.Layout
}

// NewPythonIntrospector returns an introspector for the current platform.
func NewPythonIntrospector(r Runner) *PythonIntrospector {
	return &PythonIntrospector{Runner: r, Layout: platform.CurrentLayout()}
}

// FindScripts implements Introspector.
func (p *PythonIntrospector) FindScripts(ctx context.Context, venvPath, pkg string) ([]string, error) {
	scriptsDir := p.Layout.ScriptsDir(venvPath)
	out, err := p.run(ctx, p.Layout.Interpreter(venvPath), findScriptsPayload, pkg, scriptsDir)
	if err != nil {
		return nil, err
	}
	return splitLines(out.Stdout), nil
}

// PackageVersion implements Introspector.
func (p *PythonIntrospector) PackageVersion(ctx context.Context, venvPath, pkg string) (string, error) {
	out, err := p.run(ctx, p.Layout.Interpreter(venvPath), getVersionPayload, pkg)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Stdout), nil
}

// RealInterpreter implements Introspector. Python 3's venv module refuses to
// bootstrap pip when launched from inside another virtualenv, so the
// provisioner always starts from the host installation.
func (p *PythonIntrospector) RealInterpreter(ctx context.Context, python string) (string, error) {
	out, err := p.run(ctx, python, realPrefixPayload)
	if err != nil {
		return "", err
	}

	prefix, major, ok := parseRealPrefix(out.Stdout)
	if !ok {
		return "", fmt.Errorf("unexpected real prefix output %q from %s", out.Stdout, python)
	}
	if prefix == "" {
		return python, nil
	}

	for _, candidate := range p.hostCandidates(prefix, major) {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: can not find real python under %s", ErrInterpreterNotFound, prefix)
}

// hostCandidates lists where a host installation keeps its interpreter.
func (p *PythonIntrospector) hostCandidates(prefix, major string) []string {
	if p.Layout.BinDir == "Scripts" {
		return []string{filepath.Join(prefix, p.Layout.Python)}
	}
	return []string{
		filepath.Join(prefix, "bin", "python"+major),
		filepath.Join(prefix, "bin", "python"),
	}
}

func (p *PythonIntrospector) run(ctx context.Context, python, payload string, args ...string) (*Output, error) {
	cmd := Command{Args: append([]string{python, "-c", payload}, args...)}
	out, err := p.Runner.Run(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if err := Check(cmd, out); err != nil {
		return nil, err
	}
	return out, nil
}

// parseRealPrefix splits "<prefix>,<major>". The prefix may itself contain
// commas, so the split happens at the last one.
func parseRealPrefix(s string) (prefix, major string, ok bool) {
	s = strings.TrimSpace(s)
	i := strings.LastIndex(s, ",")
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
