package runtime

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/Masterminds/semver/v3"

	"github.com/venvbin/venvbin/internal/platform"
)

// venvConstraint selects interpreters that ship the builtin venv module.
var venvConstraint = mustConstraint(">= 3.3")

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

// InstallOptions are the pip flags a caller may request.
type InstallOptions struct {
	Editable bool
	Upgrade  bool
}

// Provisioner creates virtualenvs and installs packages into them.
type Provisioner struct {
	Runner       Runner
	Introspector Introspector
	Layout       platform.Layout
	LookPath     LookPathFunc
}

// CreateCommand builds the command that provisions a virtualenv at venvPath
// for interp. Interpreters with a builtin venv module use it directly (after
// unwrapping any enclosing virtualenv); older ones go through virtualenv.
func (p *Provisioner) CreateCommand(ctx context.Context, interp *Interpreter, venvPath string, systemSite bool) (Command, error) {
	var args []string
	if venvConstraint.Check(interp.Version) {
		host, err := p.Introspector.RealInterpreter(ctx, interp.Path)
		if err != nil {
			return Command{}, fmt.Errorf("resolving host interpreter: %w", err)
		}
		args = []string{host, "-m", "venv", venvPath}
	} else {
		args = p.virtualenvArgs(interp.Path, venvPath)
	}
	if systemSite {
		args = append(args, "--system-site-packages")
	}
	return Command{Args: args, Stream: true}, nil
}

// Create provisions the virtualenv and fails on a non-zero exit.
func (p *Provisioner) Create(ctx context.Context, interp *Interpreter, venvPath string, systemSite bool) error {
	cmd, err := p.CreateCommand(ctx, interp, venvPath, systemSite)
	if err != nil {
		return err
	}
	return p.exec(ctx, cmd)
}

// InstallCommand builds the pip invocation for the virtualenv at venvPath.
func (p *Provisioner) InstallCommand(venvPath string, installArgs []string, opts InstallOptions) Command {
	args := []string{p.Layout.Interpreter(venvPath), "-m", "pip", "install"}
	if opts.Upgrade {
		args = append(args, "--upgrade")
	}
	if opts.Editable {
		args = append(args, "--editable")
	}
	args = append(args, installArgs...)
	return Command{Args: args, Stream: true}
}

// Install runs pip inside the virtualenv and fails on a non-zero exit.
func (p *Provisioner) Install(ctx context.Context, venvPath string, installArgs []string, opts InstallOptions) error {
	return p.exec(ctx, p.InstallCommand(venvPath, installArgs, opts))
}

func (p *Provisioner) virtualenvArgs(python, venvPath string) []string {
	lookPath := p.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if ve, err := lookPath("virtualenv"); err == nil {
		return []string{ve, "-p", python, venvPath}
	}
	return []string{python, "-m", "virtualenv", "-p", python, venvPath}
}

func (p *Provisioner) exec(ctx context.Context, cmd Command) error {
	out, err := p.Runner.Run(ctx, cmd)
	if err != nil {
		return err
	}
	return Check(cmd, out)
}
