package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// Command describes one subprocess invocation.
type Command struct {
	Args []string // argv; Args[0] is the program
	Dir  string   // working directory, empty for the current one

	// Stream forwards output to the runner's writers while it is captured.
	// Long-running tools (venv, pip) are streamed so the user sees progress.
	Stream bool
}

// String renders the command line for messages.
func (c Command) String() string {
	return strings.Join(c.Args, " ")
}

// Output captures the result of a subprocess. Stdout and Stderr are trimmed.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes commands. A non-zero exit status is reported through
// Output.ExitCode, not as an error; the error return is reserved for
// processes that could not be started at all.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Output, error)
}

// ExitError reports a subprocess that exited with a non-zero status. It keeps
// the captured output so the caller can surface it for diagnosis.
type ExitError struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", strings.Join(e.Args, " "), e.ExitCode)
	detail := e.Stderr
	if detail == "" {
		detail = e.Stdout
	}
	if detail != "" {
		msg += ": " + lastLines(detail, 5)
	}
	return msg
}

// Check returns an *ExitError when out reports a failure.
func Check(cmd Command, out *Output) error {
	if out.ExitCode == 0 {
		return nil
	}
	return &ExitError{
		Args:     cmd.Args,
		ExitCode: out.ExitCode,
		Stdout:   out.Stdout,
		Stderr:   out.Stderr,
	}
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Stdout and Stderr receive streamed output; default os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
	Logger *log.Logger
}

// Run executes cmd and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (*Output, error) {
	if len(cmd.Args) == 0 {
		return nil, errors.New("empty command")
	}

	c := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	c.Dir = cmd.Dir

	var stdoutBuf, stderrBuf bytes.Buffer
	if cmd.Stream {
		c.Stdout = io.MultiWriter(r.stdout(), &stdoutBuf)
		c.Stderr = io.MultiWriter(r.stderr(), &stderrBuf)
	} else {
		c.Stdout = &stdoutBuf
		c.Stderr = &stderrBuf
	}

	err := c.Run()

	output := &Output{
		Stdout: strings.TrimSpace(stdoutBuf.String()),
		Stderr: strings.TrimSpace(stderrBuf.String()),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			r.logger().Debug("run failed to start", "argv", cmd.Args, "err", err)
			return output, fmt.Errorf("running %s: %w", cmd.Args[0], err)
		}
		output.ExitCode = exitErr.ExitCode()
	}

	r.logger().Debug("run", "argv", cmd.Args, "code", output.ExitCode,
		"stdout", output.Stdout, "stderr", output.Stderr)
	return output, nil
}

func (r *ExecRunner) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}

func (r *ExecRunner) stderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}

func (r *ExecRunner) logger() *log.Logger {
	if r.Logger == nil {
		return log.New(io.Discard)
	}
	return r.Logger
}

// lastLines returns at most n trailing lines of s.
func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
