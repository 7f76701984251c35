package platform

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// Action reports what Publish did with a destination.
type Action int

const (
	// ActionUnchanged means the destination already pointed at the source.
	ActionUnchanged Action = iota
	// ActionLinked means a symlink was (re)created.
	ActionLinked
	// ActionCopied means the source was copied over the destination.
	ActionCopied
)

// String returns the notice verb for the action.
func (a Action) String() string {
	switch a {
	case ActionLinked:
		return "Linked script"
	case ActionCopied:
		return "Copied executable"
	default:
		return "Unchanged"
	}
}

// Publisher is the per-platform capability used to expose a script in the
// shared bin directory. Exactly one implementation is selected at startup.
type Publisher interface {
	// Publish makes dst refer to src, replacing whatever dst was before.
	Publish(src, dst string) (Action, error)

	// IsExecutable reports whether path is a regular file the platform
	// considers runnable.
	IsExecutable(path string) bool

	// Variants returns sibling files that are the same script under a
	// platform-specific suffix (e.g. "tool.exe" for "tool").
	Variants(path string) []string

	// Name identifies the strategy ("symlink" or "copy").
	Name() string
}

// Detect returns the Publisher for the running platform.
func Detect() Publisher {
	return ForOS(runtime.GOOS)
}

// ForOS returns the Publisher used on goos.
func ForOS(goos string) Publisher {
	if goos == "windows" {
		return copyPublisher{}
	}
	return symlinkPublisher{}
}

// symlinkPublisher publishes scripts as symlinks and requires the POSIX
// execute bit.
type symlinkPublisher struct{}

func (symlinkPublisher) Name() string { return "symlink" }

func (symlinkPublisher) Publish(src, dst string) (Action, error) {
	if target, ok := ReadLinkTarget(dst); ok && target == Normalize(src) {
		return ActionUnchanged, nil
	}

	// Best-effort: a missing destination is the common case.
	_ = os.Remove(dst)

	if err := os.Symlink(src, dst); err != nil {
		return ActionUnchanged, fmt.Errorf("linking %s -> %s: %w", dst, src, err)
	}
	return ActionLinked, nil
}

func (symlinkPublisher) IsExecutable(path string) bool {
	info, ok := isRegularFile(path)
	return ok && hasExecBit(info.Mode())
}

func (symlinkPublisher) Variants(string) []string { return nil }

// copyPublisher copies scripts because symlinks are not reliably available.
// Every regular file counts as executable.
type copyPublisher struct{}

func (copyPublisher) Name() string { return "copy" }

func (copyPublisher) Publish(src, dst string) (Action, error) {
	if err := copyFile(src, dst); err != nil {
		return ActionUnchanged, fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	return ActionCopied, nil
}

func (copyPublisher) IsExecutable(path string) bool {
	_, ok := isRegularFile(path)
	return ok
}

func (p copyPublisher) Variants(path string) []string {
	matches, err := filepath.Glob(path + "*")
	if err != nil {
		return nil
	}
	var result []string
	for _, m := range matches {
		if p.IsExecutable(m) {
			result = append(result, m)
		}
	}
	return result
}

// copyFile copies src over dst and carries the source permissions across.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return Chmod(dst, info.Mode().Perm())
}
