package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/text/cases"
)

// caseInsensitive reports whether path comparisons must ignore case.
var caseInsensitive = runtime.GOOS == "windows"

// Normalize returns the canonical form of path: absolute, cleaned, with every
// symlink in its longest existing prefix resolved, and case-folded on
// case-insensitive platforms. It never fails; a path that does not exist is
// normalized lexically below its deepest existing ancestor.
func Normalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	resolved := resolveExisting(abs)
	if caseInsensitive {
		resolved = cases.Fold().String(resolved)
	}
	return resolved
}

// resolveExisting resolves symlinks in the existing part of an absolute path
// and re-attaches the missing tail unchanged.
func resolveExisting(path string) string {
	if r, err := filepath.EvalSymlinks(path); err == nil {
		return r
	}
	parent := filepath.Dir(path)
	if parent == path {
		return path
	}
	return filepath.Join(resolveExisting(parent), filepath.Base(path))
}

// ReadLinkTarget returns the normalized target of the symlink at path.
// The boolean is false when path is not a symlink or cannot be read; callers
// must not interpret the empty string on its own.
func ReadLinkTarget(path string) (string, bool) {
	target, err := os.Readlink(path)
	if err != nil {
		return "", false
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return Normalize(target), true
}

// HasPathPrefix reports whether path equals prefix or lies below it. Both
// arguments are expected to be normalized already.
func HasPathPrefix(path, prefix string) bool {
	prefix = strings.TrimSuffix(prefix, string(os.PathSeparator))
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+string(os.PathSeparator))
}
