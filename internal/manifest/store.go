package manifest

import (
	"context"
	"errors"
	"io"
	"io/fs"

	"github.com/charmbracelet/log"

	"github.com/venvbin/venvbin/internal/linker"
	"github.com/venvbin/venvbin/internal/runtime"
)

// ScriptFinder discovers the entry points of a package in a virtualenv.
type ScriptFinder interface {
	Scripts(ctx context.Context, venvPath, pkg string) []string
}

// Store reads and writes package records. Records that were never written
// are rebuilt from the virtualenv and the bin directory.
type Store struct {
	Introspector runtime.Introspector
	Finder       ScriptFinder

	// BinDir is searched for entries that point at rediscovered scripts.
	BinDir string
	// Copies accepts same-named regular files in BinDir as published.
	Copies bool

	Logger *log.Logger
}

// Save writes a record for name with the given published scripts. The
// version is asked from the virtualenv; failure leaves it empty.
func (s *Store) Save(ctx context.Context, venvPath, name string, scripts []string) (*PackageRecord, error) {
	r := NewPackageRecord(name, s.version(ctx, venvPath, name), scripts)
	if err := WriteFile(venvPath, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Load returns the record of the virtualenv at venvPath. A corrupt record is
// an error. A missing one is synthesized under fallbackName.
func (s *Store) Load(ctx context.Context, venvPath, fallbackName string) (*PackageRecord, error) {
	r, err := ReadFile(venvPath)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	s.logger().Debug("no package record, rebuilding", "venv", venvPath, "name", fallbackName)
	return NewPackageRecord(fallbackName, s.version(ctx, venvPath, fallbackName), s.published(ctx, venvPath, fallbackName)), nil
}

// published collects the bin-dir entries for the scripts discovery finds,
// plus any other link in the bin directory that resolves into the virtualenv.
func (s *Store) published(ctx context.Context, venvPath, name string) []string {
	sources := s.Finder.Scripts(ctx, venvPath, name)
	scripts := linker.PublishedFor(s.BinDir, sources, s.Copies)

	links, err := linker.FindLinks(s.BinDir, venvPath)
	if err != nil {
		s.logger().Debug("scanning bin dir failed", "bin_dir", s.BinDir, "err", err)
		return scripts
	}
	seen := make(map[string]bool, len(scripts))
	for _, p := range scripts {
		seen[p] = true
	}
	for _, l := range links {
		if !seen[l.Path] {
			seen[l.Path] = true
			scripts = append(scripts, l.Path)
		}
	}
	return scripts
}

func (s *Store) version(ctx context.Context, venvPath, name string) string {
	v, err := s.Introspector.PackageVersion(ctx, venvPath, name)
	if err != nil {
		s.logger().Debug("version lookup failed", "venv", venvPath, "name", name, "err", err)
		return ""
	}
	return v
}

func (s *Store) logger() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard)
	}
	return s.Logger
}
