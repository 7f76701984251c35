package linker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/venvbin/venvbin/internal/platform"
)

// Link is a bin-dir entry that resolves into a virtualenv.
type Link struct {
	Path   string // entry in the bin directory
	Target string // normalized link target
}

// Dangling reports whether the link target no longer exists.
func (l Link) Dangling() bool {
	_, err := os.Stat(l.Target)
	return err != nil
}

// FindLinks lists the symlinks in binDir whose targets fall under root.
// A missing binDir yields no links. Results are sorted by path.
func FindLinks(binDir, root string) ([]Link, error) {
	entries, err := os.ReadDir(binDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", binDir, err)
	}

	root = platform.Normalize(root)
	var links []Link
	for _, entry := range entries {
		path := filepath.Join(binDir, entry.Name())
		target, ok := platform.ReadLinkTarget(path)
		if !ok || !platform.HasPathPrefix(target, root) {
			continue
		}
		links = append(links, Link{Path: path, Target: target})
	}

	sort.Slice(links, func(i, j int) bool { return links[i].Path < links[j].Path })
	return links, nil
}

// PublishedFor returns the bin-dir entries that currently point at one of
// sources. Used to rebuild a record for a virtualenv that has none. With
// copies set, a regular file carrying a source's base name also counts.
func PublishedFor(binDir string, sources []string, copies bool) []string {
	want := make(map[string]bool, len(sources))
	for _, src := range sources {
		want[platform.Normalize(src)] = true
	}

	dsts := []string{}
	for _, src := range sources {
		dst := filepath.Join(binDir, filepath.Base(src))
		if target, ok := platform.ReadLinkTarget(dst); ok && want[target] {
			dsts = append(dsts, dst)
			continue
		}
		if !copies {
			continue
		}
		if info, err := os.Lstat(dst); err == nil && info.Mode().IsRegular() {
			dsts = append(dsts, dst)
		}
	}
	return dsts
}
