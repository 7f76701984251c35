package userdata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/venvbin/venvbin/internal/linker"
	"github.com/venvbin/venvbin/internal/manifest"
	"github.com/venvbin/venvbin/internal/platform"
)

// Checkup describes the installation the doctor inspects.
type Checkup struct {
	Home        string
	BinDir      string
	Virtualenvs []string // virtualenvs found under Home
	Path        string   // value of the PATH environment variable

	// Rebuild writes a record for a virtualenv that has none. Only used
	// when fixing.
	Rebuild func(venvPath string) error
}

// Run prints one line per check and returns how many problems remain.
// When fix is true, it attempts to repair what it can.
func (c *Checkup) Run(w io.Writer, fix bool) int {
	problems := 0

	fmt.Fprintln(w, "Layout check:")
	problems += checkDirExists(w, c.Home, fix)
	problems += checkDirExists(w, c.BinDir, fix)
	problems += c.checkOnPath(w)

	fmt.Fprintln(w, "Package records:")
	problems += c.checkRecords(w, fix)

	fmt.Fprintln(w, "Published scripts:")
	problems += c.checkLinks(w, fix)

	return problems
}

func checkDirExists(w io.Writer, path string, fix bool) int {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", path)
		if fix {
			if mkErr := os.MkdirAll(path, DirPermNormal); mkErr != nil {
				fmt.Fprintf(w, "  [FAIL] Could not create %s: %v\n", path, mkErr)
				return 1
			}
			fmt.Fprintf(w, "  [FIX ] Created %s\n", path)
			return 0
		}
		return 1
	}
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		return 1
	}
	if !info.IsDir() {
		fmt.Fprintf(w, "  [WARN] %s exists but is not a directory\n", path)
		return 1
	}
	fmt.Fprintf(w, "  [ OK ] %s exists\n", path)
	return 0
}

func (c *Checkup) checkOnPath(w io.Writer) int {
	bin := platform.Normalize(c.BinDir)
	for _, dir := range filepath.SplitList(c.Path) {
		if dir != "" && platform.Normalize(dir) == bin {
			fmt.Fprintf(w, "  [ OK ] %s is on PATH\n", c.BinDir)
			return 0
		}
	}
	fmt.Fprintf(w, "  [WARN] %s is not on PATH; published scripts will not be found\n", c.BinDir)
	return 1
}

func (c *Checkup) checkRecords(w io.Writer, fix bool) int {
	if len(c.Virtualenvs) == 0 {
		fmt.Fprintln(w, "  [ OK ] no packages installed")
		return 0
	}
	problems := 0
	for _, venv := range c.Virtualenvs {
		_, err := manifest.ReadFile(venv)
		switch {
		case err == nil:
			fmt.Fprintf(w, "  [ OK ] %s\n", filepath.Base(venv))
		case os.IsNotExist(err):
			fmt.Fprintf(w, "  [MISS] %s has no %s\n", filepath.Base(venv), manifest.FileName)
			if fix && c.Rebuild != nil {
				if rbErr := c.Rebuild(venv); rbErr != nil {
					fmt.Fprintf(w, "  [FAIL] Could not rebuild record for %s: %v\n", filepath.Base(venv), rbErr)
					problems++
					continue
				}
				fmt.Fprintf(w, "  [FIX ] Rebuilt record for %s\n", filepath.Base(venv))
				continue
			}
			problems++
		default:
			fmt.Fprintf(w, "  [FAIL] %s: %v\n", filepath.Base(venv), err)
			problems++
		}
	}
	return problems
}

func (c *Checkup) checkLinks(w io.Writer, fix bool) int {
	links, err := linker.FindLinks(c.BinDir, c.Home)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return 1
	}

	problems := 0
	dangling := 0
	for _, l := range links {
		if !l.Dangling() {
			continue
		}
		dangling++
		fmt.Fprintf(w, "  [WARN] %s -> %s (target does not exist)\n", l.Path, l.Target)
		if fix {
			if rmErr := os.Remove(l.Path); rmErr != nil {
				fmt.Fprintf(w, "  [FAIL] Could not remove %s: %v\n", l.Path, rmErr)
				problems++
				continue
			}
			fmt.Fprintf(w, "  [FIX ] Removed %s\n", l.Path)
			continue
		}
		problems++
	}
	if dangling == 0 {
		fmt.Fprintf(w, "  [ OK ] %d links into %s, none dangling\n", len(links), c.Home)
	}
	return problems
}
