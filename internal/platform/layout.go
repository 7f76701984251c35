package platform

import (
	"path/filepath"
	"runtime"
)

// Layout describes where a virtualenv keeps its scripts and interpreter.
type Layout struct {
	BinDir string // "bin" or "Scripts"
	Python string // interpreter file name inside BinDir
}

// LayoutFor returns the virtualenv layout used on goos.
func LayoutFor(goos string) Layout {
	if goos == "windows" {
		return Layout{BinDir: "Scripts", Python: "python.exe"}
	}
	return Layout{BinDir: "bin", Python: "python"}
}

// CurrentLayout returns the virtualenv layout for the running platform.
func CurrentLayout() Layout {
	return LayoutFor(runtime.GOOS)
}

// ScriptsDir returns the executable directory of the virtualenv at venvPath.
func (l Layout) ScriptsDir(venvPath string) string {
	return filepath.Join(venvPath, l.BinDir)
}

// Interpreter returns the interpreter path of the virtualenv at venvPath.
func (l Layout) Interpreter(venvPath string) string {
	return filepath.Join(venvPath, l.BinDir, l.Python)
}
