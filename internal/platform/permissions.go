package platform

import (
	"os"
	"runtime"
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// isRegularFile follows symlinks and reports whether path is a regular file.
func isRegularFile(path string) (os.FileInfo, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, false
	}
	return info, true
}

// hasExecBit reports whether any of the user, group or other execute bits is set.
func hasExecBit(mode os.FileMode) bool {
	return mode.Perm()&0o111 != 0
}
