//go:build integration

package integration_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/venvbin/venvbin/internal/registry"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir string // where virtualenvs are created
	BinDir  string // where scripts are published
	Out     *bytes.Buffer
	Repo    *registry.Repository
}

// setupTestEnv creates isolated temp directories and a repository driving
// the python3 found on PATH. The test is skipped when there is none.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not found on PATH")
	}

	root := t.TempDir()
	env := &testEnv{
		HomeDir: filepath.Join(root, "venvs"),
		BinDir:  filepath.Join(root, "bin"),
		Out:     &bytes.Buffer{},
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.DebugLevel})
	env.Repo = registry.New(registry.Options{
		Home:   env.HomeDir,
		BinDir: env.BinDir,
		Python: "3",
		Out:    env.Out,
		Logger: logger,
	})
	return env
}

// assertExists fails the test if nothing exists at path.
func assertExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err != nil {
		t.Errorf("expected %s to exist (error: %v)", path, err)
	}
}

// assertNotExists fails the test if anything exists at path.
func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err == nil {
		t.Errorf("expected %s NOT to exist", path)
	}
}
