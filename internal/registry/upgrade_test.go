package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUpgradeReconcilesScripts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.repo.Install(ctx, "widget", InstallOptions{}); err != nil {
		t.Fatal(err)
	}
	env.intro.version = "2.0.0"
	env.out.Reset()

	record, err := env.repo.Upgrade(ctx, "widget", false)
	if err != nil {
		t.Fatalf("Upgrade: %v", err)
	}

	want := []string{filepath.Join(env.bin, "widget"), filepath.Join(env.bin, "widget-new")}
	if diff := cmp.Diff(want, record.Scripts); diff != "" {
		t.Errorf("scripts mismatch (-want +got):\n%s", diff)
	}
	if record.Version != "2.0.0" {
		t.Errorf("Version = %q, want 2.0.0", record.Version)
	}

	removed := filepath.Join(env.bin, "widget-admin")
	if _, err := os.Lstat(removed); !os.IsNotExist(err) {
		t.Errorf("%s still present after upgrade", removed)
	}
	if _, err := os.Lstat(filepath.Join(env.bin, "widget")); err != nil {
		t.Errorf("script kept across versions was removed: %v", err)
	}

	output := env.out.String()
	if !strings.Contains(output, "  Removing old script "+removed+"\n") {
		t.Errorf("output %q lacks removal notice", output)
	}
	if strings.Contains(output, "Removing old script "+filepath.Join(env.bin, "widget")+"\n") {
		t.Errorf("output %q removes a script present in both versions", output)
	}

	pip := env.python.commandsWith("--upgrade")
	if len(pip) != 1 || slices.Contains(pip[0].Args, "--editable") {
		t.Errorf("upgrade pip calls = %v", pip)
	}
}

func TestUpgradeEditable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if _, err := env.repo.Install(ctx, "widget", InstallOptions{}); err != nil {
		t.Fatal(err)
	}
	if _, err := env.repo.Upgrade(ctx, "widget", true); err != nil {
		t.Fatal(err)
	}
	pip := env.python.commandsWith("--upgrade")
	if len(pip) != 1 {
		t.Fatalf("upgrade pip calls = %d, want 1", len(pip))
	}
	want := []string{filepath.Join(env.repo.Home(), "widget", "bin", "python"), "-m", "pip", "install", "--upgrade", "--editable", "widget"}
	if diff := cmp.Diff(want, pip[0].Args); diff != "" {
		t.Errorf("argv mismatch (-want +got):\n%s", diff)
	}
}

func TestUpgradeNotInstalled(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.repo.Upgrade(context.Background(), "widget", false)
	if !errors.Is(err, ErrNotInstalled) {
		t.Fatalf("error = %v, want ErrNotInstalled", err)
	}
	if err.Error() != "widget is not installed" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestUpgradePipFailureKeepsInstall(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if _, err := env.repo.Install(ctx, "widget", InstallOptions{}); err != nil {
		t.Fatal(err)
	}
	env.python.failPip = true

	_, err := env.repo.Upgrade(ctx, "widget", false)
	if !errors.Is(err, ErrSubprocess) {
		t.Fatalf("error = %v, want ErrSubprocess", err)
	}
	if !strings.Contains(env.out.String(), "Failed to upgrade through pip.  Aborting.") {
		t.Errorf("output = %q", env.out.String())
	}
	if !isDir(filepath.Join(env.repo.Home(), "widget")) {
		t.Error("failed upgrade removed the virtualenv")
	}
}

func TestStaleScripts(t *testing.T) {
	tests := []struct {
		name    string
		old     []string
		current []string
		want    []string
	}{
		{"nothing old", nil, []string{"/b/a"}, nil},
		{"all kept", []string{"/b/a"}, []string{"/b/a", "/b/c"}, nil},
		{"one dropped", []string{"/b/a", "/b/b"}, []string{"/b/a"}, []string{"/b/b"}},
		{"everything dropped", []string{"/b/a", "/b/b"}, nil, []string{"/b/a", "/b/b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, staleScripts(tt.old, tt.current)); diff != "" {
				t.Errorf("staleScripts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUpgradeLeavesReassignedScripts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.repo.Install(ctx, "widget", InstallOptions{}); err != nil {
		t.Fatal(err)
	}

	// Another package has since taken over widget-admin.
	admin := filepath.Join(env.bin, "widget-admin")
	relink(t, admin)
	env.out.Reset()

	if _, err := env.repo.Upgrade(ctx, "widget", false); err != nil {
		t.Fatalf("Upgrade: %v", err)
	}
	if _, err := os.Lstat(admin); err != nil {
		t.Errorf("link owned by another package was removed: %v", err)
	}
	if strings.Contains(env.out.String(), "Removing old script "+admin) {
		t.Errorf("output %q announces removing a foreign link", env.out.String())
	}
}

func TestUpgradeRequirementDiscoversByProjectName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if _, err := env.repo.Install(ctx, "widget", InstallOptions{}); err != nil {
		t.Fatal(err)
	}
	env.intro.names = nil

	record, err := env.repo.Upgrade(ctx, "widget>=2", false)
	if err != nil {
		t.Fatalf("Upgrade: %v", err)
	}
	if diff := cmp.Diff([]string{"widget"}, env.intro.names); diff != "" {
		t.Errorf("names given to FindScripts (-want +got):\n%s", diff)
	}
	want := []string{filepath.Join(env.bin, "widget"), filepath.Join(env.bin, "widget-new")}
	if diff := cmp.Diff(want, record.Scripts); diff != "" {
		t.Errorf("scripts mismatch (-want +got):\n%s", diff)
	}
}

// relink points the bin entry at path to a script outside any virtualenv.
func relink(t *testing.T, path string) {
	t.Helper()
	other := filepath.Join(t.TempDir(), filepath.Base(path))
	if err := os.WriteFile(other, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(other, path); err != nil {
		t.Fatal(err)
	}
}
