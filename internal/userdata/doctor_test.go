package userdata

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/venvbin/venvbin/internal/manifest"
)

func newLayout(t *testing.T) (home, bin string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require developer mode on Windows")
	}
	tmp := t.TempDir()
	home = filepath.Join(tmp, "venvs")
	bin = filepath.Join(tmp, "bin")
	return home, bin
}

func TestCheckupMissingDirs(t *testing.T) {
	home, bin := newLayout(t)
	c := &Checkup{Home: home, BinDir: bin, Path: bin}

	var out bytes.Buffer
	if got := c.Run(&out, false); got != 2 {
		t.Errorf("problems = %d, want 2\n%s", got, out.String())
	}
	if !strings.Contains(out.String(), "[MISS] "+home+" does not exist") {
		t.Errorf("output lacks missing home:\n%s", out.String())
	}

	out.Reset()
	if got := c.Run(&out, true); got != 0 {
		t.Errorf("problems after fix = %d, want 0\n%s", got, out.String())
	}
	for _, dir := range []string{home, bin} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s not created", dir)
		}
	}
}

func TestCheckupPath(t *testing.T) {
	home, bin := newLayout(t)
	for _, dir := range []string{home, bin} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	c := &Checkup{Home: home, BinDir: bin, Path: strings.Join([]string{"/usr/bin", bin + "/"}, string(os.PathListSeparator))}
	if got := c.Run(&out, false); got != 0 {
		t.Errorf("problems = %d, want 0\n%s", got, out.String())
	}

	out.Reset()
	c.Path = "/usr/bin"
	if got := c.Run(&out, false); got != 1 {
		t.Errorf("problems = %d, want 1\n%s", got, out.String())
	}
	if !strings.Contains(out.String(), "is not on PATH") {
		t.Errorf("output lacks PATH warning:\n%s", out.String())
	}
}

func TestCheckupRecords(t *testing.T) {
	home, bin := newLayout(t)
	withRecord := filepath.Join(home, "good")
	without := filepath.Join(home, "bare")
	corrupt := filepath.Join(home, "bad")
	for _, dir := range []string{withRecord, without, corrupt, bin} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := manifest.WriteFile(withRecord, manifest.NewPackageRecord("good", "1", nil)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(manifest.Path(corrupt), []byte("nope"), 0644); err != nil {
		t.Fatal(err)
	}

	var rebuilt []string
	c := &Checkup{
		Home:        home,
		BinDir:      bin,
		Path:        bin,
		Virtualenvs: []string{corrupt, without, withRecord},
		Rebuild: func(venv string) error {
			rebuilt = append(rebuilt, venv)
			return manifest.WriteFile(venv, manifest.NewPackageRecord(filepath.Base(venv), "", nil))
		},
	}

	var out bytes.Buffer
	if got := c.Run(&out, false); got != 2 {
		t.Errorf("problems = %d, want 2\n%s", got, out.String())
	}
	if len(rebuilt) != 0 {
		t.Error("Rebuild called without fix")
	}

	out.Reset()
	if got := c.Run(&out, true); got != 1 {
		t.Errorf("problems after fix = %d, want 1 (corrupt record)\n%s", got, out.String())
	}
	if len(rebuilt) != 1 || rebuilt[0] != without {
		t.Errorf("rebuilt = %v, want [%s]", rebuilt, without)
	}
}

func TestCheckupRebuildFailure(t *testing.T) {
	home, bin := newLayout(t)
	venv := filepath.Join(home, "bare")
	for _, dir := range []string{venv, bin} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	c := &Checkup{
		Home: home, BinDir: bin, Path: bin,
		Virtualenvs: []string{venv},
		Rebuild:     func(string) error { return errors.New("python is gone") },
	}
	var out bytes.Buffer
	if got := c.Run(&out, true); got != 1 {
		t.Errorf("problems = %d, want 1\n%s", got, out.String())
	}
	if !strings.Contains(out.String(), "python is gone") {
		t.Errorf("output lacks rebuild error:\n%s", out.String())
	}
}

func TestCheckupDanglingLinks(t *testing.T) {
	home, bin := newLayout(t)
	script := filepath.Join(home, "tool", "bin", "tool")
	for _, dir := range []string{filepath.Dir(script), bin} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(script, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(script, filepath.Join(bin, "tool")); err != nil {
		t.Fatal(err)
	}
	dangling := filepath.Join(bin, "old")
	if err := os.Symlink(filepath.Join(home, "removed", "bin", "old"), dangling); err != nil {
		t.Fatal(err)
	}

	c := &Checkup{Home: home, BinDir: bin, Path: bin}
	var out bytes.Buffer
	if got := c.Run(&out, false); got != 1 {
		t.Errorf("problems = %d, want 1\n%s", got, out.String())
	}

	out.Reset()
	if got := c.Run(&out, true); got != 0 {
		t.Errorf("problems after fix = %d, want 0\n%s", got, out.String())
	}
	if _, err := os.Lstat(dangling); !os.IsNotExist(err) {
		t.Error("dangling link not removed")
	}
	if _, err := os.Lstat(filepath.Join(bin, "tool")); err != nil {
		t.Errorf("live link removed: %v", err)
	}
}
