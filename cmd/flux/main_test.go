package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fluxlang/flux/config"
)

func writeScript(t *testing.T, name, source string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(source), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckFiles(t *testing.T) {
	good := writeScript(t, "good.flux", `mut x = 1`)
	bad := writeScript(t, "bad.flux", `mut = 1`)

	if code := checkFiles([]string{good}); code != 0 {
		t.Errorf("valid file: exit code = %d, want 0", code)
	}
	if code := checkFiles([]string{bad}); code != 1 {
		t.Errorf("invalid file: exit code = %d, want 1", code)
	}
	if code := checkFiles([]string{good, bad}); code != 1 {
		t.Errorf("mixed files: exit code = %d, want 1", code)
	}
	if code := checkFiles([]string{filepath.Join(t.TempDir(), "missing.flux")}); code != 2 {
		t.Errorf("missing file: exit code = %d, want 2", code)
	}
}

func TestExecuteFile(t *testing.T) {
	cfg := config.Defaults()

	ok := writeScript(t, "ok.flux", `mut x = 1 mut y = x + 1`)
	if code := executeFile(ok, cfg); code != 0 {
		t.Errorf("clean script: exit code = %d, want 0", code)
	}

	crash := writeScript(t, "crash.flux", `mut x = 1 / 0`)
	if code := executeFile(crash, cfg); code != 1 {
		t.Errorf("runtime error: exit code = %d, want 1", code)
	}

	broken := writeScript(t, "broken.flux", `while (true) {`)
	if code := executeFile(broken, cfg); code != 1 {
		t.Errorf("parse error: exit code = %d, want 1", code)
	}

	if code := executeFile(filepath.Join(t.TempDir(), "missing.flux"), cfg); code != 2 {
		t.Errorf("missing file: exit code = %d, want 2", code)
	}
}

func TestExecuteFileResolvesSiblingImports(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "lib.flux"), []byte(`mut n = 5`), 0644); err != nil {
		t.Fatal(err)
	}
	main := filepath.Join(dir, "main.flux")
	if err := os.WriteFile(main, []byte(`mut lib = import("lib.flux")`), 0644); err != nil {
		t.Fatal(err)
	}

	if code := executeFile(main, config.Defaults()); code != 0 {
		t.Errorf("sibling import: exit code = %d, want 0", code)
	}
}
