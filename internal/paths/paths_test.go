package paths

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestFindLibraryFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("UTILKIT_HOME", dir)

	lib, err := FindLibrary()
	if err != nil {
		t.Fatalf("FindLibrary: %v", err)
	}
	if lib.Root != dir {
		t.Errorf("Root = %q, want %q", lib.Root, dir)
	}
	if lib.RegistryPath() != filepath.Join(dir, "registry.json") {
		t.Errorf("RegistryPath = %q", lib.RegistryPath())
	}
	if lib.SourceRoot() != filepath.Join(dir, "src") {
		t.Errorf("SourceRoot = %q", lib.SourceRoot())
	}
	if lib.TemplatesRoot() != filepath.Join(dir, "templates") {
		t.Errorf("TemplatesRoot = %q", lib.TemplatesRoot())
	}
}

func TestFindLibraryEnvNotDirectory(t *testing.T) {
	t.Setenv("UTILKIT_HOME", filepath.Join(t.TempDir(), "missing"))

	_, err := FindLibrary()
	if err == nil {
		t.Fatal("expected error for missing UTILKIT_HOME directory")
	}
	if !strings.Contains(err.Error(), "UTILKIT_HOME") {
		t.Errorf("error should name the env var, got %v", err)
	}
}

func TestDefaultLibraryRoot(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	root, err := DefaultLibraryRoot()
	if err != nil {
		t.Fatalf("DefaultLibraryRoot: %v", err)
	}
	want := filepath.Join(home, ".utilkit", "library")
	if root != want {
		t.Errorf("DefaultLibraryRoot = %q, want %q", root, want)
	}
}
