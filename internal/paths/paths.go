package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/utilkit-labs/utilkit/internal/branding"
)

// Directory and file name constants for the library layout.
const (
	LibraryDir    = "library"
	RegistryFile  = "registry.json"
	GeneratedFile = "generated.json"
	SourceDir     = "src"
	TemplatesDir  = "templates"
)

// Library describes a resolved utility library on disk.
type Library struct {
	Root string // absolute path to the library root
}

// RegistryPath returns the path to the library's registry.json.
func (l Library) RegistryPath() string {
	return filepath.Join(l.Root, RegistryFile)
}

// GeneratedPath returns the path to the optional generated.json map.
func (l Library) GeneratedPath() string {
	return filepath.Join(l.Root, GeneratedFile)
}

// SourceRoot returns the path to the src/ tree.
func (l Library) SourceRoot() string {
	return filepath.Join(l.Root, SourceDir)
}

// TemplatesRoot returns the path to the templates/ tree.
func (l Library) TemplatesRoot() string {
	return filepath.Join(l.Root, TemplatesDir)
}

// FindLibrary locates the utility library.
//
// Resolution order:
//  1. UTILKIT_HOME (development checkouts and tests)
//  2. Binary-relative ../library (bundled releases)
//  3. ~/.utilkit/library
func FindLibrary() (Library, error) {
	if home := os.Getenv(branding.EnvVar("HOME")); home != "" {
		if isDir(home) {
			return Library{Root: home}, nil
		}
		return Library{}, fmt.Errorf("%s points to %s, which is not a directory", branding.EnvVar("HOME"), home)
	}

	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), "..", LibraryDir)
		if isDir(candidate) {
			return Library{Root: filepath.Clean(candidate)}, nil
		}
	}

	root, err := DefaultLibraryRoot()
	if err != nil {
		return Library{}, err
	}
	if isDir(root) {
		return Library{Root: root}, nil
	}

	return Library{}, fmt.Errorf("no utility library found; set %s or install one at %s", branding.EnvVar("HOME"), root)
}

// DefaultLibraryRoot returns ~/.utilkit/library.
func DefaultLibraryRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, branding.HomeDir(), LibraryDir), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
