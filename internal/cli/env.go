package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/utilkit-labs/utilkit/internal/branding"
	"github.com/utilkit-labs/utilkit/internal/config"
	"github.com/utilkit-labs/utilkit/internal/installer"
	"github.com/utilkit-labs/utilkit/internal/paths"
	"github.com/utilkit-labs/utilkit/internal/project"
	"github.com/utilkit-labs/utilkit/internal/registry"
	"github.com/utilkit-labs/utilkit/internal/source"
	"github.com/utilkit-labs/utilkit/internal/transform"
)

// projectRoot returns --cwd or the working directory.
func projectRoot() (string, error) {
	if flagCwd != "" {
		return filepath.Abs(flagCwd)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return wd, nil
}

// findLibrary resolves the library and its registry file.
//
// Resolution order for the registry:
//  1. --registry flag
//  2. registry key in the user config
//  3. registry.json in the discovered library
//
// An explicit registry file makes its directory the library root.
func findLibrary() (paths.Library, string, error) {
	explicit := flagRegistry
	if explicit == "" {
		explicit = config.Get(config.KeyRegistry)
	}
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return paths.Library{}, "", fmt.Errorf("resolving registry path: %w", err)
		}
		return paths.Library{Root: filepath.Dir(abs)}, abs, nil
	}

	lib, err := paths.FindLibrary()
	if err != nil {
		return paths.Library{}, "", err
	}
	return lib, lib.RegistryPath(), nil
}

func loadRegistry() (paths.Library, *registry.Registry, error) {
	lib, path, err := findLibrary()
	if err != nil {
		return paths.Library{}, nil, err
	}
	reg, err := registry.Load(path)
	if err != nil {
		return paths.Library{}, nil, err
	}
	logger.Debug("registry loaded", "path", path, "version", reg.Version(), "utilities", reg.Len())
	return lib, reg, nil
}

// locateProject resolves the project config, turning ErrNotInitialized into
// an actionable message.
func locateProject() (*project.Config, error) {
	root, err := projectRoot()
	if err != nil {
		return nil, err
	}
	cfg, err := project.Locate(root)
	if errors.Is(err, project.ErrNotInitialized) {
		return nil, fmt.Errorf("%w: run '%s init' in %s first", err, branding.CLIName(), root)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("project located", "root", cfg.RootPath, "dir", cfg.InstallDirectory,
		"typed", cfg.TypedMode, "origin", cfg.Origin)
	return cfg, nil
}

// newInstaller wires the library's source chain and the configured
// transform strategy.
func newInstaller(lib paths.Library, strategy string) (*installer.Installer, error) {
	generated, err := source.LoadGenerated(lib.GeneratedPath())
	if err != nil {
		return nil, err
	}
	if strategy == "" {
		strategy = config.Get(config.KeyTransform)
	}
	tr, err := transform.New(transform.Strategy(strategy), logger)
	if err != nil {
		return nil, err
	}
	return installer.New(source.NewLibraryChain(lib, generated), tr, logger), nil
}

// saveLock writes the lock file. Failures are advisory.
func saveLock(cfg *project.Config, lock *project.Lock) {
	if err := project.SaveLock(cfg.RootPath, lock); err != nil {
		logger.Warn("could not update lock file", "error", err)
	}
}

func loadLock(cfg *project.Config) *project.Lock {
	lock, err := project.LoadLock(cfg.RootPath)
	if err != nil {
		logger.Warn("ignoring unreadable lock file", "error", err)
		return project.NewLock()
	}
	return lock
}
