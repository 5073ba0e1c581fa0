package installer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/utilkit-labs/utilkit/internal/project"
	"github.com/utilkit-labs/utilkit/internal/registry"
)

// RemovalStatus is the outcome of removing one utility.
type RemovalStatus string

const (
	StatusRemoved      RemovalStatus = "removed"
	StatusNotFound     RemovalStatus = "not_found"
	StatusNotInstalled RemovalStatus = "not_installed"
	StatusRemoveFailed RemovalStatus = "failed"
)

// RemovalResult describes what happened to one requested name.
type RemovalResult struct {
	Name   string
	Status RemovalStatus
	Path   string
	Err    error
}

// RemoveAll deletes the installed files of names, in the given order.
// Unknown names and utilities that are not installed are reported, not
// fatal. A category directory left empty is removed as well.
func (in *Installer) RemoveAll(reg *registry.Registry, names []string, cfg *project.Config) []RemovalResult {
	results := make([]RemovalResult, 0, len(names))
	for _, name := range names {
		r := in.remove(reg, name, cfg)
		if r.Err != nil {
			in.Logger.Warn("remove failed", "utility", name, "error", r.Err)
		} else {
			in.Logger.Debug("remove", "utility", name, "status", r.Status, "path", r.Path)
		}
		results = append(results, r)
	}
	return results
}

func (in *Installer) remove(reg *registry.Registry, name string, cfg *project.Config) RemovalResult {
	meta, ok := reg.FindByName(name)
	if !ok {
		return RemovalResult{Name: name, Status: StatusNotFound}
	}

	paths := installedPaths(cfg, meta)
	if len(paths) == 0 {
		return RemovalResult{Name: name, Status: StatusNotInstalled}
	}

	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			return RemovalResult{Name: name, Status: StatusRemoveFailed, Path: path,
				Err: fmt.Errorf("removing %s: %w", path, err)}
		}
	}

	dir := filepath.Dir(paths[0])
	if dir != cfg.InstallRoot() {
		if err := removeIfEmpty(dir); err != nil {
			in.Logger.Debug("keeping category directory", "dir", dir, "error", err)
		}
	}
	return RemovalResult{Name: name, Status: StatusRemoved, Path: paths[0]}
}

func removeIfEmpty(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return nil
	}
	return os.Remove(dir)
}

// FindOrphans lists installed utilities, in registry order, that no other
// installed utility depends on and that the lock does not record as
// directly requested. Utilities without a lock entry have unknown
// provenance and are never reported.
func FindOrphans(reg *registry.Registry, cfg *project.Config, lock *project.Lock) []string {
	var installed []registry.UtilityMeta
	for _, u := range reg.Utilities() {
		if IsInstalled(cfg, u) {
			installed = append(installed, u)
		}
	}

	needed := make(map[string]bool)
	for _, u := range installed {
		for _, dep := range u.Dependencies {
			needed[dep] = true
		}
	}

	var orphans []string
	for _, u := range installed {
		if needed[u.Name] {
			continue
		}
		entry, ok := lock.Utilities[u.Name]
		if !ok || entry.Direct {
			continue
		}
		orphans = append(orphans, u.Name)
	}
	return orphans
}
