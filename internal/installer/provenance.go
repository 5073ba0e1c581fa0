package installer

import (
	"github.com/utilkit-labs/utilkit/internal/project"
	"github.com/utilkit-labs/utilkit/internal/registry"
)

// RecordInstall updates lock after an install batch. Directly requested
// utilities are marked Direct; every successfully placed utility is listed
// in the RequiredBy of its dependencies. Utilities that were already
// present and only pulled in as a dependency keep whatever entry they had.
func RecordInstall(lock *project.Lock, reg *registry.Registry, res *registry.Resolution, results []Result) {
	placed := make(map[string]bool, len(results))
	for _, r := range results {
		if r.Status == StatusFailed {
			continue
		}
		meta, ok := reg.FindByName(r.Name)
		if !ok {
			continue
		}
		entry, exists := lock.Utilities[r.Name]
		if r.Status == StatusSkipped && !exists && r.IsDependency {
			continue
		}
		entry.Category = meta.Category
		entry.File = meta.File
		if !res.IsDependency(r.Name) {
			entry.Direct = true
		}
		lock.Utilities[r.Name] = entry
		placed[r.Name] = true
	}

	for name := range placed {
		meta, _ := reg.FindByName(name)
		for _, dep := range meta.Dependencies {
			entry, ok := lock.Utilities[dep]
			if !ok {
				continue
			}
			entry.AddRequiredBy(name)
			lock.Utilities[dep] = entry
		}
	}
}

// RecordRemoval drops removed utilities from lock, including their
// mentions in other entries' RequiredBy. Entries for utilities that turned
// out not to be installed are dropped too.
func RecordRemoval(lock *project.Lock, results []RemovalResult) {
	for _, r := range results {
		if r.Status != StatusRemoved && r.Status != StatusNotInstalled {
			continue
		}
		delete(lock.Utilities, r.Name)
		for name, entry := range lock.Utilities {
			entry.DropRequiredBy(r.Name)
			lock.Utilities[name] = entry
		}
	}
}
