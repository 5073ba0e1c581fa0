package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.yaml.in/yaml/v3"
)

const (
	// LockFile records how each installed utility got there.
	LockFile    = "utilkit.lock"
	lockVersion = 1
)

// Lock is the provenance record of installed utilities.
type Lock struct {
	Version   int                  `yaml:"version"`
	Utilities map[string]LockEntry `yaml:"utilities"`
}

// LockEntry describes one installed utility.
type LockEntry struct {
	Category string `yaml:"category"`
	File     string `yaml:"file"`
	// Direct is true once the user has requested the utility by name or category.
	Direct bool `yaml:"direct"`
	// RequiredBy lists installed utilities that pulled this one in.
	RequiredBy []string `yaml:"required_by,omitempty"`
}

// NewLock returns an empty lock.
func NewLock() *Lock {
	return &Lock{Version: lockVersion, Utilities: make(map[string]LockEntry)}
}

// LockPath returns the full path to utilkit.lock for a project.
func LockPath(root string) string {
	return filepath.Join(root, LockFile)
}

// LoadLock reads utilkit.lock. A missing file yields an empty lock.
func LoadLock(root string) (*Lock, error) {
	data, err := os.ReadFile(LockPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return NewLock(), nil
		}
		return nil, fmt.Errorf("reading lock file: %w", err)
	}

	lock := NewLock()
	if err := yaml.Unmarshal(data, lock); err != nil {
		return nil, fmt.Errorf("parsing lock file: %w", err)
	}
	if lock.Utilities == nil {
		lock.Utilities = make(map[string]LockEntry)
	}
	return lock, nil
}

// SaveLock writes utilkit.lock, or removes it when no utilities remain.
func SaveLock(root string, lock *Lock) error {
	path := LockPath(root)
	if len(lock.Utilities) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing lock file: %w", err)
		}
		return nil
	}

	for name, entry := range lock.Utilities {
		sort.Strings(entry.RequiredBy)
		lock.Utilities[name] = entry
	}
	lock.Version = lockVersion

	data, err := yaml.Marshal(lock)
	if err != nil {
		return fmt.Errorf("marshaling lock file: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing lock file: %w", err)
	}
	return nil
}

// AddRequiredBy records that dependent pulled in name, keeping the list unique.
func (e *LockEntry) AddRequiredBy(dependent string) {
	for _, d := range e.RequiredBy {
		if d == dependent {
			return
		}
	}
	e.RequiredBy = append(e.RequiredBy, dependent)
}

// DropRequiredBy removes dependent from the list.
func (e *LockEntry) DropRequiredBy(dependent string) {
	kept := e.RequiredBy[:0]
	for _, d := range e.RequiredBy {
		if d != dependent {
			kept = append(kept, d)
		}
	}
	e.RequiredBy = kept
}
