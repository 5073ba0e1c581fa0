package registry

import (
	"fmt"
	"strings"
)

// UnknownUtilityError is returned when a name resolves to neither a utility
// nor a category, or when a dependency points at a missing utility.
type UnknownUtilityError struct {
	Name       string
	RequiredBy string // set when Name is a dangling dependency
}

func (e *UnknownUtilityError) Error() string {
	if e.RequiredBy != "" {
		return fmt.Sprintf("unknown utility %q (dependency of %q)", e.Name, e.RequiredBy)
	}
	return fmt.Sprintf("unknown utility %q", e.Name)
}

// CircularDependencyError is returned when resolution meets a dependency cycle.
type CircularDependencyError struct {
	Name  string   // the utility reached a second time
	Cycle []string // the cycle path, starting and ending with Name
}

func (e *CircularDependencyError) Error() string {
	if len(e.Cycle) == 0 {
		return fmt.Sprintf("circular dependency detected at %q", e.Name)
	}
	return fmt.Sprintf("circular dependency detected at %q: %s", e.Name, strings.Join(e.Cycle, " -> "))
}
