package registry

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ValidateIntegrity checks cross-references the schema cannot express and
// returns one human-readable message per problem. It never fails: a registry
// with integrity problems still loads.
func (r *Registry) ValidateIntegrity() []string {
	var problems []string

	if _, err := semver.NewVersion(strings.TrimPrefix(r.version, "v")); err != nil {
		problems = append(problems, fmt.Sprintf("registry version %q is not a semantic version", r.version))
	}

	seenCategory := make(map[string]bool, len(r.categories))
	for _, c := range r.categories {
		if seenCategory[c.Name] {
			problems = append(problems, fmt.Sprintf("duplicate category %q", c.Name))
		}
		seenCategory[c.Name] = true
	}

	seenName := make(map[string]bool, len(r.utilities))
	for _, u := range r.utilities {
		if seenName[u.Name] {
			problems = append(problems, fmt.Sprintf("duplicate utility name %q", u.Name))
		}
		seenName[u.Name] = true

		if !r.categorySet[u.Category] {
			problems = append(problems, fmt.Sprintf("utility %q has unknown category %q", u.Name, u.Category))
		}
	}

	g := r.graph
	for i, name := range g.names {
		for _, dep := range g.dangling[i] {
			problems = append(problems, fmt.Sprintf("utility %q depends on unknown utility %q", name, dep))
		}
	}

	reported := make(map[string]bool)
	for i := range g.names {
		cycle := g.visit(i, g.newColors(), nil, nil)
		if cycle == nil {
			continue
		}
		key := canonicalCycle(g.cycleNames(cycle))
		if reported[key] {
			continue
		}
		reported[key] = true
		problems = append(problems, fmt.Sprintf("circular dependency: %s", strings.Join(g.cycleNames(cycle), " -> ")))
	}

	return problems
}

// canonicalCycle rotates a closed cycle path so that it starts at its
// lexically smallest member, giving one key per distinct cycle.
func canonicalCycle(path []string) string {
	open := path[:len(path)-1]
	start := 0
	for i, n := range open {
		if n < open[start] {
			start = i
		}
	}
	rotated := append(append([]string(nil), open[start:]...), open[:start]...)
	return strings.Join(rotated, "\x00")
}
