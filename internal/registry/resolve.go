package registry

// ResolveOptions controls dependency collection.
type ResolveOptions struct {
	// IncludeTransitive walks the full dependency closure. When false only
	// the direct dependencies of each requested utility are collected.
	IncludeTransitive bool
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	// Order lists every utility to install, dependencies strictly before
	// their dependents.
	Order []string
	// Requested is the request after category expansion and deduplication.
	Requested []string
	// Dependencies maps each requested utility to the dependency names
	// collected for it, dependency-first.
	Dependencies map[string][]string

	requested map[string]bool
}

// IsDependency reports whether name was pulled in only to satisfy another
// utility, as opposed to being requested directly.
func (r *Resolution) IsDependency(name string) bool {
	return !r.requested[name]
}

// ExpandCategories replaces category names with the utilities of that
// category in registry order and drops duplicates, keeping the first
// occurrence. Utility names take precedence over category names.
func ExpandCategories(reg *Registry, names []string) ([]string, error) {
	seen := make(map[string]bool, len(names))
	var out []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	for _, name := range names {
		if _, ok := reg.FindByName(name); ok {
			add(name)
			continue
		}
		if reg.HasCategory(name) {
			for _, u := range reg.FindByCategory(name) {
				add(u.Name)
			}
			continue
		}
		return nil, &UnknownUtilityError{Name: name}
	}
	return out, nil
}

// Resolve expands requested names and computes a dependency-first
// installation order. It fails with *UnknownUtilityError for names that do
// not resolve and *CircularDependencyError when a cycle is reached; no
// partial order is returned on failure.
func Resolve(reg *Registry, requested []string, opts ResolveOptions) (*Resolution, error) {
	expanded, err := ExpandCategories(reg, requested)
	if err != nil {
		return nil, err
	}

	g := reg.graph
	res := &Resolution{
		Requested:    expanded,
		Dependencies: make(map[string][]string, len(expanded)),
		requested:    make(map[string]bool, len(expanded)),
	}
	for _, name := range expanded {
		res.requested[name] = true
	}

	inUnion := make([]bool, len(g.names))
	for _, name := range expanded {
		root := g.index[name]
		inUnion[root] = true

		deps, err := collect(g, root, opts.IncludeTransitive)
		if err != nil {
			return nil, err
		}
		names := make([]string, len(deps))
		for i, d := range deps {
			inUnion[d] = true
			names[i] = g.names[d]
		}
		res.Dependencies[name] = names
	}

	colors := g.newColors()
	follow := func(_, to int) bool { return inUnion[to] }
	emit := func(n int) { res.Order = append(res.Order, g.names[n]) }
	for _, name := range expanded {
		if cycle := g.visit(g.index[name], colors, follow, emit); cycle != nil {
			return nil, circularError(g, cycle)
		}
	}

	return res, nil
}

// collect returns the dependency indices of root, dependency-first.
func collect(g *graph, root int, transitive bool) ([]int, error) {
	if !transitive {
		if len(g.dangling[root]) > 0 {
			return nil, &UnknownUtilityError{Name: g.dangling[root][0], RequiredBy: g.names[root]}
		}
		return append([]int(nil), g.edges[root]...), nil
	}

	var (
		deps    []int
		missing *UnknownUtilityError
	)
	cycle := g.visit(root, g.newColors(), nil, func(n int) {
		if missing == nil && len(g.dangling[n]) > 0 {
			missing = &UnknownUtilityError{Name: g.dangling[n][0], RequiredBy: g.names[n]}
		}
		if n != root {
			deps = append(deps, n)
		}
	})
	if cycle != nil {
		return nil, circularError(g, cycle)
	}
	if missing != nil {
		return nil, missing
	}
	return deps, nil
}

func circularError(g *graph, cycle []int) *CircularDependencyError {
	names := g.cycleNames(cycle)
	return &CircularDependencyError{Name: names[0], Cycle: names}
}
