package registry

import (
	"sort"
	"strings"
)

// FindByName returns the utility with the exact name. The bool is false when
// no such utility exists.
func (r *Registry) FindByName(name string) (UtilityMeta, bool) {
	i, ok := r.byName[name]
	if !ok {
		return UtilityMeta{}, false
	}
	return r.utilities[i], true
}

// FindByCategory returns all utilities in category, in registry order.
func (r *Registry) FindByCategory(category string) []UtilityMeta {
	var out []UtilityMeta
	for _, u := range r.utilities {
		if u.Category == category {
			out = append(out, u)
		}
	}
	return out
}

// HasCategory reports whether category is declared in the registry.
func (r *Registry) HasCategory(category string) bool {
	return r.categorySet[category]
}

// SearchOptions narrows and shapes Search results.
type SearchOptions struct {
	Limit              int    // 0 means unlimited
	Category           string // empty means any category
	IncludeDescription bool
}

// Search performs a case-insensitive substring match on utility names and,
// optionally, descriptions. Exact name matches rank first, then name prefix
// matches, then the remaining matches ordered by name.
func (r *Registry) Search(query string, opts SearchOptions) []UtilityMeta {
	q := strings.ToLower(strings.TrimSpace(query))

	type hit struct {
		meta UtilityMeta
		rank int
	}
	var hits []hit
	for _, u := range r.utilities {
		if opts.Category != "" && u.Category != opts.Category {
			continue
		}
		name := strings.ToLower(u.Name)
		switch {
		case name == q:
			hits = append(hits, hit{u, 0})
		case strings.HasPrefix(name, q):
			hits = append(hits, hit{u, 1})
		case strings.Contains(name, q):
			hits = append(hits, hit{u, 2})
		case opts.IncludeDescription && strings.Contains(strings.ToLower(u.Description), q):
			hits = append(hits, hit{u, 2})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].rank != hits[j].rank {
			return hits[i].rank < hits[j].rank
		}
		return hits[i].meta.Name < hits[j].meta.Name
	})

	if opts.Limit > 0 && len(hits) > opts.Limit {
		hits = hits[:opts.Limit]
	}
	out := make([]UtilityMeta, len(hits))
	for i, h := range hits {
		out[i] = h.meta
	}
	return out
}
