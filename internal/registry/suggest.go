package registry

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns up to limit utility or category names that look like name,
// closest first. Names containing the input (or contained by it) always
// qualify; otherwise the edit distance must be within a threshold that grows
// with the input length.
func (r *Registry) Suggest(name string, limit int) []string {
	input := strings.ToLower(strings.TrimSpace(name))
	if input == "" {
		return nil
	}

	threshold := 1
	if len(input) >= 4 {
		threshold = 2
	}
	if len(input) > 8 {
		threshold = 3
	}

	type candidate struct {
		name     string
		distance int
	}
	seen := make(map[string]bool)
	var candidates []candidate
	consider := func(c string) {
		if seen[c] {
			return
		}
		seen[c] = true
		lower := strings.ToLower(c)
		if lower == input {
			return
		}
		d := levenshtein.ComputeDistance(input, lower)
		if d <= threshold || strings.Contains(lower, input) || strings.Contains(input, lower) {
			candidates = append(candidates, candidate{c, d})
		}
	}

	for _, u := range r.utilities {
		consider(u.Name)
	}
	for _, c := range r.categories {
		consider(c.Name)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].name < candidates[j].name
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}
