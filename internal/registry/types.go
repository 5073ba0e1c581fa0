package registry

// UtilityMeta describes a single installable utility.
type UtilityMeta struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	// File is the source filename, relative to the category or flat source dir.
	File        string `json:"file"`
	Description string `json:"description"`
	// Dependencies lists utility names in declared order.
	Dependencies []string `json:"dependencies"`
}

// Category groups utilities and doubles as install shorthand.
type Category struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Registry is the read-only catalog of utilities and categories.
type Registry struct {
	version    string
	categories []Category
	utilities  []UtilityMeta

	byName      map[string]int // first occurrence wins
	categorySet map[string]bool
	graph       *graph
}

// document mirrors the on-disk registry.json layout.
type document struct {
	Version    string        `json:"version"`
	Categories []Category    `json:"categories"`
	Utilities  []UtilityMeta `json:"utilities"`
}

// New builds a Registry from in-memory values. The slices are copied so the
// result cannot be mutated through the caller's references.
func New(version string, categories []Category, utilities []UtilityMeta) *Registry {
	r := &Registry{
		version:     version,
		categories:  make([]Category, len(categories)),
		utilities:   make([]UtilityMeta, len(utilities)),
		byName:      make(map[string]int, len(utilities)),
		categorySet: make(map[string]bool, len(categories)),
	}
	copy(r.categories, categories)
	for i, u := range utilities {
		u.Dependencies = append([]string(nil), u.Dependencies...)
		r.utilities[i] = u
		if _, dup := r.byName[u.Name]; !dup {
			r.byName[u.Name] = i
		}
	}
	for _, c := range r.categories {
		r.categorySet[c.Name] = true
	}
	r.graph = buildGraph(r.utilities)
	return r
}

// Version returns the registry version string.
func (r *Registry) Version() string { return r.version }

// Categories returns a copy of the category list in registry order.
func (r *Registry) Categories() []Category {
	return append([]Category(nil), r.categories...)
}

// Utilities returns a copy of the utility list in registry order.
func (r *Registry) Utilities() []UtilityMeta {
	out := make([]UtilityMeta, len(r.utilities))
	copy(out, r.utilities)
	return out
}

// Len returns the number of utilities in the registry.
func (r *Registry) Len() int { return len(r.utilities) }
