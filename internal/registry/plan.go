package registry

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// InstalledFunc reports whether a utility already exists in the target project.
type InstalledFunc func(name string) bool

// PrintTree prints the dependency tree of name with box-drawing characters.
// Utilities already printed elsewhere in the plan are marked (deduped) and
// not expanded again.
func PrintTree(w io.Writer, reg *Registry, name string, installed InstalledFunc, seen map[string]bool, prefix string, isLast bool) {
	connector := "├── "
	if isLast {
		connector = "└── "
	}

	label := name
	if meta, ok := reg.FindByName(name); ok {
		label = fmt.Sprintf("%s: %s", meta.Category, name)
	}
	deduped := seen[name]
	if deduped {
		label += " (deduped)"
	} else if installed != nil && installed(name) {
		label += " (already installed)"
	}

	if prefix == "" {
		fmt.Fprintf(w, "  %s\n", label)
	} else {
		fmt.Fprintf(w, "  %s%s%s\n", prefix, connector, label)
	}
	if deduped {
		return
	}
	seen[name] = true

	childPrefix := prefix
	if prefix != "" {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	} else {
		childPrefix = " "
	}

	meta, _ := reg.FindByName(name)
	for i, dep := range meta.Dependencies {
		PrintTree(w, reg, dep, installed, seen, childPrefix, i == len(meta.Dependencies)-1)
	}
}

// PrintPlan prints the dependency trees of all requested utilities followed
// by per-category counts of the installation order.
func PrintPlan(w io.Writer, reg *Registry, res *Resolution, installed InstalledFunc) {
	fmt.Fprintln(w, "Resolving dependencies...")
	fmt.Fprintln(w)

	seen := make(map[string]bool)
	for _, name := range res.Requested {
		PrintTree(w, reg, name, installed, seen, "", true)
	}
	fmt.Fprintln(w)

	counts := make(map[string]int)
	for _, name := range res.Order {
		if meta, ok := reg.FindByName(name); ok {
			counts[meta.Category]++
		}
	}
	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var parts []string
	for _, c := range categories {
		parts = append(parts, fmt.Sprintf("%d %s", counts[c], c))
	}
	if len(parts) > 0 {
		noun := "utilities"
		if len(res.Order) == 1 {
			noun = "utility"
		}
		fmt.Fprintf(w, "  Install order: %s\n", strings.Join(res.Order, ", "))
		fmt.Fprintf(w, "  By category: %s (%d %s)\n", strings.Join(parts, ", "), len(res.Order), noun)
	}
	fmt.Fprintln(w)
}
