package registry

// color tracks traversal state for cycle detection.
type color uint8

const (
	white color = iota // not yet reached
	gray               // on the current traversal stack
	black              // finished, all descendants emitted
)

// graph is an array-indexed view of the registry's dependency edges. Node i
// corresponds to names[i]; edges[i] lists dependency indices in declared order.
type graph struct {
	names    []string
	index    map[string]int
	edges    [][]int
	dangling [][]string // dependency names that resolve to no utility
}

func buildGraph(utilities []UtilityMeta) *graph {
	g := &graph{index: make(map[string]int, len(utilities))}
	var metas []UtilityMeta
	for _, u := range utilities {
		if _, dup := g.index[u.Name]; dup {
			continue
		}
		g.index[u.Name] = len(g.names)
		g.names = append(g.names, u.Name)
		metas = append(metas, u)
	}

	g.edges = make([][]int, len(g.names))
	g.dangling = make([][]string, len(g.names))
	for i, u := range metas {
		seen := make(map[int]bool, len(u.Dependencies))
		for _, dep := range u.Dependencies {
			j, ok := g.index[dep]
			if !ok {
				g.dangling[i] = append(g.dangling[i], dep)
				continue
			}
			if seen[j] {
				continue
			}
			seen[j] = true
			g.edges[i] = append(g.edges[i], j)
		}
	}
	return g
}

type frame struct {
	node int
	next int // index into edges[node] of the next edge to follow
}

// visit runs an iterative depth-first traversal from root. Nodes turn gray
// when pushed and black when popped, at which point post is called, so post
// sees every dependency before its dependents. follow filters edges; a nil
// follow accepts all. Reaching a gray node means a cycle: visit stops and
// returns the cycle as node indices with the first node repeated at the end.
func (g *graph) visit(root int, colors []color, follow func(from, to int) bool, post func(n int)) []int {
	if colors[root] != white {
		return nil
	}

	colors[root] = gray
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(g.edges[top.node]) {
			from := top.node
			to := g.edges[from][top.next]
			top.next++
			if follow != nil && !follow(from, to) {
				continue
			}
			switch colors[to] {
			case white:
				colors[to] = gray
				stack = append(stack, frame{node: to})
			case gray:
				return cycleFromStack(stack, to)
			}
			continue
		}

		stack = stack[:len(stack)-1]
		colors[top.node] = black
		if post != nil {
			post(top.node)
		}
	}
	return nil
}

// cycleFromStack extracts the path from the stack entry for node to the top
// of the stack and closes it with node.
func cycleFromStack(stack []frame, node int) []int {
	start := 0
	for i, f := range stack {
		if f.node == node {
			start = i
			break
		}
	}
	cycle := make([]int, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		cycle = append(cycle, f.node)
	}
	return append(cycle, node)
}

func (g *graph) cycleNames(cycle []int) []string {
	out := make([]string, len(cycle))
	for i, n := range cycle {
		out[i] = g.names[n]
	}
	return out
}

func (g *graph) newColors() []color {
	return make([]color, len(g.names))
}
