package resolver

import (
	"sort"
	"sync"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/dhickel/lyra-sub000/errs"
)

// DependencyGraph tracks namespace-to-namespace import edges discovered
// during resolver Stage 1, and detects the cycles Stage 2's topological
// ordering (spec §4.7) must route around.
//
// Grounded on spec §4.7's "standard three-color DFS; a back-edge gives
// the cycle path" description directly — gorgo has no namespace-level
// dependency graph of its own (its grammar has no import statement), so
// there is no teacher file to adapt here beyond the general
// sealed-container style the rest of this module uses. The node set is a
// gods treeset (sorted namespace paths); the DFS colour marks of
// DetectCycles and TopoOrder are plain maps.
type DependencyGraph struct {
	mu    sync.Mutex
	edges map[string][]string
	nodes *treeset.Set
}

// NewDependencyGraph constructs an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		edges: make(map[string][]string),
		nodes: treeset.NewWithStringComparator(),
	}
}

// AddEdge records that namespace `from` imports namespace `to`. Safe for
// concurrent use — spec §5 permits Stage 1 to process independent
// namespaces on a worker pool, and every worker publishes its import
// edges through this same graph ("imports published through a
// thread-safe namespace registry").
func (g *DependencyGraph) AddEdge(from, to string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nodes.Add(from, to)
	g.edges[from] = append(g.edges[from], to)
}

// Edges returns the namespace paths n directly imports, in insertion
// order. Used by the compiler driver to compute Stage 2's parallel
// topological layers (spec §5).
func (g *DependencyGraph) Edges(n string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string{}, g.edges[n]...)
}

// Nodes returns every namespace path that appears as either side of an
// edge, in a deterministic (lexical) order.
func (g *DependencyGraph) Nodes() []string {
	vals := g.nodes.Values()
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.(string)
	}
	sort.Strings(out)
	return out
}

// color marks a node's three-color DFS state.
type color int

const (
	white color = iota
	gray
	black
)

// DetectCycles runs a standard three-color DFS from every unvisited
// node and returns every cycle found as the ordered path of namespace
// names that closes it (spec §4.7).
func (g *DependencyGraph) DetectCycles() [][]string {
	colors := make(map[string]color)
	var cycles [][]string
	var stack []string

	var visit func(n string)
	visit = func(n string) {
		colors[n] = gray
		stack = append(stack, n)
		for _, next := range g.edges[n] {
			switch colors[next] {
			case white:
				visit(next)
			case gray:
				cycles = append(cycles, extractCycle(stack, next))
			case black:
				// already fully explored, no new information
			}
		}
		stack = stack[:len(stack)-1]
		colors[n] = black
	}

	for _, n := range g.Nodes() {
		if colors[n] == white {
			visit(n)
		}
	}
	return cycles
}

// extractCycle slices the current DFS path stack from the back-edge's
// target up to the top, which is exactly the cycle the back edge closes.
func extractCycle(stack []string, target string) []string {
	for i, n := range stack {
		if n == target {
			cycle := append([]string{}, stack[i:]...)
			return append(cycle, target)
		}
	}
	return []string{target}
}

// TopoOrder returns every node in the graph in dependency order — a
// namespace that namespace `n` imports always precedes `n` — together
// with the set of namespace paths chosen as a cycle-break victim (spec
// §6 Open Question decision 2), for the caller to forward-declare
// before visiting them. Nodes inside a detected cycle appear in a fixed,
// deterministic order (the DFS postorder, started from each node of
// g.Nodes() in lexical order and visiting dependencies sorted) since no acyclic order
// exists for them (spec §5: "any fixed order is acceptable provided it
// is deterministic given the inputs").
//
// Grounded on spec §4.7/§5's dependency-order requirement directly;
// implemented as a DFS postorder over the import graph (a dependency is
// visited, and therefore ordered, before its dependent), skipping a back
// edge into a node still on the current DFS path so a cycle cannot
// recurse forever.
func (g *DependencyGraph) TopoOrder() (order []string, breakNodes map[string]bool, cycles [][]string) {
	cycles = g.DetectCycles()
	breakNodes = make(map[string]bool, len(cycles))
	for _, c := range cycles {
		breakNodes[g.BreakCycle(c)] = true
	}

	state := make(map[string]int) // 0 unvisited, 1 on-stack, 2 done
	var visit func(n string)
	visit = func(n string) {
		if state[n] == 2 {
			return
		}
		state[n] = 1
		deps := append([]string{}, g.edges[n]...)
		sort.Strings(deps)
		for _, dep := range deps {
			if state[dep] == 1 {
				// back edge closing a cycle already recorded above; skip
				// to let the DFS terminate.
				continue
			}
			visit(dep)
		}
		state[n] = 2
		order = append(order, n)
	}
	for _, n := range g.Nodes() {
		visit(n)
	}
	return order, breakNodes, cycles
}

// BreakCycle picks the namespace within cycle to forward-declare (spec
// §6 Open Question decision: "mark all symbols in the chosen cycle-
// break namespace as forward-declared, continue Stage 2"). The
// namespace with the most incoming edges counted strictly within the
// cycle's own node set wins; ties are broken by lexical namespace-path
// order (SPEC_FULL.md §6 item 2).
func (g *DependencyGraph) BreakCycle(cycle []string) string {
	// cycle repeats its first node at the end; count each node once.
	uniq := dedupe(cycle)
	sort.Strings(uniq)
	inCycle := make(map[string]bool, len(uniq))
	for _, n := range uniq {
		inCycle[n] = true
	}
	incoming := make(map[string]int, len(uniq))
	for _, n := range uniq {
		for _, to := range g.edges[n] {
			if inCycle[to] {
				incoming[to]++
			}
		}
	}

	best := ""
	bestCount := -1
	for _, n := range uniq {
		if incoming[n] > bestCount {
			best, bestCount = n, incoming[n]
		}
	}
	return best
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// CircularDependencyError renders a cycle as the errs.Diagnostic Stage 1
// reports once forward-declaration has broken it (spec §7).
func CircularDependencyError(cycle []string) error {
	return &errs.CircularDependency{Cycle: cycle}
}
