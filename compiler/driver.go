/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022–2026 dhickel

*/
package compiler

import (
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/sync/errgroup"

	"github.com/dhickel/lyra-sub000/ast"
	"github.com/dhickel/lyra-sub000/env"
	"github.com/dhickel/lyra-sub000/namespace"
	"github.com/dhickel/lyra-sub000/resolver"
)

func tracer() tracing.Trace {
	return tracing.Select("lyra.compiler")
}

// traceKeys lists every tracer package Select()s into, so NewDriver can
// apply WithTraceLevel uniformly across the whole front end and resolver
// for the duration of a Compile run.
var traceKeys = []string{
	"lyra.lexer", "lyra.cursor", "lyra.gform", "lyra.ast",
	"lyra.resolver", "lyra.errs", "lyra.compiler",
}

// Driver orchestrates the whole pipeline: it owns the Environment a
// compile run populates and the Resolver that accumulates dependency-
// graph and symbol state across every namespace that Environment ends
// up holding.
//
// Written in the functional-options, Result-returning, pterm-rendered
// idiom the rest of this module uses throughout.
type Driver struct {
	opts *Options
	env  *env.Environment
	res  *resolver.Resolver
}

// NewDriver builds a Driver from the given options, applying opts.
// TraceLevel to every package tracer the pipeline touches.
func NewDriver(opts ...Option) *Driver {
	o := newOptions(opts...)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(o.TraceLevel)
	}
	e := env.New()
	return &Driver{opts: o, env: e, res: resolver.New(e)}
}

// Environment exposes the namespace tree a Compile run populates, for
// callers that want to inspect it after compilation (e.g. to print a
// symbol table or look up a namespace's resolved units directly).
func (d *Driver) Environment() *env.Environment { return d.env }

// Compile runs the whole pipeline starting from rootPath (spec §6:
// Environment::compile_with(loader, root_path)): discover every
// namespace transitively imported from rootPath, run the read/lex/parse
// front end and resolver Stage 1 on each as it is discovered, then run
// Stage 2 across every discovered namespace in dependency order.
//
// Namespace discovery and Stage 1 proceed level by level — a namespace's
// imports cannot be known until its units are parsed, so siblings at the
// same BFS depth are the unit of parallelism (spec §5: "namespaces with
// no dependency relationship to one another may be processed
// concurrently"). Stage 2 instead runs layer by layer over
// DependencyGraph.TopoOrder's result, since by then the full dependency
// graph is known and a layer is exactly the set of namespaces whose
// dependencies have already completed Stage 2.
func (d *Driver) Compile(rootPath string) (*Summary, error) {
	summary := newSummary(d.env.Root())

	frontier := []string{rootPath}
	loaded := map[string]bool{}
	for len(frontier) > 0 {
		next, err := d.processLevel(frontier, loaded, summary)
		if err != nil {
			return summary, err
		}
		if d.exceededMaxErrors(summary) {
			return summary, nil
		}
		frontier = next
	}

	order, breakNodes, cycles := d.res.Graph().TopoOrder()
	for _, cycle := range cycles {
		summary.recordCycle(cycle)
	}
	// TopoOrder only knows about namespaces that appear as either side of
	// an import edge; a namespace with no imports and no importers (e.g.
	// a standalone root with no `import` statements at all) never enters
	// the dependency graph but still owns units Stage 2 must visit, so it
	// is appended here with no ordering constraint — nextLayer treats an
	// unknown path's Edges as empty and schedules it into the first
	// layer it's seen in.
	known := make(map[string]bool, len(order))
	for _, p := range order {
		known[p] = true
	}
	for _, ns := range d.env.Namespaces() {
		if p := ns.Path(); !known[p] {
			known[p] = true
			order = append(order, p)
		}
	}
	for path := range breakNodes {
		if ns, ok := d.env.Namespace(path); ok {
			d.res.ForwardDeclare(ns)
		}
	}

	if err := d.runStage2(order, summary); err != nil {
		return summary, err
	}

	for _, ns := range d.env.Namespaces() {
		summary.recordUnits(ns)
	}
	return summary, nil
}

// processLevel loads, front-ends, and Stage-1-resolves every not-yet-
// loaded path in level concurrently (bounded by WorkerPoolSize), and
// returns the deduplicated set of import paths those namespaces name
// that the caller hasn't already visited.
func (d *Driver) processLevel(level []string, loaded map[string]bool, summary *Summary) ([]string, error) {
	pending := make([]string, 0, len(level))
	for _, path := range level {
		if !loaded[path] {
			loaded[path] = true
			pending = append(pending, path)
		}
	}
	if len(pending) == 0 {
		return nil, nil
	}

	g := new(errgroup.Group)
	g.SetLimit(d.opts.WorkerPoolSize)
	results := make([]*namespace.Namespace, len(pending))
	for i, path := range pending {
		i, path := i, path
		g.Go(func() error {
			ns, err := d.env.LoadTree(d.opts.Loader, path).Unwrap()
			if err != nil {
				summary.addErrors([]error{err})
				return nil
			}
			summary.addErrors(ModuleTransform(FrontEnd, []*namespace.Namespace{ns}))
			d.ensureImportTargets(ns)
			summary.addErrors(d.res.Stage1(ns))
			results[i] = ns
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var next []string
	for _, ns := range results {
		if ns == nil {
			continue
		}
		for _, imp := range ns.Imports {
			// imp.Path is the as-written, root-relative import path;
			// imp.Target.Path() is the fully-qualified "main.…" form the
			// dependency graph and Namespace.Resolve both key on, so the
			// frontier uses the latter to stay consistent with both.
			path := imp.Target.Path()
			if !loaded[path] && !seen[path] {
				seen[path] = true
				next = append(next, path)
			}
		}
	}
	tracer().Infof("level done: %d namespace(s) loaded, %d new import(s) discovered", len(pending), len(next))
	return next, nil
}

// ensureImportTargets creates (but does not populate) a tree node for
// every namespace an `import` statement in ns names that the loader
// actually knows about, so that Stage 1's ResolveFromRoot — a read-only
// lookup — has something to find. An import whose target the loader
// rejects is left absent from the tree, so ResolveFromRoot still fails
// and Stage 1 reports UnresolvedImport exactly as it would for a
// namespace no sibling ever references. The node is populated for real
// once a later BFS level calls LoadTree on its path — EnsureNamespace
// is idempotent with the creation here, so that second call is cheap.
func (d *Driver) ensureImportTargets(ns *namespace.Namespace) {
	for _, unit := range ns.CM.Units {
		if unit.AST == nil {
			continue
		}
		for _, node := range unit.AST.Nodes {
			imp, ok := node.(*ast.Import)
			if !ok {
				continue
			}
			// The loader always takes fully-qualified, root-inclusive
			// paths (the convention env.LoadTree and the BFS frontier
			// both use); imp.Path is the bare identifier the grammar
			// restricts an import target to, relative to the root.
			fullPath := ns.Root().Name + "." + imp.Path
			if _, err := d.opts.Loader(fullPath).Unwrap(); err != nil {
				continue
			}
			d.env.EnsureNamespace(fullPath)
		}
	}
}

// runStage2 walks order — already dependency-first — in layers: a layer
// is the longest run of consecutive entries whose own DependencyGraph
// edges all point at entries already resolved in a prior layer. Members
// of one layer share no dependency relationship among themselves and so
// run concurrently; a layer only starts once every earlier layer is
// done, since Stage 2 assumes its dependencies already fully resolved.
func (d *Driver) runStage2(order []string, summary *Summary) error {
	done := map[string]bool{}
	for len(done) < len(order) {
		layer := d.nextLayer(order, done)
		if len(layer) == 0 {
			// Only members of a dependency cycle remain; their cycle-break
			// namespaces were forward-declared before Stage 2 began, so the
			// next one in order runs on its own.
			for _, path := range order {
				if !done[path] {
					layer = []string{path}
					break
				}
			}
		}
		g := new(errgroup.Group)
		g.SetLimit(d.opts.WorkerPoolSize)
		for _, path := range layer {
			path := path
			g.Go(func() error {
				if ns, ok := d.env.Namespace(path); ok {
					summary.addErrors(d.res.Stage2(ns))
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		for _, path := range layer {
			done[path] = true
		}
		if d.exceededMaxErrors(summary) {
			break
		}
	}
	return nil
}

// nextLayer returns every not-yet-done entry of order whose direct
// dependencies (DependencyGraph.Edges) are all already done.
func (d *Driver) nextLayer(order []string, done map[string]bool) []string {
	var layer []string
	for _, path := range order {
		if done[path] {
			continue
		}
		ready := true
		for _, dep := range d.res.Graph().Edges(path) {
			if !done[dep] {
				ready = false
				break
			}
		}
		if ready {
			layer = append(layer, path)
		}
	}
	return layer
}

func (d *Driver) exceededMaxErrors(summary *Summary) bool {
	return d.opts.MaxErrors > 0 && summary.errorCount() >= d.opts.MaxErrors
}
