/*
Package resolver implements the two-stage resolver spec §4.7 describes:
Stage 1 collects declarations and import edges per namespace; Stage 2
resolves every use site in dependency order and checks type
compatibility, accessibility, and arity.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022–2026 dhickel

*/
package resolver

import (
	"sync"

	"github.com/npillmayer/schuko/tracing"

	"github.com/dhickel/lyra-sub000/ast"
	"github.com/dhickel/lyra-sub000/env"
	"github.com/dhickel/lyra-sub000/errs"
	"github.com/dhickel/lyra-sub000/namespace"
	"github.com/dhickel/lyra-sub000/symbol"
)

func tracer() tracing.Trace {
	return tracing.Select("lyra.resolver")
}

// Resolver carries the state that spans every namespace: the dependency
// graph Stage 1 builds as it processes imports, and a side-table
// recording which symbols are lambda parameters (spec §4.7 Stage 2
// assignment rule: "reject if not MUTABLE or is a parameter" — a
// parameter is categorically non-reassignable regardless of its own
// modifier set, so this is tracked by provenance rather than by a
// Modifier value).
type Resolver struct {
	env         *env.Environment
	graph       *DependencyGraph
	paramMu     sync.Mutex
	isParameter map[*symbol.Symbol]bool
}

// New constructs a Resolver over e. A single Resolver is meant to drive
// both stages across every namespace in e (the compiler driver owns
// when Stage 1 vs Stage 2 runs; this type only implements the walk).
func New(e *env.Environment) *Resolver {
	return &Resolver{
		env:         e,
		graph:       NewDependencyGraph(),
		isParameter: make(map[*symbol.Symbol]bool),
	}
}

// Graph exposes the accumulated dependency graph, read by the compiler
// driver once every namespace's Stage 1 has run, to compute the
// topological order Stage 2 requires (spec §4.7/§5).
func (r *Resolver) Graph() *DependencyGraph { return r.graph }

// Stage1 walks every unit in ns, collecting declarations into its
// SymbolTable and import edges into the dependency graph. Errors are
// non-fatal (spec §4.7: "the collector may continue"); the caller
// decides whether accumulated errors should stop the driver.
func (r *Resolver) Stage1(ns *namespace.Namespace) []error {
	var out []error
	for _, unit := range ns.CM.Units {
		if unit.AST == nil {
			continue
		}
		sub := env.NewSubEnvironment(r.env, ns)
		for _, node := range unit.AST.Nodes {
			r.stage1TopLevel(node, sub, ns, &out)
		}
		if err := unit.MarkPartiallyResolved(); err != nil {
			out = append(out, err)
		}
	}
	tracer().Infof("stage 1 on %s: %d unit(s), %d error(s)", ns.Path(), len(ns.CM.Units), len(out))
	return out
}

func (r *Resolver) stage1TopLevel(node ast.Node, sub env.SubEnvironment, ns *namespace.Namespace, out *[]error) {
	if stmt, ok := node.(ast.Statement); ok {
		r.stage1Stmt(stmt, sub, ns, out)
		return
	}
	if expr, ok := node.(ast.Expression); ok {
		r.stage1Expr(expr, sub, ns, out)
	}
}

func (r *Resolver) stage1Stmt(stmt ast.Statement, sub env.SubEnvironment, ns *namespace.Namespace, out *[]error) {
	switch n := stmt.(type) {
	case *ast.Let:
		isFunction := false
		if _, ok := n.Value.(*ast.LExpr); ok {
			isFunction = true
		}
		n.Sym.Resolve(n.Sym.DeclPos, n.Meta().Type(), n.Modifiers, isFunction)
		if err := sub.Insert(n.Sym); err != nil {
			*out = append(*out, err)
		}
		r.stage1Expr(n.Value, sub, ns, out)

	case *ast.Assign:
		// The target is resolved in Stage 2, once every namespace's
		// declarations are known; Stage 1 only recurses into the
		// value for nested declarations.
		r.stage1Expr(n.Value, sub, ns, out)

	case *ast.Import:
		target, ok := ns.ResolveFromRoot(n.Path)
		if !ok {
			*out = append(*out, &errs.UnresolvedImport{Path: n.Path, Pos: n.Meta().Pos()})
			return
		}
		ns.Imports = append(ns.Imports, namespace.Import{
			Path: n.Path, Alias: n.Alias, HasAlias: n.HasAlias, Target: target,
		})
		r.graph.AddEdge(ns.Path(), target.Path())
	}
}

func (r *Resolver) stage1Expr(expr ast.Expression, sub env.SubEnvironment, ns *namespace.Namespace, out *[]error) {
	switch e := expr.(type) {
	case *ast.BExpr:
		inner, scopeID := sub.PushScope()
		e.ScopeID = scopeID
		for _, m := range e.Members {
			r.stage1TopLevel(m, inner, ns, out)
		}

	case *ast.LExpr:
		inner, scopeID := sub.PushScope()
		e.ScopeID = scopeID
		for i := range e.Parameters {
			p := &e.Parameters[i]
			p.Sym.Resolve(p.Sym.DeclPos, p.Type, p.Modifiers, false)
			r.paramMu.Lock()
			r.isParameter[p.Sym] = true
			r.paramMu.Unlock()
			if err := inner.Insert(p.Sym); err != nil {
				*out = append(*out, err)
			}
		}
		r.stage1Expr(e.Body, inner, ns, out)

	case *ast.SExpr:
		r.stage1Expr(e.Callee, sub, ns, out)
		for _, op := range e.Operands {
			r.stage1Expr(op, sub, ns, out)
		}

	case *ast.OExpr:
		for _, op := range e.Operands {
			r.stage1Expr(op, sub, ns, out)
		}

	case *ast.MExpr:
		for _, el := range e.AccessChain {
			if call, ok := el.(ast.AccessFunctionCall); ok {
				for _, a := range call.Arguments {
					r.stage1Expr(a.Expression, sub, ns, out)
				}
			}
		}

	case *ast.PExpr:
		r.stage1Expr(e.Predicate, sub, ns, out)
		if e.Form.HasThen() {
			r.stage1Expr(e.Form.Then, sub, ns, out)
		}
		if e.Form.HasElse() {
			r.stage1Expr(e.Form.Else, sub, ns, out)
		}

	case *ast.VExpr, *ast.MatchExpr, *ast.IterExpr:
		// leaves; nothing declared
	}
}

// IsParameter reports whether sym was declared as a lambda parameter —
// used by Stage 2's assignment-target check.
func (r *Resolver) IsParameter(sym *symbol.Symbol) bool {
	r.paramMu.Lock()
	defer r.paramMu.Unlock()
	return r.isParameter[sym]
}

// ForwardDeclare resets every symbol ns's root scope declares back to
// Unresolved/Undefined (spec §9 Design Notes cycle-break strategy). The
// compiler driver calls this, once per detected cycle, on the namespace
// DependencyGraph.BreakCycle chose, before running Stage 2 on any member
// of that cycle's strongly-connected component — so the rest of the SCC
// can reference ns's symbols without deadlocking on dependency order,
// and ns itself is fully re-resolved when Stage 2 later visits it in its
// own topological slot.
func (r *Resolver) ForwardDeclare(ns *namespace.Namespace) {
	ns.Symbols.EachInScope(ns.Symbols.RootScope(), func(sym *symbol.Symbol) {
		sym.ForwardDeclare()
	})
}
