package resolver

import (
	"testing"

	"github.com/dhickel/lyra-sub000/ast"
	"github.com/dhickel/lyra-sub000/cursor"
	"github.com/dhickel/lyra-sub000/env"
	"github.com/dhickel/lyra-sub000/errs"
	"github.com/dhickel/lyra-sub000/lexer"
	"github.com/dhickel/lyra-sub000/namespace"
)

// addUnit lexes and builds src, appending the resulting unit to ns's
// CompModule — the direct, loader-free way of getting a unit to the
// point resolver Stage 1/2 expect (spec §4.7), bypassing compiler.Driver
// entirely so these tests exercise Resolver in isolation.
func addUnit(t *testing.T, ns *namespace.Namespace, id, src string) {
	t.Helper()
	toks, err := lexer.Lex(src).Unwrap()
	if err != nil {
		t.Fatalf("lex(%q): %v", src, err)
	}
	tree, err := ast.Build(cursor.NewDriver(toks))
	if err != nil {
		t.Fatalf("build(%q): %v", src, err)
	}
	unit := namespace.NewCompilationUnit(id, src)
	if err := unit.MarkLexed(toks); err != nil {
		t.Fatalf("MarkLexed: %v", err)
	}
	if err := unit.MarkParsed(tree); err != nil {
		t.Fatalf("MarkParsed: %v", err)
	}
	ns.CM.Units = append(ns.CM.Units, unit)
}

func firstLet(ns *namespace.Namespace) *ast.Let {
	return ns.CM.Units[0].AST.Nodes[0].(*ast.Let)
}

// Scenario 1 (spec §8): `let x : I32 = 1` resolves its declared type and
// carries no errors.
func TestStage1Stage2SingleLet(t *testing.T) {
	e := env.New()
	root := e.Root()
	addUnit(t, root, "u0", "let x : I32 = 1")

	r := New(e)
	if errs1 := r.Stage1(root); len(errs1) != 0 {
		t.Fatalf("Stage1: unexpected errors %v", errs1)
	}
	if errs2 := r.Stage2(root); len(errs2) != 0 {
		t.Fatalf("Stage2: unexpected errors %v", errs2)
	}
	let := firstLet(root)
	if let.Sym.Resolution().String() != "resolved" {
		t.Errorf("expected x's symbol to be resolved")
	}
	if let.Meta().Type().String() != "I32" {
		t.Errorf("expected x's type I32, got %s", let.Meta().Type())
	}
}

// Stage 2 does not introduce new symbols (spec §8 invariant): the symbol
// count in the root scope must be identical before and after Stage2
// runs. `(+ x 1)` adds an I32 and an I64 literal, so y is declared I64.
func TestStage2DoesNotAddSymbols(t *testing.T) {
	e := env.New()
	root := e.Root()
	addUnit(t, root, "u0", "let x : I32 = 1\nlet y : I64 = (+ x 1)")

	r := New(e)
	r.Stage1(root)
	before := len(root.Symbols.Names(root.Symbols.RootScope()))
	if errs2 := r.Stage2(root); len(errs2) != 0 {
		t.Fatalf("Stage2: unexpected errors %v", errs2)
	}
	after := len(root.Symbols.Names(root.Symbols.RootScope()))
	if before != after {
		t.Errorf("expected Stage2 to introduce no new symbols, had %d then %d", before, after)
	}
}

// Scenario 6 (spec §8): two top-level `let x` declarations in the same
// namespace scope report DuplicateSymbol during Stage 1.
func TestStage1DuplicateSymbol(t *testing.T) {
	e := env.New()
	root := e.Root()
	addUnit(t, root, "u0", "let x : I32 = 1")
	addUnit(t, root, "u1", "let x : I32 = 2")

	r := New(e)
	errs1 := r.Stage1(root)
	if len(errs1) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs1)
	}
	if _, ok := errs1[0].(*errs.DuplicateSymbol); !ok {
		t.Errorf("expected DuplicateSymbol, got %T", errs1[0])
	}
}

// An unresolved identifier reference reports UndefinedSymbol, carrying
// a Levenshtein-≤2 suggestion (spec §7/§8).
func TestStage2UndefinedSymbolSuggestsClosestName(t *testing.T) {
	e := env.New()
	root := e.Root()
	addUnit(t, root, "u0", "let count : I32 = 1\nlet z : I32 = counf")

	r := New(e)
	r.Stage1(root)
	errs2 := r.Stage2(root)
	if len(errs2) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs2)
	}
	undef, ok := errs2[0].(*errs.UndefinedSymbol)
	if !ok {
		t.Fatalf("expected UndefinedSymbol, got %T", errs2[0])
	}
	if undef.Name != "counf" {
		t.Errorf("expected undefined name 'counf', got %q", undef.Name)
	}
	found := false
	for _, s := range undef.Suggestions {
		if s == "count" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 'count' among suggestions, got %v", undef.Suggestions)
	}
}

// A mismatched declared type against the actual value type reports
// TypeMismatch (spec §4.7 Type compatibility), except when the value is
// a numeric literal narrowing at its own declaration site.
func TestStage2TypeMismatchOnDeclaredType(t *testing.T) {
	e := env.New()
	root := e.Root()
	addUnit(t, root, "u0", "let flag : Bool = 1")

	r := New(e)
	r.Stage1(root)
	errs2 := r.Stage2(root)
	if len(errs2) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs2)
	}
	if _, ok := errs2[0].(*errs.TypeMismatch); !ok {
		t.Errorf("expected TypeMismatch, got %T", errs2[0])
	}
}

// Reassigning an identifier lacking @mut reports AccessibilityViolation
// (spec §4.7 Stage 2 assignment rule).
func TestStage2ReassignNonMutableRejected(t *testing.T) {
	e := env.New()
	root := e.Root()
	addUnit(t, root, "u0", "let x : I32 = 1\nx := 2")

	r := New(e)
	r.Stage1(root)
	errs2 := r.Stage2(root)
	var viol *errs.AccessibilityViolation
	for _, err := range errs2 {
		if v, ok := err.(*errs.AccessibilityViolation); ok {
			viol = v
		}
	}
	if viol == nil {
		t.Fatalf("expected an AccessibilityViolation among %v", errs2)
	}
	if viol.Kind != errs.NotMutable {
		t.Errorf("expected NotMutable, got %v", viol.Kind)
	}
}

// Reassigning a declared @mut identifier with a compatible type succeeds.
func TestStage2ReassignMutableAccepted(t *testing.T) {
	e := env.New()
	root := e.Root()
	addUnit(t, root, "u0", "let @mut x : I64 = 1\nx := 2")

	r := New(e)
	r.Stage1(root)
	if errs2 := r.Stage2(root); len(errs2) != 0 {
		t.Fatalf("expected no errors, got %v", errs2)
	}
}

// A lambda parameter can never be reassigned, regardless of any
// modifier it happens to carry (spec §4.7: "reject if target lacks
// MUTABLE or is a parameter").
func TestStage2ReassignParameterRejected(t *testing.T) {
	e := env.New()
	root := e.Root()
	addUnit(t, root, "u0", "let f : Fn<I32;I32> = (=> | @mut a: I32 | { a := 2  a })")

	r := New(e)
	r.Stage1(root)
	errs2 := r.Stage2(root)
	var viol *errs.AccessibilityViolation
	for _, err := range errs2 {
		if v, ok := err.(*errs.AccessibilityViolation); ok {
			viol = v
		}
	}
	if viol == nil {
		t.Fatalf("expected an AccessibilityViolation among %v", errs2)
	}
	if viol.Kind != errs.ReassignParameter {
		t.Errorf("expected ReassignParameter, got %v", viol.Kind)
	}
}

// An import naming a namespace the tree does not have reports
// UnresolvedImport (spec §8 scenario 3, first half).
func TestStage1UnresolvedImport(t *testing.T) {
	e := env.New()
	root := e.Root()
	addUnit(t, root, "u0", "import nowhere")

	r := New(e)
	errs1 := r.Stage1(root)
	if len(errs1) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs1)
	}
	if _, ok := errs1[0].(*errs.UnresolvedImport); !ok {
		t.Errorf("expected UnresolvedImport, got %T", errs1[0])
	}
}

// Cross-namespace access to a non-@pub symbol reports
// AccessibilityViolation (spec §4.7 member access rule); access to a
// @pub symbol through the same chain succeeds.
func TestStage2CrossNamespaceAccessibility(t *testing.T) {
	e := env.New()
	root := e.Root()
	greet := root.NewChild("greet")
	addUnit(t, greet, "u0", "let secret : I32 = 1\nlet @pub upper : I32 = 2")
	addUnit(t, root, "u0", "import greet\nlet a : I32 = (greet -> secret)")
	addUnit(t, root, "u1", "let b : I32 = (greet -> upper)")

	r := New(e)
	r.Stage1(root)
	r.Stage1(greet)
	errs2 := r.Stage2(root)

	var viol *errs.AccessibilityViolation
	for _, err := range errs2 {
		if v, ok := err.(*errs.AccessibilityViolation); ok {
			viol = v
		}
	}
	if viol == nil {
		t.Fatalf("expected an AccessibilityViolation accessing a non-public cross-namespace symbol, got %v", errs2)
	}

	bLet := root.CM.Units[1].AST.Nodes[0].(*ast.Let)
	if bLet.Meta().Type().String() != "I32" {
		t.Errorf("expected b's type I32 via public cross-namespace access, got %s", bLet.Meta().Type())
	}
}

// Function call argument count and type checking (spec §4.7 Stage 2
// Function call decision).
func TestStage2FunctionCallArityMismatch(t *testing.T) {
	e := env.New()
	root := e.Root()
	addUnit(t, root, "u0", "let add : Fn<I32 I32; I32> = (=> | a: I32, b: I32 | (+ a b))\nlet r : I32 = (add 1)")

	r := New(e)
	r.Stage1(root)
	errs2 := r.Stage2(root)
	var mismatch *errs.TypeMismatch
	for _, err := range errs2 {
		if m, ok := err.(*errs.TypeMismatch); ok {
			mismatch = m
		}
	}
	if mismatch == nil {
		t.Fatalf("expected a TypeMismatch for the wrong argument count, got %v", errs2)
	}
}

// Nested lambdas type to a curried Fn chain (spec §8 boundary behavior).
func TestStage2NestedLambdaCurriedType(t *testing.T) {
	e := env.New()
	root := e.Root()
	addUnit(t, root, "u0",
		"let f : Fn<I32;Fn<I32;I32>> = (=> :Fn<I32;I32> | x: I32 | (=> | y: I32 | (+ x y)))")

	r := New(e)
	r.Stage1(root)
	if errs2 := r.Stage2(root); len(errs2) != 0 {
		t.Fatalf("expected no errors, got %v", errs2)
	}
	let := firstLet(root)
	if let.Meta().Type().String() != "Fn<I32; Fn<I32; I32>>" {
		t.Errorf("expected curried Fn type, got %s", let.Meta().Type())
	}
}

// A conditional predicate-form expression types to its branch's type
// (spec §8 scenario 5).
func TestStage2PredicateFormTypesToBranch(t *testing.T) {
	e := env.New()
	root := e.Root()
	addUnit(t, root, "u0", "let p : Bool = #T\nlet t : I32 = 1\nlet x : I32 = 2\nlet r : I32 = (p -> t : x)")

	r := New(e)
	r.Stage1(root)
	if errs2 := r.Stage2(root); len(errs2) != 0 {
		t.Fatalf("expected no errors, got %v", errs2)
	}
	rLet := root.CM.Units[0].AST.Nodes[3].(*ast.Let)
	if rLet.Meta().Type().String() != "I32" {
		t.Errorf("expected predicate-form result type I32, got %s", rLet.Meta().Type())
	}
}

// DependencyGraph: a cycle of two mutually-importing namespaces is
// detected and TopoOrder still terminates, producing a deterministic
// order over every node (spec §4.7/§5/§9).
func TestDependencyGraphDetectsCycle(t *testing.T) {
	g := NewDependencyGraph()
	g.AddEdge("main.a", "main.b")
	g.AddEdge("main.b", "main.a")

	cycles := g.DetectCycles()
	if len(cycles) == 0 {
		t.Fatalf("expected at least one cycle detected")
	}

	order, breakNodes, cycles2 := g.TopoOrder()
	if len(order) != 2 {
		t.Fatalf("expected both cyclic nodes in the topo order, got %v", order)
	}
	if len(breakNodes) == 0 {
		t.Errorf("expected a cycle-break victim to be chosen")
	}
	if len(cycles2) != len(cycles) {
		t.Errorf("expected TopoOrder's reported cycles to match DetectCycles")
	}
}

// A diamond-shaped, acyclic dependency graph topologically orders every
// dependency strictly before its dependents.
func TestDependencyGraphTopoOrderDiamond(t *testing.T) {
	g := NewDependencyGraph()
	g.AddEdge("main.top", "main.left")
	g.AddEdge("main.top", "main.right")
	g.AddEdge("main.left", "main.base")
	g.AddEdge("main.right", "main.base")

	order, breakNodes, cycles := g.TopoOrder()
	if len(cycles) != 0 || len(breakNodes) != 0 {
		t.Fatalf("expected no cycles in a diamond graph, got %v / %v", cycles, breakNodes)
	}
	pos := make(map[string]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	if pos["main.base"] > pos["main.left"] || pos["main.base"] > pos["main.right"] {
		t.Errorf("expected main.base before its dependents, got order %v", order)
	}
	if pos["main.left"] > pos["main.top"] || pos["main.right"] > pos["main.top"] {
		t.Errorf("expected main.top last, got order %v", order)
	}
}

// ForwardDeclare resets every symbol in a namespace's root scope back to
// Unresolved/Undefined (spec §9 cycle-break strategy).
func TestForwardDeclareResetsSymbols(t *testing.T) {
	e := env.New()
	root := e.Root()
	addUnit(t, root, "u0", "let x : I32 = 1")

	r := New(e)
	r.Stage1(root)
	r.Stage2(root)
	r.ForwardDeclare(root)

	let := firstLet(root)
	if let.Sym.Resolution().String() != "unresolved" {
		t.Errorf("expected x's symbol forward-declared back to unresolved")
	}
	if !let.Sym.Type.IsUndefined() {
		t.Errorf("expected x's type reset to Undefined, got %s", let.Sym.Type)
	}
}
