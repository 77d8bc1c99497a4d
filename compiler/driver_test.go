/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022–2026 dhickel

*/
package compiler

import (
	"errors"
	"testing"

	"github.com/dhickel/lyra-sub000/env"
	"github.com/dhickel/lyra-sub000/namespace"
	"github.com/dhickel/lyra-sub000/result"
)

// mapLoader is a tiny in-memory env.Loader over a namespace-path-keyed
// table of unit source text — the test-double standing in for the
// directory-tree loader spec §6 leaves unspecified.
func mapLoader(units map[string][]string) env.Loader {
	return func(path string) result.Result[[]env.UnitSource] {
		srcs, ok := units[path]
		if !ok {
			return result.Err[[]env.UnitSource](env.IoError(path, errNoSuchNamespace))
		}
		out := make([]env.UnitSource, len(srcs))
		for i, s := range srcs {
			out[i] = env.UnitSource{ID: "unit0", Source: s}
		}
		return result.Ok(out)
	}
}

var errNoSuchNamespace = errors.New("no such namespace in test loader table")

// End-to-end scenario 1 (spec §8): `let x : I32 = 1` compiles cleanly
// and every unit reaches FullyResolved.
func TestDriverCompileSingleLet(t *testing.T) {
	loader := mapLoader(map[string][]string{
		"main": {"let x : I32 = 1"},
	})
	d := NewDriver(WithLoader(loader))
	summary, err := d.Compile("main")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !summary.Success() {
		t.Fatalf("expected success, got:\n%s", summary.Render())
	}
	st, ok := summary.UnitState("main", "unit0")
	if !ok || st != namespace.FullyResolved {
		t.Errorf("expected unit0 FullyResolved, got %v (ok=%v)", st, ok)
	}
}

// End-to-end scenario 2 (spec §8): a lambda whose parameters both
// resolve inside its own scope.
func TestDriverCompileLambda(t *testing.T) {
	loader := mapLoader(map[string][]string{
		"main": {"let add : Fn<I32 I32; I32> = (=> | a: I32, b: I32 | (+ a b))"},
	})
	d := NewDriver(WithLoader(loader))
	summary, err := d.Compile("main")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !summary.Success() {
		t.Fatalf("expected success, got:\n%s", summary.Render())
	}
}

// Scenario 6 (spec §8): two units in the same namespace declaring the
// same identifier at top level surface as DuplicateSymbol, and the
// overall run is reported unsuccessful.
func TestDriverCompileDuplicateSymbol(t *testing.T) {
	loader := mapLoader(map[string][]string{
		"main": {"let x : I32 = 1", "let x : I32 = 2"},
	})
	d := NewDriver(WithLoader(loader))
	summary, err := d.Compile("main")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if summary.Success() {
		t.Fatalf("expected failure on duplicate symbol")
	}
	if len(summary.Errors) == 0 {
		t.Fatalf("expected at least one reported error")
	}
}

// A namespace importing another discovers it transitively: the second
// level of the BFS must load and resolve "main.greet" purely from the
// `import greet` statement in "main", with no direct loader call for
// "main.greet" up front.
func TestDriverCompileTransitiveImport(t *testing.T) {
	loader := mapLoader(map[string][]string{
		"main":       {"import greet\nlet x : I32 = 1"},
		"main.greet": {"let @pub y : I32 = 2"},
	})
	d := NewDriver(WithLoader(loader))
	summary, err := d.Compile("main")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !summary.Success() {
		t.Fatalf("expected success, got:\n%s", summary.Render())
	}
	if _, ok := summary.UnitState("main.greet", "unit0"); !ok {
		t.Fatalf("expected main.greet to have been discovered and compiled")
	}
}

// An import naming a namespace the loader never supplies reports
// UnresolvedImport rather than hanging the BFS.
func TestDriverCompileUnresolvedImport(t *testing.T) {
	loader := mapLoader(map[string][]string{
		"main": {"import nowhere\nlet x : I32 = 1"},
	})
	d := NewDriver(WithLoader(loader))
	summary, err := d.Compile("main")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if summary.Success() {
		t.Fatalf("expected failure for an import with no matching namespace")
	}
}

func TestDriverWithWorkerPoolSize(t *testing.T) {
	loader := mapLoader(map[string][]string{
		"main":   {"import a\nimport b\nlet x : I32 = 1"},
		"main.a": {"let @pub y : I32 = 1"},
		"main.b": {"let @pub z : I32 = 2"},
	})
	d := NewDriver(WithLoader(loader), WithWorkerPoolSize(2))
	summary, err := d.Compile("main")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !summary.Success() {
		t.Fatalf("expected success, got:\n%s", summary.Render())
	}
}

func TestNewDriverPanicsWithoutLoader(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected NewDriver to panic without a Loader")
		}
	}()
	NewDriver()
}
