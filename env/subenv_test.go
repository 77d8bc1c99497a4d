package env

import (
	"testing"

	"github.com/dhickel/lyra-sub000/namespace"
	"github.com/dhickel/lyra-sub000/symbol"
	"github.com/dhickel/lyra-sub000/token"
)

func TestNewSubEnvironmentAnchorsAtRootScope(t *testing.T) {
	e := New()
	sub := NewSubEnvironment(e, e.Root())
	if sub.CurrentScope() != e.Root().Symbols.RootScope() {
		t.Errorf("expected a fresh SubEnvironment's current scope to be the namespace root scope")
	}
}

func TestPushScopeShadowsWithoutMutatingParent(t *testing.T) {
	e := New()
	outer := NewSubEnvironment(e, e.Root())
	x := symbol.NewResolved("x", token.Position{Line: 1, Column: 1})
	if err := outer.Insert(x); err != nil {
		t.Fatalf("insert at root: %v", err)
	}

	inner, _ := outer.PushScope()
	shadow := symbol.NewResolved("x", token.Position{Line: 2, Column: 1})
	if err := inner.Insert(shadow); err != nil {
		t.Fatalf("insert shadow in pushed scope: %v", err)
	}

	got, ok := inner.Lookup("x")
	if !ok || got != shadow {
		t.Fatalf("expected inner lookup to see the shadowing symbol")
	}
	got, ok = outer.Lookup("x")
	if !ok || got != x {
		t.Fatalf("expected outer SubEnvironment to be unaffected by the pushed scope")
	}
}

func TestPopScopeReturnsToParentChain(t *testing.T) {
	e := New()
	outer := NewSubEnvironment(e, e.Root())
	inner, _ := outer.PushScope()
	back := inner.PopScope()
	if back.CurrentScope() != outer.CurrentScope() {
		t.Errorf("expected PopScope to restore the prior current scope")
	}
}

func TestPopScopeAtRootPanics(t *testing.T) {
	e := New()
	root := NewSubEnvironment(e, e.Root())
	defer func() {
		if recover() == nil {
			t.Errorf("expected PopScope at the namespace root to panic")
		}
	}()
	root.PopScope()
}

func TestLookupFallsBackToParentNamespacePublicSymbol(t *testing.T) {
	e := New()
	util := e.EnsureNamespace("main.util")

	pubSym := symbol.NewUnresolved("helper")
	pubSym.Resolve(token.Position{}, pubSym.Type, []symbol.Modifier{symbol.Public}, true)
	if err := e.Root().Symbols.Insert(e.Root().Symbols.RootScope(), pubSym); err != nil {
		t.Fatalf("insert public symbol at root: %v", err)
	}

	sub := NewSubEnvironment(e, util)
	got, ok := sub.Lookup("helper")
	if !ok || got != pubSym {
		t.Fatalf("expected lookup from a child namespace to fall back to the parent's public symbol")
	}
}

func TestLookupFallsBackToImportedNamespace(t *testing.T) {
	e := New()
	mathNS := e.EnsureNamespace("main.math")
	mainNS := e.Root()

	pubSym := symbol.NewUnresolved("square")
	pubSym.Resolve(token.Position{}, pubSym.Type, []symbol.Modifier{symbol.Public}, true)
	if err := mathNS.Symbols.Insert(mathNS.Symbols.RootScope(), pubSym); err != nil {
		t.Fatalf("insert public symbol: %v", err)
	}
	mainNS.Imports = append(mainNS.Imports, namespace.Import{Path: "main.math", Target: mathNS})

	sub := NewSubEnvironment(e, mainNS)
	got, ok := sub.Lookup("square")
	if !ok || got != pubSym {
		t.Fatalf("expected lookup to fall back through an import to the target namespace's public symbol")
	}
}
