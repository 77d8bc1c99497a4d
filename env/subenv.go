package env

import (
	"github.com/emirpasic/gods/lists/arraylist"

	"github.com/dhickel/lyra-sub000/namespace"
	"github.com/dhickel/lyra-sub000/symbol"
)

// SubEnvironment is the resolver's per-traversal scope-chain cursor: a
// global Environment reference, the namespace it is currently anchored
// in, and a stack of scope ids within that namespace's SymbolTable.
//
// Implemented as an immutable value type — PushScope/PopScope return a
// new SubEnvironment rather than mutating one in place — because a
// resolver walking a tree of AST nodes naturally wants one
// SubEnvironment value per recursive call frame, exactly like
// cursor.Sub is one value per speculative match attempt. A mutating
// stack-of-frames representation would be equally valid provided the
// same push/pop invariant holds.
type SubEnvironment struct {
	env   *Environment
	ns    *namespace.Namespace
	stack *arraylist.List // of int scope ids, index 0 = outermost (root)
}

// NewSubEnvironment anchors a SubEnvironment at ns's root scope — the
// scope that can never be popped (spec §4.6).
func NewSubEnvironment(e *Environment, ns *namespace.Namespace) SubEnvironment {
	stack := arraylist.New()
	stack.Add(ns.Symbols.RootScope())
	return SubEnvironment{env: e, ns: ns, stack: stack}
}

// Namespace reports the namespace this SubEnvironment is anchored in.
func (s SubEnvironment) Namespace() *namespace.Namespace { return s.ns }

// Environment reports the owning Environment.
func (s SubEnvironment) Environment() *Environment { return s.env }

// PushScope allocates a fresh scope in the current namespace's symbol
// table and returns a new SubEnvironment with it on top of the chain
// (spec §4.6 operation push_scope). Used when the resolver descends into
// a Block or Lambda body.
func (s SubEnvironment) PushScope() (SubEnvironment, int) {
	id := s.ns.Symbols.NewScope()
	next := cloneStack(s.stack)
	next.Add(id)
	return SubEnvironment{env: s.env, ns: s.ns, stack: next}, id
}

// PopScope returns the SubEnvironment one level up the chain. Popping
// past the root scope is a resolver logic error, not a recoverable
// input condition, so it panics rather than returning an error.
func (s SubEnvironment) PopScope() SubEnvironment {
	if s.stack.Size() <= 1 {
		panic("env: PopScope called at namespace root scope")
	}
	next := cloneStack(s.stack)
	next.Remove(next.Size() - 1)
	return SubEnvironment{env: s.env, ns: s.ns, stack: next}
}

// PushExistingScope appends an already-allocated scope id to the chain
// rather than allocating a fresh one — used by resolver Stage 2 to
// re-enter exactly the scope Stage 1 created for a given Block or
// Lambda, so the declarations Stage 1 inserted there are still visible.
func (s SubEnvironment) PushExistingScope(scopeID int) SubEnvironment {
	next := cloneStack(s.stack)
	next.Add(scopeID)
	return SubEnvironment{env: s.env, ns: s.ns, stack: next}
}

// CurrentScope returns the innermost scope id on the chain — the scope a
// new declaration is inserted into.
func (s SubEnvironment) CurrentScope() int {
	v, _ := s.stack.Get(s.stack.Size() - 1)
	return v.(int)
}

// scopeChainInnermostFirst returns the scope ids in search order:
// innermost first, root last.
func (s SubEnvironment) scopeChainInnermostFirst() []int {
	vals := s.stack.Values()
	out := make([]int, len(vals))
	for i, v := range vals {
		out[len(vals)-1-i] = v.(int)
	}
	return out
}

// Lookup searches the local scope chain innermost-first, then the
// enclosing namespaces up to the tree root, then every namespace this
// one imports — the three-tier fallback spec §4.6 describes ("falls
// back to parent namespace / imported namespace after a local miss").
// Only PUBLIC symbols are visible across a namespace boundary; symbols
// found in the local namespace's own chain have no such restriction.
func (s SubEnvironment) Lookup(name string) (*symbol.Symbol, bool) {
	if sym, ok := s.ns.Symbols.Lookup(s.scopeChainInnermostFirst(), name); ok {
		return sym, true
	}
	for parent := s.ns.Parent; parent != nil; parent = parent.Parent {
		if sym, ok := parent.Symbols.LookupPublic(name); ok {
			return sym, true
		}
	}
	for _, imp := range s.ns.Imports {
		if imp.Target == nil {
			continue
		}
		if sym, ok := imp.Target.Symbols.LookupPublic(name); ok {
			return sym, true
		}
	}
	return nil, false
}

// VisibleNames returns every identifier visible from this
// SubEnvironment: the local scope chain, then every enclosing
// namespace's public symbols, then every imported namespace's public
// symbols — the same three tiers Lookup searches, flattened for
// building an UndefinedSymbol suggestion list (resolver package,
// SPEC_FULL.md §4 item 1).
func (s SubEnvironment) VisibleNames() []string {
	var out []string
	for _, id := range s.scopeChainInnermostFirst() {
		out = append(out, s.ns.Symbols.Names(id)...)
	}
	for parent := s.ns.Parent; parent != nil; parent = parent.Parent {
		out = append(out, parent.Symbols.AllPublicNames()...)
	}
	for _, imp := range s.ns.Imports {
		if imp.Target != nil {
			out = append(out, imp.Target.Symbols.AllPublicNames()...)
		}
	}
	return out
}

// Insert binds sym in the current (innermost) scope.
func (s SubEnvironment) Insert(sym *symbol.Symbol) error {
	return s.ns.Symbols.Insert(s.CurrentScope(), sym)
}

func cloneStack(l *arraylist.List) *arraylist.List {
	clone := arraylist.New()
	clone.Add(l.Values()...)
	return clone
}
