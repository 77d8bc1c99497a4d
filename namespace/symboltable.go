package namespace

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/dhickel/lyra-sub000/errs"
	"github.com/dhickel/lyra-sub000/symbol"
)

// SymbolTable is the per-namespace scope store: a flat map keyed by
// scope id, each value itself a map from identifier to Symbol. Scope
// ids are locally unique within one namespace, never shared across
// namespaces.
//
// Lookup walks an explicit scope_id chain supplied by the caller
// (env.SubEnvironment) rather than a parent pointer on the scope
// itself, since lyra's scopes nest inside a namespace rather than
// forming a single global scope tree. Each scope's identifier map is a
// linkedhashmap so that diagnostics (suggestion ranking) iterate names
// in declaration order rather than Go map's randomized order.
type SymbolTable struct {
	scopes    map[int]*linkedhashmap.Map
	nextScope int
	root      int
}

// NewSymbolTable creates a table with a single root scope already
// allocated; every namespace owns exactly one of these, and its root
// scope can never be cleared (see SubEnvironment, which always anchors
// its scope stack here).
func NewSymbolTable() *SymbolTable {
	t := &SymbolTable{scopes: make(map[int]*linkedhashmap.Map)}
	t.root = t.allocate()
	return t
}

func (t *SymbolTable) allocate() int {
	id := t.nextScope
	t.nextScope++
	t.scopes[id] = linkedhashmap.New()
	return id
}

// RootScope returns the namespace's always-present outermost scope id.
func (t *SymbolTable) RootScope() int { return t.root }

// NewScope allocates a fresh, empty scope and returns its id. The scope
// stays in the table after it goes out of lexical reach, so Stage 2 can
// re-enter it by id; only Clear removes it.
func (t *SymbolTable) NewScope() int { return t.allocate() }

// Insert binds an identifier in the given scope. A duplicate identifier
// within the same scope is a DuplicateSymbol error (spec §4.5); shadowing
// across scopes is always permitted, since Lookup only ever looks at one
// scope at a time before moving to the next link in the chain.
func (t *SymbolTable) Insert(scopeID int, sym *symbol.Symbol) error {
	m, ok := t.scopes[scopeID]
	if !ok {
		return &errs.InternalError{Message: "insert into unknown scope id"}
	}
	if existing, found := m.Get(sym.Identifier); found {
		ex := existing.(*symbol.Symbol)
		return &errs.DuplicateSymbol{
			Name:        sym.Identifier,
			ExistingPos: ex.DeclPos,
			NewPos:      sym.DeclPos,
		}
	}
	m.Put(sym.Identifier, sym)
	return nil
}

// Lookup searches scope ids in the order given — the caller supplies the
// chain innermost-first (spec §4.5: "innermost-first"), so the first hit
// wins.
func (t *SymbolTable) Lookup(chain []int, name string) (*symbol.Symbol, bool) {
	for _, scopeID := range chain {
		m, ok := t.scopes[scopeID]
		if !ok {
			continue
		}
		if v, found := m.Get(name); found {
			return v.(*symbol.Symbol), true
		}
	}
	return nil, false
}

// Clear drops a scope entirely (optional per spec §4.5); the root scope
// is never dropped. Nothing in the resolver calls it, since Stage 2
// re-enters the block and lambda scopes Stage 1 created.
func (t *SymbolTable) Clear(scopeID int) {
	if scopeID == t.root {
		return
	}
	delete(t.scopes, scopeID)
}

// Names returns every identifier bound directly in scopeID, in
// declaration order — used by the resolver to build suggestion lists for
// UndefinedSymbol diagnostics (SPEC_FULL.md §4 item 1).
func (t *SymbolTable) Names(scopeID int) []string {
	m, ok := t.scopes[scopeID]
	if !ok {
		return nil
	}
	keys := m.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.(string)
	}
	return out
}

// EachInScope visits every symbol bound directly in scopeID, in
// declaration order. Used by the resolver's cycle-break forward
// declaration (spec §9), which must reset every symbol a namespace's
// root scope declares.
func (t *SymbolTable) EachInScope(scopeID int, fn func(*symbol.Symbol)) {
	m, ok := t.scopes[scopeID]
	if !ok {
		return
	}
	for _, k := range m.Keys() {
		fn(mustGet(m, k))
	}
}

// AllPublicNames returns every identifier, across every live scope, whose
// symbol carries the Public modifier — used when resolving a cross-
// namespace member access (resolver Stage 2).
func (t *SymbolTable) AllPublicNames() []string {
	var out []string
	for _, m := range t.scopes {
		for _, k := range m.Keys() {
			sym := mustGet(m, k)
			if sym.HasModifier(symbol.Public) {
				out = append(out, sym.Identifier)
			}
		}
	}
	return out
}

// LookupPublic resolves name against the namespace's root scope only,
// requiring the Public modifier — the rule for member access into
// another namespace (spec §4.5/§4.7: "A cross-namespace symbol must be
// PUBLIC").
func (t *SymbolTable) LookupPublic(name string) (*symbol.Symbol, bool) {
	m, ok := t.scopes[t.root]
	if !ok {
		return nil, false
	}
	v, found := m.Get(name)
	if !found {
		return nil, false
	}
	sym := v.(*symbol.Symbol)
	if !sym.HasModifier(symbol.Public) {
		return nil, false
	}
	return sym, true
}

func mustGet(m *linkedhashmap.Map, k interface{}) *symbol.Symbol {
	v, _ := m.Get(k)
	return v.(*symbol.Symbol)
}
