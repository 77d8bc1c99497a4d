/*
Package namespace implements the namespace tree, per-namespace compiled-
unit list, and scope-indexed symbol table spec §3/§4.5 describe: the
static structure the resolver and compiler driver walk, as distinct from
the per-traversal SubEnvironment (package env) that walks it.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022–2026 dhickel

*/
package namespace

import (
	"strings"
	"sync/atomic"

	"github.com/cnf/structhash"

	"github.com/dhickel/lyra-sub000/ast"
	"github.com/dhickel/lyra-sub000/errs"
	"github.com/dhickel/lyra-sub000/token"
)

var serial uint32

// Namespace is one node of the namespace tree, rooted at "main". Each
// node owns its own CompModule and SymbolTable and reaches its children
// through a name-keyed map, the way a single global scope tree would —
// generalized here into a tree of independently owned namespaces.
type Namespace struct {
	Name     string
	Parent   *Namespace
	Children map[string]*Namespace
	ID       uint32

	CM      *CompModule
	Symbols *SymbolTable
	Imports []Import
}

// Import records one `import` statement resolved against this
// namespace's tree, plus the dependency-graph edge it implies (resolver
// Stage 1).
type Import struct {
	Path     string
	Alias    string
	HasAlias bool
	Target   *Namespace
}

// NewRoot constructs the tree's "main" root namespace.
func NewRoot() *Namespace {
	return &Namespace{
		Name:     "main",
		Children: make(map[string]*Namespace),
		ID:       atomic.AddUint32(&serial, 1),
		CM:       &CompModule{},
		Symbols:  NewSymbolTable(),
	}
}

// NewChild creates (or returns, if already present) a named child of
// parent — namespace creation is idempotent by name, since the same
// namespace path may be referenced by more than one import before its
// units are loaded.
func (n *Namespace) NewChild(name string) *Namespace {
	if existing, ok := n.Children[name]; ok {
		return existing
	}
	child := &Namespace{
		Name:     name,
		Parent:   n,
		Children: make(map[string]*Namespace),
		ID:       atomic.AddUint32(&serial, 1),
		CM:       &CompModule{},
		Symbols:  NewSymbolTable(),
	}
	n.Children[name] = child
	return child
}

// Root walks up to the tree's "main" namespace.
func (n *Namespace) Root() *Namespace {
	cur := n
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// Path renders the dotted namespace path from the tree root to n (spec
// §4.5: "path resolution splits on `.`").
func (n *Namespace) Path() string {
	var parts []string
	for cur := n; cur != nil; cur = cur.Parent {
		parts = append([]string{cur.Name}, parts...)
	}
	return strings.Join(parts, ".")
}

// Resolve looks up a dotted path. An absolute path is resolved from the
// tree root; a relative path is resolved from n itself (spec §4.5).
func (n *Namespace) Resolve(path string, absolute bool) (*Namespace, bool) {
	start := n
	if absolute {
		start = n.Root()
	}
	segments := strings.Split(path, ".")
	cur := start
	// An absolute path's first segment names the root itself.
	if absolute {
		if len(segments) == 0 || segments[0] != cur.Name {
			return nil, false
		}
		segments = segments[1:]
	}
	for _, seg := range segments {
		next, ok := cur.Children[seg]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// ResolveFromRoot walks a dotted path of child names starting at the
// tree root, without the root's own name as a leading segment — the
// convention an `import` statement's target path uses (spec §4.4/§4.5),
// as opposed to Resolve's "main.…"-prefixed absolute paths used
// elsewhere (e.g. by the compiler driver's own namespace addressing).
func (n *Namespace) ResolveFromRoot(path string) (*Namespace, bool) {
	cur := n.Root()
	for _, seg := range strings.Split(path, ".") {
		next, ok := cur.Children[seg]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// EnsureFromRoot is ResolveFromRoot's create-as-needed counterpart.
func (n *Namespace) EnsureFromRoot(path string) *Namespace {
	cur := n.Root()
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			continue
		}
		cur = cur.NewChild(seg)
	}
	return cur
}

// EnsurePath walks (creating as needed) a dotted path from n, used by
// the compiler driver when a loader hands back namespace paths it has
// not seen before (spec §6: "typical impl mirrors a directory tree").
func (n *Namespace) EnsurePath(path string, absolute bool) *Namespace {
	start := n
	if absolute {
		start = n.Root()
	}
	segments := strings.Split(path, ".")
	cur := start
	if absolute {
		if len(segments) > 0 && segments[0] == cur.Name {
			segments = segments[1:]
		}
	}
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		cur = cur.NewChild(seg)
	}
	return cur
}

// Each visits every namespace in the subtree rooted at n, itself
// included, in a deterministic (alphabetical-by-name) child order.
func (n *Namespace) Each(visit func(*Namespace)) {
	visit(n)
	names := make([]string, 0, len(n.Children))
	for name := range n.Children {
		names = append(names, name)
	}
	sortStrings(names)
	for _, name := range names {
		n.Children[name].Each(visit)
	}
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// --- CompModule / CompilationUnit --------------------------------------

// CompModule is the ordered list of compilation units belonging to one
// namespace (spec §3 CompModule) — typically one unit per source file
// a loader hands the driver for that namespace's path.
type CompModule struct {
	Units []*CompilationUnit
}

// UnitState is the compilation unit's monotonic state machine (spec
// §4.7: "Raw → Read → Lexed → Parsed → PartiallyResolved →
// FullyResolved").
type UnitState int

const (
	Raw UnitState = iota
	Read
	Lexed
	Parsed
	PartiallyResolved
	FullyResolved
)

var unitStateNames = map[UnitState]string{
	Raw: "Raw", Read: "Read", Lexed: "Lexed", Parsed: "Parsed",
	PartiallyResolved: "PartiallyResolved", FullyResolved: "FullyResolved",
}

func (s UnitState) String() string { return unitStateNames[s] }

// CompilationUnit is one source file's journey through the pipeline.
// Each stage fills in the next field and the state only ever advances;
// an error along the way freezes it at its current state (spec §4.7).
type CompilationUnit struct {
	ID     string
	Source string
	Tokens []token.Token
	AST    *ast.CompilationUnit

	state UnitState
	hash  string
}

// NewCompilationUnit constructs a unit in the Read state — it always
// arrives with its source text already in hand (the loader interface,
// spec §6, hands back (unit_id, source_text) pairs together).
func NewCompilationUnit(id, source string) *CompilationUnit {
	return &CompilationUnit{ID: id, Source: source, state: Read}
}

// State reports the unit's current pipeline stage.
func (u *CompilationUnit) State() UnitState { return u.state }

// advance enforces the strictly-increasing state machine invariant.
func (u *CompilationUnit) advance(next UnitState) error {
	if next <= u.state {
		return &errs.InternalError{Message: "compilation unit state must strictly advance: " + u.state.String() + " -> " + next.String()}
	}
	u.state = next
	return nil
}

// MarkLexed records the lexer's token stream and advances the unit.
func (u *CompilationUnit) MarkLexed(toks []token.Token) error {
	if err := u.advance(Lexed); err != nil {
		return err
	}
	u.Tokens = toks
	return nil
}

// MarkParsed records the AST builder's result and advances the unit.
func (u *CompilationUnit) MarkParsed(tree *ast.CompilationUnit) error {
	if err := u.advance(Parsed); err != nil {
		return err
	}
	u.AST = tree
	return nil
}

// MarkPartiallyResolved advances the unit after resolver Stage 1.
func (u *CompilationUnit) MarkPartiallyResolved() error { return u.advance(PartiallyResolved) }

// MarkFullyResolved advances the unit after resolver Stage 2.
func (u *CompilationUnit) MarkFullyResolved() error { return u.advance(FullyResolved) }

// ContentHash returns a stable digest of the unit's source text
// (SPEC_FULL.md §4 item 3: incremental re-compilation is a non-goal, but
// a cheap "did this unit's text change" check is still useful to an
// external driver deciding whether to re-submit a unit at all). Computed
// lazily and cached, since the source text never changes after the unit
// is constructed.
func (u *CompilationUnit) ContentHash() string {
	if u.hash == "" {
		u.hash = structhash.Md5(u.Source, 1)
	}
	return u.hash
}
