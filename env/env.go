/*
Package env implements Environment, the owner of the whole namespace
tree, and SubEnvironment, the per-traversal scope-chain cursor the
resolver carries as it walks one compilation unit's AST (spec §3/§4.6).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022–2026 dhickel

*/
package env

import (
	"sync"

	"github.com/dhickel/lyra-sub000/errs"
	"github.com/dhickel/lyra-sub000/namespace"
	"github.com/dhickel/lyra-sub000/result"
)

// UnitSource is one (unit_id, source_text) pair a Loader hands back for
// a namespace path (spec §6 external interface).
type UnitSource struct {
	ID     string
	Source string
}

// Loader is the one IO boundary the core requires (spec §6): given a
// namespace path, return the source text of every compilation unit that
// belongs to it. The core does not prescribe how a path maps to files —
// a typical driver mirrors a directory tree, one directory per
// namespace, one file per unit.
type Loader func(namespacePath string) result.Result[[]UnitSource]

// Environment owns the namespace tree and is the top-level handle spec
// §6's public API surface is built from (Environment::new,
// Environment::load_tree, Environment::compile_with). Grounded on the
// teacher's runtime.ScopeTree (runtime/symtable.go) in the sense that
// both are a single owning handle over an otherwise-plain tree of
// scopes/namespaces — generalized here from ScopeTree's single linear
// stack to a namespace-path-indexed tree, and made safe for the
// namespace-parallel Stage 1 the compiler driver schedules (spec §5) via
// a reader/writer lock guarding namespace registration.
type Environment struct {
	mu   sync.RWMutex
	root *namespace.Namespace
}

// New constructs an Environment with a freshly rooted "main" namespace
// and nothing loaded yet.
func New() *Environment {
	return &Environment{root: namespace.NewRoot()}
}

// Root returns the tree's "main" namespace.
func (e *Environment) Root() *namespace.Namespace {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.root
}

// Namespace resolves a dotted path against the tree, absolute from the
// root.
func (e *Environment) Namespace(path string) (*namespace.Namespace, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.root.Resolve(path, true)
}

// EnsureNamespace walks (creating as needed) a dotted path from the
// root. Namespace creation is published under the write lock so that
// concurrent Stage 1 workers (spec §5: "imports published through a
// thread-safe namespace registry") never race on the same new child.
func (e *Environment) EnsureNamespace(path string) *namespace.Namespace {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.root.EnsurePath(path, true)
}

// Namespaces returns every namespace in the tree, root first, in
// deterministic order.
func (e *Environment) Namespaces() []*namespace.Namespace {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []*namespace.Namespace
	e.root.Each(func(n *namespace.Namespace) { out = append(out, n) })
	return out
}

// LoadTree populates the namespace at path (creating it if necessary)
// with the units a Loader returns for it. The compiler driver is
// expected to call this once per namespace path it discovers — starting
// with the tree root, then again for every path a resolved `import`
// statement names that hasn't been loaded yet — since nothing in the
// loader interface itself can enumerate a namespace's children (spec
// §6: "the core does not prescribe a mapping").
func (e *Environment) LoadTree(loader Loader, path string) result.Result[*namespace.Namespace] {
	ns := e.EnsureNamespace(path)
	units, err := loader(path).Unwrap()
	if err != nil {
		return result.Err[*namespace.Namespace](err)
	}
	for _, u := range units {
		ns.CM.Units = append(ns.CM.Units, namespace.NewCompilationUnit(u.ID, u.Source))
	}
	return result.Ok(ns)
}

// IoError wraps a Loader failure that isn't already an errs.Diagnostic,
// so callers always get a reportable error back from LoadTree.
func IoError(path string, err error) error {
	return &errs.IoError{Path: path, Err: err}
}
