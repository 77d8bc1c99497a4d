/*
Package symbol implements Symbol, the unit of name binding shared by the
AST, the namespace symbol tables, and the resolver (spec §3 Symbol).

Symbols live in the owning namespace's symbol table; AST nodes hold only
an identifier plus a scope hint, never a raw reference to a Symbol value
living elsewhere (spec §9 Design Notes: "Symbol references, not
ownership"). This package only defines the symbol's own shape; cross-
namespace reference resolution is the resolver's job.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022–2026 dhickel

*/
package symbol

import (
	"fmt"
	"sync/atomic"

	"github.com/dhickel/lyra-sub000/langtype"
	"github.com/dhickel/lyra-sub000/token"
)

// Resolution is the advisory resolved/unresolved status spec §3 describes:
// "Resolution status is advisory and may be promoted by the resolver."
type Resolution int

const (
	Unresolved Resolution = iota
	Resolved
)

func (r Resolution) String() string {
	if r == Resolved {
		return "resolved"
	}
	return "unresolved"
}

// Modifier is one of the four declaration modifiers (spec §3 Modifier).
type Modifier int

const (
	Mutable Modifier = iota
	Public
	Const
	Optional
)

var modifierNames = map[Modifier]string{
	Mutable: "@mut", Public: "@pub", Const: "@const", Optional: "@opt",
}

func (m Modifier) String() string { return modifierNames[m] }

// serial hands out process-unique symbol ids, used only for stable
// debug identity, never for lookup.
var serial int64

// Symbol is a named binding. It is created unresolved when referenced,
// and the same value is promoted to Resolved in place when its
// declaration (or, for a use site, the referent's declaration) is found
// (spec §3: "Symbols are created unresolved when referenced and resolved
// when declared.").
type Symbol struct {
	id         int64
	Identifier string
	resolution Resolution

	// Declaration-site metadata. Zero valued at use sites until Stage 2
	// promotes the symbol and fills these in from the referent.
	DeclPos   token.Position
	Type      langtype.LangType
	Modifiers []Modifier
	IsFunction bool
}

// NewUnresolved constructs a symbol in the Unresolved state, the
// correct behavior at every use site (spec §9 Design Notes flags
// `Symbol.ofUnresolved` in the source as a bug that constructs a
// Resolved variant instead; this constructor does not repeat it).
func NewUnresolved(identifier string) *Symbol {
	return &Symbol{
		id:         atomic.AddInt64(&serial, 1),
		Identifier: identifier,
		resolution: Unresolved,
		Type:       langtype.Undefined(),
	}
}

// NewResolved constructs a symbol already in the Resolved state, used at
// declaration sites where the identifier is being bound, not referenced.
func NewResolved(identifier string, pos token.Position) *Symbol {
	return &Symbol{
		id:         atomic.AddInt64(&serial, 1),
		Identifier: identifier,
		resolution: Resolved,
		DeclPos:    pos,
		Type:       langtype.Undefined(),
	}
}

// ID returns the symbol's process-unique serial id.
func (s *Symbol) ID() int64 { return s.id }

// Resolution reports the symbol's current advisory status.
func (s *Symbol) Resolution() Resolution { return s.resolution }

// IsResolved is shorthand for Resolution() == Resolved.
func (s *Symbol) IsResolved() bool { return s.resolution == Resolved }

// Resolve promotes the symbol to Resolved, copying in declaration-site
// metadata discovered by the resolver. It is legal to call this on an
// already-resolved symbol (e.g. forward-declaration promotion, spec §9).
func (s *Symbol) Resolve(declPos token.Position, typ langtype.LangType, mods []Modifier, isFunction bool) {
	s.resolution = Resolved
	s.DeclPos = declPos
	s.Type = typ
	s.Modifiers = mods
	s.IsFunction = isFunction
}

// ForwardDeclare resets an already-declared symbol back to Unresolved
// with an Undefined type, keeping its identifier and declaration
// position intact (spec §9 Design Notes: cycle-break forward
// declaration, "type = Undefined + resolution = Unresolved"). Used by
// the resolver when breaking a namespace dependency cycle, so the
// chosen namespace's symbols can be safely referenced by the rest of
// its strongly-connected component before being revisited.
func (s *Symbol) ForwardDeclare() {
	s.resolution = Unresolved
	s.Type = langtype.Undefined()
}

// HasModifier reports whether the symbol carries the given modifier.
func (s *Symbol) HasModifier(m Modifier) bool {
	for _, mm := range s.Modifiers {
		if mm == m {
			return true
		}
	}
	return false
}

func (s *Symbol) String() string {
	return fmt.Sprintf("<symbol %q[%d]:%s:%s>", s.Identifier, s.id, s.resolution, s.Type)
}
