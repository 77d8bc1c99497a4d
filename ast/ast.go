/*
Package ast implements ASTNode, the typed syntax tree spec §3/§4.4
describes, and the AST builder that walks a gform.GForm tree,
re-consuming tokens from a cursor.Driver to attach source positions,
decode literal payloads, and build Symbol values.

ASTNode is a sealed hierarchy in the same sense as gform.GForm: marker
methods on unexported interface methods confine implementations to this
package; callers dispatch with exhaustive type switches.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022–2026 dhickel

*/
package ast

import (
	"github.com/dhickel/lyra-sub000/langtype"
	"github.com/dhickel/lyra-sub000/symbol"
	"github.com/dhickel/lyra-sub000/token"
)

// MetaData is the small interior-mutable cell spec §9 calls for: once an
// AST node is built its structure is read-only, but its type and
// resolution status are updated in place by the resolver without
// invalidating any parent reference to the node.
type MetaData struct {
	pos        token.Position
	langType   langtype.LangType
	resolution symbol.Resolution
}

// NewMetaData constructs metadata at a source position with an
// Undefined type and Unresolved status — the state every node starts
// in before the resolver runs (spec §4.4: "initializing type metadata
// to Undefined").
func NewMetaData(pos token.Position) MetaData {
	return MetaData{pos: pos, langType: langtype.Undefined(), resolution: symbol.Unresolved}
}

func (m *MetaData) Pos() token.Position           { return m.pos }
func (m *MetaData) Type() langtype.LangType        { return m.langType }
func (m *MetaData) SetType(t langtype.LangType)    { m.langType = t }
func (m *MetaData) Resolution() symbol.Resolution  { return m.resolution }
func (m *MetaData) SetResolution(r symbol.Resolution) { m.resolution = r }

// Node is the sealed sum of everything that may appear as a
// CompilationUnit member or block member: a Statement or an Expression.
type Node interface {
	node()
}

// Statement is the sealed sum of statement-level AST nodes.
type Statement interface {
	Node
	statement()
	Meta() *MetaData
}

// Expression is the sealed sum of expression-level AST nodes.
type Expression interface {
	Node
	expression()
	Meta() *MetaData
}

// CompilationUnit is the top-level container: source order of its
// members is preserved (spec §5 ordering guarantee), and each member is
// either a Statement or an Expression (spec §3 invariant).
type CompilationUnit struct {
	Nodes []Node
}

// --- Statement --------------------------------------------------------

// Let is a `let` declaration: the symbol is resolved (it is being
// declared), per spec §4.4's "declaration sites mark the symbol
// resolved" rule.
type Let struct {
	Sym       *symbol.Symbol
	Modifiers []symbol.Modifier
	Value     Expression
	meta      MetaData
}

func (*Let) node() {}
func (*Let) statement() {}
func (l *Let) Meta() *MetaData { return &l.meta }

// Assign is a `:=` reassignment: the symbol is unresolved at the use
// site until Stage 2 finds the declaration.
type Assign struct {
	Sym   *symbol.Symbol
	Value Expression
	meta  MetaData
}

func (*Assign) node() {}
func (*Assign) statement() {}
func (a *Assign) Meta() *MetaData { return &a.meta }

// Import is an `import` statement.
type Import struct {
	Path     string
	Alias    string
	HasAlias bool
	meta     MetaData
}

func (*Import) node() {}
func (*Import) statement() {}
func (i *Import) Meta() *MetaData { return &i.meta }

// --- Expression ---------------------------------------------------------

// BExpr is a block expression: `{ member* }`. A block with only
// statements and no trailing expression is valid (spec §8).
type BExpr struct {
	Members []Node
	// ScopeID is filled in by resolver Stage 1 with the scope id it
	// allocated for this block, so Stage 2 re-enters the same scope
	// rather than a fresh, empty one.
	ScopeID int
	meta    MetaData
}

func (*BExpr) node() {}
func (*BExpr) expression() {}
func (b *BExpr) Meta() *MetaData { return &b.meta }

// SExpr is an S-expression whose head was itself an expression (the
// callee), applied to a list of operand expressions.
type SExpr struct {
	Callee   Expression
	Operands []Expression
	meta     MetaData
}

func (*SExpr) node() {}
func (*SExpr) expression() {}
func (s *SExpr) Meta() *MetaData { return &s.meta }

// OExpr is an S-expression whose head was an operator token.
type OExpr struct {
	Op       Operation
	Operands []Expression
	meta     MetaData
}

func (*OExpr) node() {}
func (*OExpr) expression() {}
func (o *OExpr) Meta() *MetaData { return &o.meta }

// VExpr is a bare literal/identifier value expression.
type VExpr struct {
	Val  Value
	meta MetaData
}

func (*VExpr) node() {}
func (*VExpr) expression() {}
func (v *VExpr) Meta() *MetaData { return &v.meta }

// MExpr is a member-access expression: an optional namespace prefix
// followed by a non-empty access chain (spec §3 invariant).
type MExpr struct {
	NamespaceDepth int
	NamespacePath  []string
	AccessChain    []AccessType
	meta           MetaData
}

func (*MExpr) node() {}
func (*MExpr) expression() {}
func (m *MExpr) Meta() *MetaData { return &m.meta }

// LExpr is a lambda expression. IsBareLambdaForm records whether it
// arose from the bare `| … |` form vs. the full `(=> : T | … | body)`
// form (spec §3 invariant).
type LExpr struct {
	Parameters       []Parameter
	Body             Expression
	IsBareLambdaForm bool
	// ScopeID is filled in by resolver Stage 1, same role as BExpr's.
	ScopeID int
	meta    MetaData
}

func (*LExpr) node() {}
func (*LExpr) expression() {}
func (l *LExpr) Meta() *MetaData { return &l.meta }

// PExpr is a conditional S-expression: a predicate expression guarding
// a PredicateForm.
type PExpr struct {
	Predicate Expression
	Form      PredicateForm
	meta      MetaData
}

func (*PExpr) node() {}
func (*PExpr) expression() {}
func (p *PExpr) Meta() *MetaData { return &p.meta }

// PredicateForm is the `[-> then] [: else]` payload of a PExpr. Both
// arms are individually optional (nil when absent); spec §9 resolves
// the historical-draft ambiguity this way.
type PredicateForm struct {
	Then Expression
	Else Expression
	meta MetaData
}

func (*PredicateForm) node() {}
func (*PredicateForm) expression() {}
func (p *PredicateForm) Meta() *MetaData { return &p.meta }

func (p *PredicateForm) HasThen() bool { return p.Then != nil }
func (p *PredicateForm) HasElse() bool { return p.Else != nil }

// MatchExpr is a reserved placeholder (spec §9: "Reserved, not
// implemented"); the builder never produces a populated one — it is
// recognized and rejected earlier, in gform.MatchExpr.
type MatchExpr struct{ meta MetaData }

func (*MatchExpr) node() {}
func (*MatchExpr) expression() {}
func (m *MatchExpr) Meta() *MetaData { return &m.meta }

// IterExpr is a reserved placeholder, same status as MatchExpr.
type IterExpr struct{ meta MetaData }

func (*IterExpr) node() {}
func (*IterExpr) expression() {}
func (i *IterExpr) Meta() *MetaData { return &i.meta }

// --- Value --------------------------------------------------------------

// Value is the sealed sum of VExpr payloads.
type Value interface {
	value()
}

type BoolValue struct{ V bool }

func (BoolValue) value() {}

type I64Value struct{ V int64 }

func (I64Value) value() {}

type F64Value struct{ V float64 }

func (F64Value) value() {}

// IdentifierValue is a bare identifier reference; the symbol is
// unresolved until Stage 2 finds its declaration.
type IdentifierValue struct{ Sym *symbol.Symbol }

func (IdentifierValue) value() {}

type NilValue struct{}

func (NilValue) value() {}

// --- Operation ----------------------------------------------------------

// Operation is the closed enum mirroring the token operator set, plus
// Negate for unary minus (spec §3).
type Operation int

const (
	OpAdd Operation = iota
	OpSub
	OpMul
	OpDiv
	OpPow
	OpMod
	OpGreater
	OpLess
	OpIncr
	OpDecr
	OpGreaterEq
	OpLessEq
	OpNotEq
	OpEq
	OpAnd
	OpOr
	OpNor
	OpXor
	OpXnor
	OpNand
	OpNot
	OpNegate
)

var operationNames = map[Operation]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpPow: "^", OpMod: "%",
	OpGreater: ">", OpLess: "<", OpIncr: "++", OpDecr: "--",
	OpGreaterEq: ">=", OpLessEq: "<=", OpNotEq: "!=", OpEq: "==",
	OpAnd: "and", OpOr: "or", OpNor: "nor", OpXor: "xor", OpXnor: "xnor",
	OpNand: "nand", OpNot: "not", OpNegate: "negate",
}

func (o Operation) String() string { return operationNames[o] }

// operationFromTokenKind maps an operator token to its Operation. The
// caller is responsible for the Minus/Negate disambiguation (spec §3:
// "plus Negate") — a Minus head applied to exactly one operand is
// unary negation, not subtraction.
var operationFromTokenKind = map[token.Kind]Operation{
	token.Plus: OpAdd, token.Minus: OpSub, token.Star: OpMul, token.Slash: OpDiv,
	token.Caret: OpPow, token.Percent: OpMod,
	token.Greater: OpGreater, token.Less: OpLess,
	token.PlusPlus: OpIncr, token.MinusMinus: OpDecr,
	token.GreaterEq: OpGreaterEq, token.LessEq: OpLessEq,
	token.NotEq: OpNotEq, token.EqEq: OpEq,
	token.And: OpAnd, token.Or: OpOr, token.Nor: OpNor, token.Xor: OpXor,
	token.Xnor: OpXnor, token.Nand: OpNand, token.Not: OpNot,
}

// --- Modifier (reuse symbol.Modifier) ------------------------------

// Argument is one call argument.
type Argument struct {
	Modifiers  []symbol.Modifier
	Expression Expression
}

// Parameter is one lambda parameter.
type Parameter struct {
	Modifiers []symbol.Modifier
	Sym       *symbol.Symbol
	Type      langtype.LangType
}

// --- AccessType -----------------------------------------------------

// AccessType is the sealed sum of access-chain elements. The gform
// package's grammar-shape Access sum is a distinct type under the same
// name, one level earlier in the pipeline.
type AccessType interface {
	accessType()
}

// AccessNamespace marks a namespace-path hop (spec glossary: F-expression).
type AccessNamespace struct{ Sym *symbol.Symbol }

func (AccessNamespace) accessType() {}

// AccessIdentifier is `:. Identifier`, a field access — also used for
// the access chain's mandatory bare head element (see SPEC_FULL.md §6
// item 5, the FExpr base-identifier resolution).
type AccessIdentifier struct{ Sym *symbol.Symbol }

func (AccessIdentifier) accessType() {}

// AccessFunctionCall is `:: Identifier [ args ]`.
type AccessFunctionCall struct {
	Sym       *symbol.Symbol
	Arguments []Argument
}

func (AccessFunctionCall) accessType() {}

// AccessFunctionAccess is `:: Identifier` with no argument list — an
// identity reference to a function. If present in a chain it is
// terminal (spec §3 invariant).
type AccessFunctionAccess struct{ Sym *symbol.Symbol }

func (AccessFunctionAccess) accessType() {}

// AccessTypeRef is a static/type-level access; if present it is the
// sole element of its chain (spec §3 invariant).
type AccessTypeRef struct{ Sym *symbol.Symbol }

func (AccessTypeRef) accessType() {}
