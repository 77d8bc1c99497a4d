/*
Package gform implements GForm, the raw untyped grammar-pattern tree of
spec §4.3/§3: it records *what* syntactic shape was matched — with
counts and booleans — but binds no identifiers and carries no token
text. The AST builder (package ast) re-consumes the original token
stream under a GForm tree's guidance to produce the typed AST.

GForm is a sealed hierarchy in the sense of spec §9's design notes: each
variant is its own Go type implementing an unexported marker method, so
no type outside this package can extend the sum, and callers dispatch
with an exhaustive type switch rather than virtual methods.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022–2026 dhickel

*/
package gform

// GForm is the sealed sum of grammar forms. Every concrete type in this
// file implements it via the unexported gform() marker method.
type GForm interface {
	gform()
}

// --- Stmt -----------------------------------------------------------

// Let is the grammar shape of `let { Modifier } Identifier [ : Type ] = Expr`.
type Let struct {
	HasType       bool
	ModifierCount int
	Expr          GForm
}

func (Let) gform() {}

// Reassign is the grammar shape of `Identifier := Expr`.
type Reassign struct {
	Expr GForm
}

func (Reassign) gform() {}

// Import is the grammar shape of `import Identifier [ as Identifier ]`.
type Import struct {
	HasAlias bool
}

func (Import) gform() {}

// --- Expr -------------------------------------------------------------

// S is an S-expression operator application: `( Operator Expr* )` or
// `( Expr Expr* )` where the head was itself an expression.
type S struct {
	Operation GForm // an Operation: ExprOp or Op
	Operands  []GForm
}

func (S) gform() {}

// V is a bare literal or identifier value expression. The matched token
// itself is consumed later by the AST builder; V carries no payload.
type V struct{}

func (V) gform() {}

// M is a member-access form: an optional namespace chain followed by an
// access chain (spec calls the data-model node MExpr; the grammar
// production is named FExpr, hence the M/F naming split between the
// grammar matcher and the AST).
type M struct {
	NamespaceDepth int
	AccessChain    []Access
}

func (M) gform() {}

// Block is `{ member* }`, each member itself an Expr or Stmt GForm.
type Block struct {
	Members []GForm
}

func (Block) gform() {}

// Cond is an S-expression recognized as a conditional: the operand
// position held an expression (not an operator) and at least one arm of
// the trailing PredicateForm was present.
type Cond struct {
	PredicateExpr GForm
	PredicateForm PForm
}

func (Cond) gform() {}

// Lambda is `( => [ : Type ] LambdaForm )`.
type Lambda struct {
	HasType bool
	Form    GForm // always a LambdaForm
}

func (Lambda) gform() {}

// LambdaForm is the bare `| Parameter* | Expr` form, also embedded
// inside Lambda.
type LambdaForm struct {
	Parameters []Param
	Expr       GForm
}

func (LambdaForm) gform() {}

// Match is a reserved placeholder (spec §9: "Reserved, not
// implemented"). It carries no shape; the matcher never produces one —
// MatchExpr reports an InvalidGrammarError on a leading `match` token
// rather than returning a populated Match value.
type Match struct{}

func (Match) gform() {}

// Iter is a reserved placeholder with no corresponding surface token in
// the current token set (spec §3 TokenKind), and so is never produced
// by the matcher (spec §9: "Reserved, not implemented").
type Iter struct{}

func (Iter) gform() {}

// --- Operation ----------------------------------------------------------

// ExprOp wraps an S-expression head that was itself an expression
// (rather than an operator token), per the SExpr grammar rule's
// `( Operator | Expr )` alternation.
type ExprOp struct {
	Expr GForm
}

func (ExprOp) gform() {}

// Op marks an S-expression head that was an operator token; the
// operator token itself is consumed later by the AST builder.
type Op struct{}

func (Op) gform() {}

// --- Access ---------------------------------------------------------

// Access is the sealed sum of access-chain elements.
type Access interface {
	access()
}

// AccessIdentifier is `:. Identifier`, a field access.
type AccessIdentifier struct{}

func (AccessIdentifier) access() {}

// AccessFuncCall is `:: Identifier [ args ]`, a function call.
type AccessFuncCall struct {
	Arguments []Arg
}

func (AccessFuncCall) access() {}

// AccessFunctionAccess is `:: Identifier` with no trailing argument
// list — an identity reference to a function rather than a call.
type AccessFunctionAccess struct{}

func (AccessFunctionAccess) access() {}

// AccessType is a static/type-level access; if present it must be the
// sole element of its AccessChain (spec §3 invariant).
type AccessType struct{}

func (AccessType) access() {}

// --- Support ----------------------------------------------------------

// Arg is one call argument: its modifier count and its value GForm.
type Arg struct {
	ModifierCount int
	Expr          GForm
}

// Param is one lambda/function parameter: its modifier count and
// whether it carries a `: Type` annotation.
type Param struct {
	ModifierCount int
	HasType       bool
}

// PForm is the `[ -> Expr ] [ : Expr ]` predicate-form payload of a
// conditional S-expression (spec §9 Design Notes: both arms are
// individually optional; at least one must be present for the
// enclosing S-expression to be a Cond rather than an S).
type PForm struct {
	Then GForm // nil if absent
	Else GForm // nil if absent
}

// HasThen reports whether the `-> Expr` arm was present.
func (p PForm) HasThen() bool { return p.Then != nil }

// HasElse reports whether the `: Expr` arm was present.
func (p PForm) HasElse() bool { return p.Else != nil }

// IsEmpty reports whether neither arm was present — in which case the
// enclosing S-expression is not a conditional at all (spec §4.3 tie-break).
func (p PForm) IsEmpty() bool { return p.Then == nil && p.Else == nil }
