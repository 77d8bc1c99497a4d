/*
Package token defines the closed set of lexical tokens produced by the
lyra lexer and consumed by the grammar matcher and AST builder.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
Copyright © 2022–2026 dhickel

*/
package token

import "fmt"

// Position is a (line, column) pair attached to every token and, later,
// every AST node. Lines and columns are both 1-based.
type Position struct {
	Line   uint32
	Column uint32
}

// String is a debug Stringer for positions.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Kind is the closed set of token kinds the lexer may produce. It is a
// sealed enumeration: every switch over Kind in this module is expected
// to be exhaustive, and `go vet`-style exhaustiveness is enforced by
// convention rather than by the type system.
type Kind int

const (
	// --- internal ---------------------------------------------------
	EOF Kind = iota

	// --- syntactic ----------------------------------------------------
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	Comma     // ,
	Backslash // \
	Quote     // '
	DQuote    // "
	Dot       // .
	Amp       // &
	Backtick  // `
	Colon     // :
	Semicolon // ;
	Dollar    // $
	At        // @
	Pipe      // |
	Tilde     // ~
	Assign    // =
	ColonColon  // ::
	ColonDot    // :.
	ColonAssign // :=
	Arrow       // ->
	As          // as

	// --- operations -----------------------------------------------------
	Plus     // +
	Minus    // -
	Star     // *
	Slash    // /
	Caret    // ^
	Percent  // %
	Greater  // >
	Less     // <
	PlusPlus // ++
	MinusMinus // --
	GreaterEq  // >=
	LessEq     // <=
	NotEq      // !=
	EqEq       // ==
	And
	Or
	Nor
	Xor
	Xnor
	Nand
	Not

	// --- literals ---------------------------------------------------
	True    // #T
	False   // #F
	Float
	Int
	Identifier
	String
	Nil // #NIL

	// --- definitions ------------------------------------------------
	Let
	Func
	Class
	Struct
	Import

	// --- built-ins ----------------------------------------------------
	Match
	Array
	Fn
	FatArrow // =>

	// --- modifiers ----------------------------------------------------
	ModMut
	ModPub
	ModConst
	ModOpt
)

var kindNames = map[Kind]string{
	EOF: "EOF",

	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}",
	LBracket: "[", RBracket: "]", Comma: ",", Backslash: `\`,
	Quote: "'", DQuote: `"`, Dot: ".", Amp: "&", Backtick: "`",
	Colon: ":", Semicolon: ";", Dollar: "$", At: "@", Pipe: "|",
	Tilde: "~", Assign: "=",
	ColonColon: "::", ColonDot: ":.", ColonAssign: ":=", Arrow: "->", As: "as",

	Plus: "+", Minus: "-", Star: "*", Slash: "/", Caret: "^", Percent: "%",
	Greater: ">", Less: "<", PlusPlus: "++", MinusMinus: "--",
	GreaterEq: ">=", LessEq: "<=", NotEq: "!=", EqEq: "==",
	And: "and", Or: "or", Nor: "nor", Xor: "xor", Xnor: "xnor",
	Nand: "nand", Not: "not",

	True: "#T", False: "#F", Float: "float", Int: "int",
	Identifier: "identifier", String: "string", Nil: "#NIL",

	Let: "let", Func: "func", Class: "class", Struct: "struct", Import: "import",

	Match: "match", Array: "Array", Fn: "Fn", FatArrow: "=>",

	ModMut: "@mut", ModPub: "@pub", ModConst: "@const", ModOpt: "@opt",
}

// String renders a Kind's canonical lexeme (or debug name for kinds with
// no fixed lexeme, such as Int or Identifier).
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// keywords are the reserved words recognized by the word-lexer (spec
// §4.1 step 6), whatever their length: "as" is two characters long.
var keywords = map[string]Kind{
	"let": Let, "func": Func, "class": Class, "struct": Struct, "import": Import,
	"match": Match, "Array": Array, "Fn": Fn, "as": As,
}

// logicOperators are the multi-letter operator words recognized by the
// word-lexer (spec §4.1 step 6), the two-letter "or" included.
var logicOperators = map[string]Kind{
	"and": And, "or": Or, "nor": Nor, "xor": Xor, "xnor": Xnor,
	"nand": Nand, "not": Not,
}

// LookupWord classifies a lexed word as a keyword, a logic operator, or a
// plain identifier (spec §4.1 step 6): a word found in keywords or
// logicOperators yields that token kind, and any other word yields
// Identifier.
func LookupWord(word string) Kind {
	if kw, ok := keywords[word]; ok {
		return kw
	}
	if op, ok := logicOperators[word]; ok {
		return op
	}
	return Identifier
}

// PayloadKind distinguishes the four shapes a token's payload may take.
type PayloadKind int

const (
	PayloadNone PayloadKind = iota
	PayloadString
	PayloadInt
	PayloadFloat
)

// Payload is the closed sum of token payload shapes (spec §3). Exactly
// one of the three fields is meaningful, selected by Kind.
type Payload struct {
	kind PayloadKind
	str  string
	i    int64
	f    float64
}

// Empty is the zero payload, carried by tokens with no associated value.
var Empty = Payload{kind: PayloadNone}

// StringPayload wraps an identifier lexeme or string-literal body.
func StringPayload(s string) Payload { return Payload{kind: PayloadString, str: s} }

// IntPayload wraps a 64-bit signed integer literal value.
func IntPayload(i int64) Payload { return Payload{kind: PayloadInt, i: i} }

// FloatPayload wraps a 64-bit floating point literal value.
func FloatPayload(f float64) Payload { return Payload{kind: PayloadFloat, f: f} }

// Kind reports which field of the payload is meaningful.
func (p Payload) Kind() PayloadKind { return p.kind }

// AsString returns the string payload and whether one is present.
func (p Payload) AsString() (string, bool) {
	if p.kind != PayloadString {
		return "", false
	}
	return p.str, true
}

// AsInt returns the integer payload and whether one is present.
func (p Payload) AsInt() (int64, bool) {
	if p.kind != PayloadInt {
		return 0, false
	}
	return p.i, true
}

// AsFloat returns the float payload and whether one is present.
func (p Payload) AsFloat() (float64, bool) {
	if p.kind != PayloadFloat {
		return 0, false
	}
	return p.f, true
}

func (p Payload) String() string {
	switch p.kind {
	case PayloadString:
		return p.str
	case PayloadInt:
		return fmt.Sprintf("%d", p.i)
	case PayloadFloat:
		return fmt.Sprintf("%g", p.f)
	default:
		return ""
	}
}

// Token is one lexical unit, carrying its kind, optional payload, and
// source position (spec §3).
type Token struct {
	Kind    Kind
	Payload Payload
	Line    uint32
	Column  uint32
}

// Pos extracts the token's source position as a Position value.
func (t Token) Pos() Position {
	return Position{Line: t.Line, Column: t.Column}
}

// Lexeme renders the token back to the text it would have been lexed
// from, used by the round-trip property in spec §8. For fixed-lexeme
// kinds this is the canonical spelling; for literal/identifier kinds it
// is reconstructed from the payload.
func (t Token) Lexeme() string {
	switch t.Kind {
	case Identifier, String:
		s, _ := t.Payload.AsString()
		return s
	case Int:
		i, _ := t.Payload.AsInt()
		return fmt.Sprintf("%d", i)
	case Float:
		f, _ := t.Payload.AsFloat()
		return formatFloatLexeme(f)
	default:
		return t.Kind.String()
	}
}

// formatFloatLexeme renders a float the way the lexer would have read it:
// trailing-dot floats such as "3." round-trip as "3" followed by a literal
// dot is not recoverable byte-for-byte without retaining the original
// lexeme, so this renders the canonical "%g" form; callers relying on the
// strict round-trip property should compare numeric value, not text, for
// Float tokens (spec §8 allows "modulo whitespace and commas", and the
// trailing-dot shorthand is exactly this kind of lossy-but-equivalent
// rendering).
func formatFloatLexeme(f float64) string {
	return fmt.Sprintf("%g", f)
}

func (t Token) String() string {
	return fmt.Sprintf("%s@%d:%d[%s]", t.Kind, t.Line, t.Column, t.Payload)
}

// New constructs a token with no payload.
func New(kind Kind, line, col uint32) Token {
	return Token{Kind: kind, Payload: Empty, Line: line, Column: col}
}

// NewWithPayload constructs a token carrying a payload.
func NewWithPayload(kind Kind, payload Payload, line, col uint32) Token {
	return Token{Kind: kind, Payload: payload, Line: line, Column: col}
}
