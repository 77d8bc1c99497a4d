/*
Package langtype implements LangType, the closed sum of surface-language
types (spec §3 LangType). It is a sealed hierarchy in the sense of
spec §9's design notes: a tagged union with a Kind discriminator and
exhaustive switch dispatch, not a subclass/virtual-dispatch hierarchy.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022–2026 dhickel

*/
package langtype

import "strings"

// Kind discriminates the LangType sum.
type Kind int

const (
	KindUndefined Kind = iota
	KindPrimitive
	KindUserType
	KindFunction
	KindArray
	KindTuple
	KindString
	KindQuote
)

// Primitive enumerates the primitive LangType payloads.
type Primitive int

const (
	I8 Primitive = iota
	I16
	I32
	I64
	F32
	F64
	Bool
	NilType
)

var primitiveNames = map[Primitive]string{
	I8: "I8", I16: "I16", I32: "I32", I64: "I64",
	F32: "F32", F64: "F64", Bool: "Bool", NilType: "Nil",
}

func (p Primitive) String() string { return primitiveNames[p] }

// primitiveTable maps identifier lexemes to primitives, used by the AST
// builder's type parser (spec §4.4: "case-sensitive match").
var primitiveTable = map[string]Primitive{
	"I8": I8, "I16": I16, "I32": I32, "I64": I64,
	"F32": F32, "F64": F64, "Bool": Bool, "Nil": NilType,
}

// LookupPrimitive resolves an identifier to a Primitive, if it names one.
func LookupPrimitive(name string) (Primitive, bool) {
	p, ok := primitiveTable[name]
	return p, ok
}

// LangType is the sum type. Exactly one group of fields is meaningful,
// selected by Kind — enforced by the constructors, not by the zero value.
type LangType struct {
	kind Kind

	primitive Primitive
	userType  string

	// Composite payloads.
	parameters []LangType // Function
	result     *LangType  // Function
	element    *LangType  // Array
	members    []LangType // Tuple
}

// Undefined is the sentinel for "not yet resolved" (spec §3).
func Undefined() LangType { return LangType{kind: KindUndefined} }

// NewPrimitive constructs a primitive LangType.
func NewPrimitive(p Primitive) LangType { return LangType{kind: KindPrimitive, primitive: p} }

// NewUserType constructs a user-defined nominal type reference.
func NewUserType(name string) LangType { return LangType{kind: KindUserType, userType: name} }

// NewFunction constructs a function type from parameter types and a
// return type.
func NewFunction(params []LangType, ret LangType) LangType {
	return LangType{kind: KindFunction, parameters: params, result: &ret}
}

// NewArray constructs an array type over an element type.
func NewArray(elem LangType) LangType {
	return LangType{kind: KindArray, element: &elem}
}

// NewTuple constructs a tuple type from its member types.
func NewTuple(members []LangType) LangType {
	return LangType{kind: KindTuple, members: members}
}

// StringType is the built-in String composite type.
func StringType() LangType { return LangType{kind: KindString} }

// QuoteType is the built-in Quote composite type (reserved, spec §9).
func QuoteType() LangType { return LangType{kind: KindQuote} }

// Kind reports which payload is meaningful.
func (t LangType) Kind() Kind { return t.kind }

// IsUndefined reports whether this is the Undefined sentinel.
func (t LangType) IsUndefined() bool { return t.kind == KindUndefined }

// Primitive returns the primitive payload and whether one is present.
func (t LangType) Primitive() (Primitive, bool) {
	if t.kind != KindPrimitive {
		return 0, false
	}
	return t.primitive, true
}

// UserType returns the user type name and whether one is present.
func (t LangType) UserType() (string, bool) {
	if t.kind != KindUserType {
		return "", false
	}
	return t.userType, true
}

// Parameters returns a function type's parameter types.
func (t LangType) Parameters() []LangType {
	if t.kind != KindFunction {
		return nil
	}
	return t.parameters
}

// Result returns a function type's return type.
func (t LangType) Result() (LangType, bool) {
	if t.kind != KindFunction || t.result == nil {
		return LangType{}, false
	}
	return *t.result, true
}

// Element returns an array type's element type.
func (t LangType) Element() (LangType, bool) {
	if t.kind != KindArray || t.element == nil {
		return LangType{}, false
	}
	return *t.element, true
}

// Members returns a tuple type's member types.
func (t LangType) Members() []LangType {
	if t.kind != KindTuple {
		return nil
	}
	return t.members
}

// Equal reports structural equality between two LangTypes.
func (t LangType) Equal(other LangType) bool {
	if t.kind != other.kind {
		return false
	}
	switch t.kind {
	case KindUndefined, KindString, KindQuote:
		return true
	case KindPrimitive:
		return t.primitive == other.primitive
	case KindUserType:
		return t.userType == other.userType
	case KindFunction:
		if len(t.parameters) != len(other.parameters) {
			return false
		}
		for i := range t.parameters {
			if !t.parameters[i].Equal(other.parameters[i]) {
				return false
			}
		}
		if t.result == nil || other.result == nil {
			return t.result == other.result
		}
		return t.result.Equal(*other.result)
	case KindArray:
		if t.element == nil || other.element == nil {
			return t.element == other.element
		}
		return t.element.Equal(*other.element)
	case KindTuple:
		if len(t.members) != len(other.members) {
			return false
		}
		for i := range t.members {
			if !t.members[i].Equal(other.members[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (t LangType) String() string {
	switch t.kind {
	case KindUndefined:
		return "?"
	case KindPrimitive:
		return t.primitive.String()
	case KindUserType:
		return t.userType
	case KindString:
		return "String"
	case KindQuote:
		return "Quote"
	case KindFunction:
		parts := make([]string, len(t.parameters))
		for i, p := range t.parameters {
			parts[i] = p.String()
		}
		ret := "?"
		if t.result != nil {
			ret = t.result.String()
		}
		return "Fn<" + strings.Join(parts, " ") + "; " + ret + ">"
	case KindArray:
		elem := "?"
		if t.element != nil {
			elem = t.element.String()
		}
		return "Array<" + elem + ">"
	case KindTuple:
		parts := make([]string, len(t.members))
		for i, m := range t.members {
			parts[i] = m.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return "<invalid LangType>"
}

// IsNumeric reports whether t is one of the integer or float primitives.
func (t LangType) IsNumeric() bool {
	p, ok := t.Primitive()
	if !ok {
		return false
	}
	switch p {
	case I8, I16, I32, I64, F32, F64:
		return true
	}
	return false
}

// IsFloat reports whether t is a floating point primitive.
func (t LangType) IsFloat() bool {
	p, ok := t.Primitive()
	return ok && (p == F32 || p == F64)
}

// IsInteger reports whether t is an integer primitive.
func (t LangType) IsInteger() bool {
	p, ok := t.Primitive()
	return ok && (p == I8 || p == I16 || p == I32 || p == I64)
}

// numericWidth ranks integer/float primitives for widening rules
// (spec §4.7 Stage 2 Operator expression).
var numericWidth = map[Primitive]int{
	I8: 1, I16: 2, I32: 3, I64: 4, F32: 5, F64: 6,
}

// Wider returns the wider of two numeric primitive types, used when a
// binary operator mixes int and float operands (spec §4.7: "mixed
// int/float -> wider float").
func Wider(a, b LangType) (LangType, bool) {
	pa, oka := a.Primitive()
	pb, okb := b.Primitive()
	if !oka || !okb {
		return LangType{}, false
	}
	wa, wb := numericWidth[pa], numericWidth[pb]
	if wa >= wb {
		return a, true
	}
	return b, true
}

// IsSupertypeOf reports whether t is a supertype of other for the
// purposes of implicit conversion (spec §4.7 Type compatibility):
// currently this models only the numeric widening lattice, since the
// surface language has no nominal subtyping.
func (t LangType) IsSupertypeOf(other LangType) bool {
	if t.Equal(other) {
		return false
	}
	pt, okt := t.Primitive()
	po, oko := other.Primitive()
	if !okt || !oko {
		return false
	}
	if !numericKind(pt, true) || !numericKind(po, true) {
		return false
	}
	return numericWidth[pt] > numericWidth[po] && sameDomain(pt, po)
}

func numericKind(p Primitive, _ bool) bool {
	switch p {
	case I8, I16, I32, I64, F32, F64:
		return true
	}
	return false
}

// sameDomain reports whether widening from `from` to `to` is an implicit
// (same-domain or int->float) conversion rather than a narrowing one
// that spec §4.7 requires an explicit site for.
func sameDomain(to, from Primitive) bool {
	toFloat := to == F32 || to == F64
	fromFloat := from == F32 || from == F64
	if fromFloat && !toFloat {
		return false // float -> int is always narrowing
	}
	return true
}
