package langtype

import "testing"

func TestLookupPrimitiveIsCaseSensitive(t *testing.T) {
	if _, ok := LookupPrimitive("i32"); ok {
		t.Errorf("expected lowercase 'i32' not to match a primitive (spec §4.4: case-sensitive)")
	}
	p, ok := LookupPrimitive("I32")
	if !ok || p != I32 {
		t.Fatalf("expected I32 to resolve to the I32 primitive")
	}
}

func TestEqualStructural(t *testing.T) {
	a := NewFunction([]LangType{NewPrimitive(I32)}, NewPrimitive(Bool))
	b := NewFunction([]LangType{NewPrimitive(I32)}, NewPrimitive(Bool))
	if !a.Equal(b) {
		t.Errorf("expected structurally identical function types to be Equal")
	}
	c := NewFunction([]LangType{NewPrimitive(I64)}, NewPrimitive(Bool))
	if a.Equal(c) {
		t.Errorf("expected a function type with a different parameter type not to be Equal")
	}
}

func TestWiderPicksWiderNumericType(t *testing.T) {
	w, ok := Wider(NewPrimitive(I32), NewPrimitive(F64))
	if !ok {
		t.Fatalf("expected Wider to succeed for two numeric primitives")
	}
	if w.Equal(NewPrimitive(F64)) == false {
		t.Errorf("expected mixed int/float to widen to F64, got %s", w)
	}
}

func TestIsSupertypeOfOnlyWidensSameDomain(t *testing.T) {
	if !NewPrimitive(I64).IsSupertypeOf(NewPrimitive(I32)) {
		t.Errorf("expected I64 to be a supertype of I32 (widening)")
	}
	if NewPrimitive(I32).IsSupertypeOf(NewPrimitive(I64)) {
		t.Errorf("expected I32 not to be a supertype of I64 (narrowing)")
	}
	if NewPrimitive(I64).IsSupertypeOf(NewPrimitive(F32)) {
		t.Errorf("expected float -> int never to count as a (implicit) supertype relation")
	}
}

func TestStringRendersNestedFunctionType(t *testing.T) {
	inner := NewFunction([]LangType{NewPrimitive(I32)}, NewPrimitive(I32))
	outer := NewFunction([]LangType{NewPrimitive(I32)}, inner)
	want := "Fn<I32; Fn<I32; I32>>"
	if got := outer.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestUndefinedIsDistinctSentinel(t *testing.T) {
	u := Undefined()
	if !u.IsUndefined() {
		t.Errorf("expected Undefined() to report IsUndefined")
	}
	if u.Equal(NewPrimitive(I32)) {
		t.Errorf("expected Undefined not to Equal any concrete type")
	}
}
