package symbol

import (
	"testing"

	"github.com/dhickel/lyra-sub000/langtype"
	"github.com/dhickel/lyra-sub000/token"
)

func TestNewUnresolvedStartsUndefined(t *testing.T) {
	s := NewUnresolved("x")
	if s.IsResolved() {
		t.Errorf("expected a freshly constructed use-site symbol to be Unresolved")
	}
	if !s.Type.IsUndefined() {
		t.Errorf("expected an Unresolved symbol's Type to be Undefined")
	}
}

func TestResolvePromotesInPlace(t *testing.T) {
	s := NewUnresolved("x")
	s.Resolve(token.Position{Line: 1, Column: 1}, langtype.NewPrimitive(langtype.I32), []Modifier{Mutable}, false)
	if !s.IsResolved() {
		t.Errorf("expected Resolve to promote the symbol to Resolved")
	}
	if !s.HasModifier(Mutable) {
		t.Errorf("expected HasModifier(Mutable) after Resolve with that modifier")
	}
	if s.HasModifier(Public) {
		t.Errorf("expected HasModifier(Public) to be false when only Mutable was set")
	}
}

func TestForwardDeclareResetsToUnresolved(t *testing.T) {
	s := NewResolved("x", token.Position{Line: 2, Column: 3})
	s.Resolve(token.Position{Line: 2, Column: 3}, langtype.NewPrimitive(langtype.Bool), nil, false)
	s.ForwardDeclare()
	if s.IsResolved() {
		t.Errorf("expected ForwardDeclare to reset resolution to Unresolved")
	}
	if !s.Type.IsUndefined() {
		t.Errorf("expected ForwardDeclare to reset Type to Undefined")
	}
	if s.DeclPos.Line != 2 || s.DeclPos.Column != 3 {
		t.Errorf("expected ForwardDeclare to keep the declaration position intact")
	}
}

func TestEachSymbolGetsADistinctID(t *testing.T) {
	a := NewUnresolved("a")
	b := NewUnresolved("b")
	if a.ID() == b.ID() {
		t.Errorf("expected distinct symbols to carry distinct serial ids")
	}
}
