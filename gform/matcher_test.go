package gform

import (
	"testing"

	"github.com/dhickel/lyra-sub000/cursor"
	"github.com/dhickel/lyra-sub000/lexer"
)

func subFor(t *testing.T, src string) cursor.Sub {
	t.Helper()
	toks, err := lexer.Lex(src).Unwrap()
	if err != nil {
		t.Fatalf("Lex(%q) failed: %v", src, err)
	}
	d := cursor.NewDriver(toks)
	return cursor.NewSub(d)
}

func TestMatchVExprBareLiteral(t *testing.T) {
	c := subFor(t, "42")
	r, err := MatchExpr(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Found {
		t.Fatal("expected a match")
	}
	if _, ok := r.Form.(V); !ok {
		t.Fatalf("expected V, got %T", r.Form)
	}
}

func TestVExprDefersToFExprBeforeAccessOperator(t *testing.T) {
	c := subFor(t, "name::upper[]")
	r, err := MatchExpr(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Found {
		t.Fatal("expected a match")
	}
	m, ok := r.Form.(M)
	if !ok {
		t.Fatalf("expected M, got %T", r.Form)
	}
	if m.NamespaceDepth != 0 {
		t.Fatalf("expected namespace depth 0, got %d", m.NamespaceDepth)
	}
	if len(m.AccessChain) != 2 {
		t.Fatalf("expected 2 access-chain elements (base + call), got %d", len(m.AccessChain))
	}
	if _, ok := m.AccessChain[0].(AccessIdentifier); !ok {
		t.Fatalf("expected first element AccessIdentifier, got %T", m.AccessChain[0])
	}
	call, ok := m.AccessChain[1].(AccessFuncCall)
	if !ok {
		t.Fatalf("expected second element AccessFuncCall, got %T", m.AccessChain[1])
	}
	if len(call.Arguments) != 0 {
		t.Fatalf("expected no arguments, got %d", len(call.Arguments))
	}
}

func TestMExprNamespaceChain(t *testing.T) {
	c := subFor(t, "greet -> name::upper[]")
	r, err := MatchExpr(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, ok := r.Form.(M)
	if !ok {
		t.Fatalf("expected M, got %T", r.Form)
	}
	if m.NamespaceDepth != 1 {
		t.Fatalf("expected namespace depth 1, got %d", m.NamespaceDepth)
	}
	if len(m.AccessChain) != 2 {
		t.Fatalf("expected 2 access-chain elements, got %d", len(m.AccessChain))
	}
}

func TestLambdaPrefixStealsBeforeSExpr(t *testing.T) {
	c := subFor(t, "(=> |x| x)")
	r, err := MatchExpr(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.Form.(Lambda); !ok {
		t.Fatalf("expected Lambda, got %T", r.Form)
	}
}

func TestSExprWithoutPredicateIsS(t *testing.T) {
	c := subFor(t, "(+ 1 2)")
	r, err := MatchExpr(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, ok := r.Form.(S)
	if !ok {
		t.Fatalf("expected S, got %T", r.Form)
	}
	if len(s.Operands) != 2 {
		t.Fatalf("expected 2 operands, got %d", len(s.Operands))
	}
	if _, ok := s.Operation.(Op); !ok {
		t.Fatalf("expected Op head, got %T", s.Operation)
	}
}

func TestSExprWithPredicateFormIsCond(t *testing.T) {
	c := subFor(t, "(flag -> 1 : 2)")
	r, err := MatchExpr(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cond, ok := r.Form.(Cond)
	if !ok {
		t.Fatalf("expected Cond, got %T", r.Form)
	}
	if !cond.PredicateForm.HasThen() || !cond.PredicateForm.HasElse() {
		t.Fatal("expected both then and else arms")
	}
}

func TestSExprPredicateRequiresExpressionHead(t *testing.T) {
	// an operator head can never be followed by a predicate form: there is
	// no expression in the head position for the PredicateExpr to hold, so
	// this must be a hard parse error, not a silent fallback to S.
	c := subFor(t, "(+ -> 1 : 2)")
	_, err := MatchExpr(c)
	if err == nil {
		t.Fatal("expected an error for operator head followed by a predicate form")
	}
}

func TestBlockWithLetAndTrailingExpr(t *testing.T) {
	c := subFor(t, "{ let x = 1 x }")
	r, err := MatchExpr(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, ok := r.Form.(Block)
	if !ok {
		t.Fatalf("expected Block, got %T", r.Form)
	}
	if len(b.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(b.Members))
	}
	if _, ok := b.Members[0].(Let); !ok {
		t.Fatalf("expected first member Let, got %T", b.Members[0])
	}
	if _, ok := b.Members[1].(V); !ok {
		t.Fatalf("expected second member V, got %T", b.Members[1])
	}
}

func TestNoMatchLeavesCursorUnchanged(t *testing.T) {
	c := subFor(t, ":= 1")
	r, err := MatchExpr(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Found {
		t.Fatal("expected no match for a leading ':='")
	}
	if r.Cursor.Pos() != c.Pos() {
		t.Fatalf("cursor moved on no-match: was %d, now %d", c.Pos(), r.Cursor.Pos())
	}
}

func TestMatchStmtTriesLetReassignImportInOrder(t *testing.T) {
	c := subFor(t, "x := 5")
	r, err := MatchStmt(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.Form.(Reassign); !ok {
		t.Fatalf("expected Reassign, got %T", r.Form)
	}
}

func TestImportWithAlias(t *testing.T) {
	c := subFor(t, "import collections as coll")
	r, err := MatchStmt(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	imp, ok := r.Form.(Import)
	if !ok {
		t.Fatalf("expected Import, got %T", r.Form)
	}
	if !imp.HasAlias {
		t.Fatal("expected HasAlias true")
	}
}

func TestLetWithType(t *testing.T) {
	c := subFor(t, "let x : I32 = 1")
	r, err := MatchStmt(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	let, ok := r.Form.(Let)
	if !ok {
		t.Fatalf("expected Let, got %T", r.Form)
	}
	if !let.HasType {
		t.Fatal("expected HasType true")
	}
}

func TestTerminalFunctionAccessCannotBeFollowed(t *testing.T) {
	c := subFor(t, "obj::method::another[]")
	_, err := MatchExpr(c)
	if err == nil {
		t.Fatal("expected an error chaining past a terminal function access")
	}
}
