package errs

import (
	"strings"
	"testing"

	"github.com/dhickel/lyra-sub000/token"
)

func TestUndefinedSymbolErrorOmitsSuggestionsWhenEmpty(t *testing.T) {
	e := &UndefinedSymbol{Name: "foo", Pos: token.Position{Line: 1, Column: 1}}
	if strings.Contains(e.Error(), "did you mean") {
		t.Errorf("expected no suggestion clause when Suggestions is empty, got %q", e.Error())
	}
}

func TestUndefinedSymbolErrorListsSuggestions(t *testing.T) {
	e := &UndefinedSymbol{Name: "cnt", Pos: token.Position{Line: 1, Column: 1}, Suggestions: []string{"count", "cent"}}
	got := e.Error()
	if !strings.Contains(got, "count") || !strings.Contains(got, "cent") {
		t.Errorf("expected both suggestions in the error message, got %q", got)
	}
}

func TestAccessibilityViolationKindString(t *testing.T) {
	cases := []struct {
		kind AccessibilityViolationKind
		want string
	}{
		{NotPublic, "not declared @pub"},
		{NotMutable, "not declared @mut"},
		{ReassignParameter, "parameters cannot be reassigned"},
	}
	for _, c := range cases {
		e := &AccessibilityViolation{Symbol: "x", Kind: c.kind}
		if !strings.Contains(e.Error(), c.want) {
			t.Errorf("kind %v: expected %q in %q", c.kind, c.want, e.Error())
		}
	}
}

func TestCircularDependencyErrorJoinsCycle(t *testing.T) {
	e := &CircularDependency{Cycle: []string{"main.a", "main.b", "main.a"}}
	got := e.Error()
	if !strings.Contains(got, "main.a -> main.b -> main.a") {
		t.Errorf("expected cycle path joined with ' -> ', got %q", got)
	}
}

func TestEveryVariantSatisfiesDiagnostic(t *testing.T) {
	var diags []Diagnostic
	diags = append(diags,
		&LexError{},
		&ParseError{},
		&InvalidGrammarError{},
		&InternalError{},
		&IoError{},
		&UndefinedSymbol{},
		&DuplicateSymbol{},
		&CircularDependency{},
		&UnresolvedImport{},
		&TypeMismatch{},
		&AccessibilityViolation{},
		&ScopeViolation{},
	)
	for _, d := range diags {
		if d.Error() == "" {
			t.Errorf("%T: expected a non-empty Error() message", d)
		}
		if d.Report() == "" {
			t.Errorf("%T: expected a non-empty Report() message", d)
		}
	}
}

func TestIoErrorUnwraps(t *testing.T) {
	inner := &InternalError{Message: "disk on fire"}
	e := &IoError{Path: "main.foo", Err: inner}
	if e.Unwrap() != inner {
		t.Errorf("expected Unwrap to return the wrapped error")
	}
}
