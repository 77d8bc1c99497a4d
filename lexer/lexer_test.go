package lexer

import (
	"testing"

	"github.com/dhickel/lyra-sub000/token"
)

func mustLex(t *testing.T, src string) []token.Token {
	t.Helper()
	r := Lex(src)
	toks, err := r.Unwrap()
	if err != nil {
		t.Fatalf("Lex(%q) failed: %v", src, err)
	}
	return toks
}

func TestEmptySourceIsJustEOF(t *testing.T) {
	toks := mustLex(t, "")
	if len(toks) != 1 || toks[0].Kind != token.EOF {
		t.Fatalf("expected single EOF token, got %v", toks)
	}
}

func TestMinusAloneIsOperator(t *testing.T) {
	toks := mustLex(t, "-")
	if len(toks) != 2 || toks[0].Kind != token.Minus {
		t.Fatalf("expected [Minus EOF], got %v", toks)
	}
}

func TestTrailingDotFloat(t *testing.T) {
	toks := mustLex(t, "3.")
	if len(toks) != 2 || toks[0].Kind != token.Float {
		t.Fatalf("expected [Float EOF], got %v", toks)
	}
	f, ok := toks[0].Payload.AsFloat()
	if !ok || f != 3.0 {
		t.Fatalf("expected float value 3.0, got %v (ok=%v)", f, ok)
	}
}

func TestNegativeNumberIsLexedAsOneToken(t *testing.T) {
	toks := mustLex(t, "-12")
	if len(toks) != 2 || toks[0].Kind != token.Int {
		t.Fatalf("expected [Int EOF], got %v", toks)
	}
	i, ok := toks[0].Payload.AsInt()
	if !ok || i != -12 {
		t.Fatalf("expected -12, got %v", i)
	}
}

func TestTwoCharTokensWinOverSingleChar(t *testing.T) {
	toks := mustLex(t, ":= :: :. ->")
	want := []token.Kind{token.ColonAssign, token.ColonColon, token.ColonDot, token.Arrow, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(toks), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: expected %s, got %s", i, k, toks[i].Kind)
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks := mustLex(t, "let x = func")
	want := []token.Kind{token.Let, token.Identifier, token.Assign, token.Func, token.EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: expected %s, got %s", i, k, toks[i].Kind)
		}
	}
	name, ok := toks[1].Payload.AsString()
	if !ok || name != "x" {
		t.Errorf("expected identifier payload 'x', got %q", name)
	}
}

func TestTwoLetterLogicOperatorOrIsRecognized(t *testing.T) {
	// "or" is only two letters long but is one of the multi-letter
	// operator words, so it must lex as Or, not as an Identifier
	// (spec §4.1 step 6).
	toks := mustLex(t, "or")
	if toks[0].Kind != token.Or {
		t.Fatalf("expected 'or' (len 2) to lex as Or, got %s", toks[0].Kind)
	}
}

func TestLogicOperatorWords(t *testing.T) {
	toks := mustLex(t, "and or nor xor xnor nand not")
	want := []token.Kind{token.And, token.Or, token.Nor, token.Xor, token.Xnor, token.Nand, token.Not, token.EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: expected %s, got %s", i, k, toks[i].Kind)
		}
	}
}

func TestHashLiterals(t *testing.T) {
	toks := mustLex(t, "#T #F #NIL")
	want := []token.Kind{token.True, token.False, token.Nil, token.EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: expected %s, got %s", i, k, toks[i].Kind)
		}
	}
}

func TestCommaIsWhitespaceLike(t *testing.T) {
	toks := mustLex(t, "a, b")
	want := []token.Kind{token.Identifier, token.Identifier, token.EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: expected %s, got %s", i, k, toks[i].Kind)
		}
	}
}

func TestLineAndColumnTracking(t *testing.T) {
	toks := mustLex(t, "a\nb")
	if toks[0].Line != 1 {
		t.Errorf("expected 'a' on line 1, got %d", toks[0].Line)
	}
	if toks[1].Line != 2 {
		t.Errorf("expected 'b' on line 2, got %d", toks[1].Line)
	}
}

func TestUnrecognizedCharacterIsFatal(t *testing.T) {
	r := Lex("let x = #")
	if r.IsOk() {
		t.Fatalf("expected lex error for stray '#', got ok")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	src := "let x : I32 = 1"
	toks := mustLex(t, src)
	got := Serialize(toks)
	want := "let x : I32 = 1"
	if got != want {
		t.Errorf("round-trip mismatch: got %q, want %q", got, want)
	}
}

func TestModifierAmpersandSynonyms(t *testing.T) {
	toks := mustLex(t, "&mut &pub &const &opt")
	want := []token.Kind{token.ModMut, token.ModPub, token.ModConst, token.ModOpt, token.EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: expected %s, got %s", i, k, toks[i].Kind)
		}
	}
}
