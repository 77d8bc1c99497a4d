/*
Package lexer implements the single-pass, state-machine-driven lexer of
spec §4.1: source text in, an ordered token sequence out, ending in a
single EOF token.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022–2026 dhickel

*/
package lexer

import (
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"

	"github.com/dhickel/lyra-sub000/errs"
	"github.com/dhickel/lyra-sub000/result"
	"github.com/dhickel/lyra-sub000/token"
)

func tracer() tracing.Trace {
	return tracing.Select("lyra.lexer")
}

// twoCharTokens are tried before any single-character token, per spec
// §4.1 step 3: "match wins only if both characters agree."
var twoCharTokens = []struct {
	text string
	kind token.Kind
}{
	{"->", token.Arrow},
	{"::", token.ColonColon},
	{":.", token.ColonDot},
	{":=", token.ColonAssign},
	{"==", token.EqEq},
	{"!=", token.NotEq},
	{">=", token.GreaterEq},
	{"<=", token.LessEq},
	{"++", token.PlusPlus},
	{"--", token.MinusMinus},
	{"=>", token.FatArrow},
}

var singleCharTokens = map[byte]token.Kind{
	'(': token.LParen, ')': token.RParen,
	'{': token.LBrace, '}': token.RBrace,
	'[': token.LBracket, ']': token.RBracket,
	'\\': token.Backslash,
	'\'': token.Quote,
	'.':  token.Dot,
	'`':  token.Backtick,
	':':  token.Colon,
	';':  token.Semicolon,
	'$':  token.Dollar,
	'@':  token.At,
	'|':  token.Pipe,
	'~':  token.Tilde,
	'=':  token.Assign,
	'+':  token.Plus,
	'-':  token.Minus,
	'*':  token.Star,
	'/':  token.Slash,
	'^':  token.Caret,
	'%':  token.Percent,
	'>':  token.Greater,
	'<':  token.Less,
}

// modifierKeywords are the four modifier words. Lex recognizes them
// written directly as `@mut`/`@pub`/`@const`/`@opt` (the surface accessor
// table of spec §6); an `@` not followed by one of these words lexes as a
// plain At token. They are also recognized in "modifier mode", entered
// when `&` is seen (spec §4.1 step 4: "& enters modifier mode
// (reserved)"), so `&` is accepted as a synonym prefix for the same four
// words.
var modifierKeywords = map[string]token.Kind{
	"mut": token.ModMut, "pub": token.ModPub, "const": token.ModConst, "opt": token.ModOpt,
}

// state is an internal lexer cursor over the raw source bytes.
type state struct {
	src    string
	pos    int
	line   uint32
	column uint32
}

func (s *state) atEnd() bool { return s.pos >= len(s.src) }

func (s *state) peekByte() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.pos]
}

func (s *state) peekByteAt(off int) byte {
	if s.pos+off >= len(s.src) {
		return 0
	}
	return s.src[s.pos+off]
}

func (s *state) advance() byte {
	b := s.src[s.pos]
	s.pos++
	if b == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return b
}

// Lex tokenizes a source string per spec §4.1. The returned token stream
// always ends in a single EOF token (spec §3 invariants).
func Lex(src string) result.Result[[]token.Token] {
	s := &state{src: src, line: 1, column: 1}
	var toks []token.Token

	for {
		skipWhitespace(s)
		if s.atEnd() {
			break
		}

		if tok, matched := lexTwoChar(s); matched {
			toks = append(toks, tok)
			continue
		}

		b := s.peekByte()

		if b == '"' {
			tok, err := lexStringStub(s)
			if err != nil {
				return result.Err[[]token.Token](err)
			}
			toks = append(toks, tok)
			continue
		}

		if b == '&' {
			tok, err := lexModifierStub(s)
			if err != nil {
				return result.Err[[]token.Token](err)
			}
			toks = append(toks, tok)
			continue
		}

		if b == '-' && isNumericLead(s.peekByteAt(1)) {
			tok, err := lexNumber(s)
			if err != nil {
				return result.Err[[]token.Token](err)
			}
			toks = append(toks, tok)
			continue
		}

		if isDigit(b) || (b == '.' && isDigit(s.peekByteAt(1))) {
			tok, err := lexNumber(s)
			if err != nil {
				return result.Err[[]token.Token](err)
			}
			toks = append(toks, tok)
			continue
		}

		if b == '@' {
			end := s.pos + 1
			for end < len(s.src) && isWordPart(s.src[end]) {
				end++
			}
			if kind, ok := modifierKeywords[s.src[s.pos+1:end]]; ok {
				line, col := s.line, s.column
				for s.pos < end {
					s.advance()
				}
				toks = append(toks, token.New(kind, line, col))
				continue
			}
		}

		if kind, ok := singleCharTokens[b]; ok {
			line, col := s.line, s.column
			s.advance()
			toks = append(toks, token.New(kind, line, col))
			continue
		}

		if isWordStart(b) {
			toks = append(toks, lexWord(s))
			continue
		}

		if b == '#' {
			tok, err := lexHashLiteral(s)
			if err != nil {
				tracer().Errorf(err.Error())
				return result.Err[[]token.Token](err)
			}
			toks = append(toks, tok)
			continue
		}

		err := &errs.LexError{
			Pos:     token.Position{Line: s.line, Column: s.column},
			Message: "unrecognized character '" + string(b) + "'",
		}
		tracer().Errorf(err.Error())
		return result.Err[[]token.Token](err)
	}

	toks = append(toks, token.New(token.EOF, s.line, s.column))
	tracer().Debugf("lexed %d tokens", len(toks))
	return result.Ok(toks)
}

// skipWhitespace implements spec §4.1 steps 1–2: space/tab/CR/comma are
// whitespace-like and skipped; newlines additionally bump the line
// counter and reset the column.
func skipWhitespace(s *state) {
	for !s.atEnd() {
		switch s.peekByte() {
		case ' ', '\t', '\r', ',':
			s.advance()
		case '\n':
			s.advance()
		default:
			return
		}
	}
}

func lexTwoChar(s *state) (token.Token, bool) {
	if s.pos+1 >= len(s.src) {
		return token.Token{}, false
	}
	two := s.src[s.pos : s.pos+2]
	for _, cand := range twoCharTokens {
		if cand.text == two {
			line, col := s.line, s.column
			s.advance()
			s.advance()
			return token.New(cand.kind, line, col), true
		}
	}
	return token.Token{}, false
}

// lexStringStub is reserved behavior (spec §4.1 step 4, §9 "Reserved,
// not implemented"): string literals are parsed as placeholders until
// the surrounding work stabilizes. It consumes a well-formed `"..."`
// body so downstream stages see a single String token, and fails with a
// LexError on an unterminated string.
func lexStringStub(s *state) (token.Token, error) {
	line, col := s.line, s.column
	s.advance() // opening quote
	var sb strings.Builder
	for {
		if s.atEnd() {
			return token.Token{}, &errs.LexError{
				Pos:     token.Position{Line: line, Column: col},
				Message: "unterminated string literal",
			}
		}
		b := s.peekByte()
		if b == '"' {
			s.advance()
			break
		}
		sb.WriteByte(s.advance())
	}
	return token.NewWithPayload(token.String, token.StringPayload(sb.String()), line, col), nil
}

// lexModifierStub implements modifier mode (spec §4.1 step 4: "& enters
// modifier mode (reserved)"), recognizing `&mut`, `&pub`, `&const`,
// `&opt` as synonyms for the `@`-prefixed modifier tokens.
func lexModifierStub(s *state) (token.Token, error) {
	line, col := s.line, s.column
	s.advance() // '&'
	start := s.pos
	for !s.atEnd() && isWordPart(s.peekByte()) {
		s.advance()
	}
	word := s.src[start:s.pos]
	kind, ok := modifierKeywords[word]
	if !ok {
		return token.Token{}, &errs.LexError{
			Pos:     token.Position{Line: line, Column: col},
			Message: "unknown modifier '&" + word + "'",
		}
	}
	return token.New(kind, line, col), nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// isNumericLead reports whether b can follow a leading '-' to form the
// start of a number (spec §4.1 step 4: "`-` followed by a digit or `.`
// is delegated to the numeric lexer").
func isNumericLead(b byte) bool { return isDigit(b) || b == '.' }

// lexNumber implements spec §4.1 step 5: optional leading '-', optional
// leading '.', at least one digit required, at most one '.'.
func lexNumber(s *state) (token.Token, error) {
	line, col := s.line, s.column
	start := s.pos
	isFloat := false

	if s.peekByte() == '-' {
		s.advance()
	}
	if s.peekByte() == '.' {
		isFloat = true
		s.advance()
	}

	sawDigit := false
	for !s.atEnd() && isDigit(s.peekByte()) {
		sawDigit = true
		s.advance()
	}
	if !isFloat && sawDigit && s.peekByte() == '.' {
		// "3." is accepted and treated as 3.0 (spec §4.1 numeric edge cases).
		// At most one '.' — a second dot is never consumed.
		isFloat = true
		s.advance()
		for !s.atEnd() && isDigit(s.peekByte()) {
			s.advance()
		}
	}

	if !sawDigit {
		return token.Token{}, &errs.LexError{
			Pos:     token.Position{Line: line, Column: col},
			Message: "malformed numeric literal",
		}
	}

	text := s.src[start:s.pos]
	if isFloat {
		// "3." -> 3.0: ParseFloat handles the trailing-dot form natively.
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token.Token{}, &errs.LexError{
				Pos:     token.Position{Line: line, Column: col},
				Message: "malformed float literal '" + text + "'",
			}
		}
		return token.NewWithPayload(token.Float, token.FloatPayload(f), line, col), nil
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return token.Token{}, &errs.LexError{
			Pos:     token.Position{Line: line, Column: col},
			Message: "malformed integer literal '" + text + "'",
		}
	}
	return token.NewWithPayload(token.Int, token.IntPayload(i), line, col), nil
}

func isWordStart(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '_'
}

func isWordPart(b byte) bool {
	return isWordStart(b) || isDigit(b)
}

// lexWord implements spec §4.1 step 6: match [A-Za-z_][A-Za-z0-9_]*,
// then classify via token.LookupWord. The '#T'/'#F'/'#NIL' literals are
// dispatched separately by Lex via lexHashLiteral, since '#' is not a
// valid word-start byte.
func lexWord(s *state) token.Token {
	line, col := s.line, s.column
	start := s.pos
	for !s.atEnd() && isWordPart(s.peekByte()) {
		s.advance()
	}
	word := s.src[start:s.pos]
	kind := token.LookupWord(word)
	if kind == token.Identifier {
		return token.NewWithPayload(token.Identifier, token.StringPayload(word), line, col)
	}
	return token.New(kind, line, col)
}

// lexHashLiteral recognizes #T, #F, #NIL (spec §3 literal kinds); any
// other '#'-prefixed word is a LexError.
func lexHashLiteral(s *state) (token.Token, error) {
	line, col := s.line, s.column
	start := s.pos
	s.advance() // '#'
	for !s.atEnd() && isWordPart(s.peekByte()) {
		s.advance()
	}
	word := s.src[start:s.pos]
	switch word {
	case "#T":
		return token.New(token.True, line, col), nil
	case "#F":
		return token.New(token.False, line, col), nil
	case "#NIL":
		return token.New(token.Nil, line, col), nil
	default:
		return token.Token{}, &errs.LexError{
			Pos:     token.Position{Line: line, Column: col},
			Message: "unrecognized literal '" + word + "'",
		}
	}
}

// Serialize renders a token stream back to source text, used by the
// round-trip property in spec §8: "the produced token stream, serialized
// back via each token's lexeme, equals the input modulo whitespace and
// commas." Tokens are separated by a single space; EOF contributes no
// text.
func Serialize(toks []token.Token) string {
	var sb strings.Builder
	for i, t := range toks {
		if t.Kind == token.EOF {
			continue
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.Lexeme())
	}
	return sb.String()
}
