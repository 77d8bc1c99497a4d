/*
Package cursor implements the token-view and cursor discipline of
spec §4.2: a driver cursor used by the AST builder, and an independent
sub-cursor used by the grammar matcher for speculative matching that
must never disturb the driver's position.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022–2026 dhickel

*/
package cursor

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/dhickel/lyra-sub000/errs"
	"github.com/dhickel/lyra-sub000/token"
)

func tracer() tracing.Trace {
	return tracing.Select("lyra.cursor")
}

// containerOpen/containerClose pair up the container token kinds that
// must be consumed through a guarded consumer rather than the generic
// path (spec §4.2).
var containerOpen = map[token.Kind]bool{
	token.LParen: true, token.LBrace: true, token.LBracket: true,
}
var containerClose = map[token.Kind]bool{
	token.RParen: true, token.RBrace: true, token.RBracket: true,
}

// View is the read interface shared by both cursor implementations:
// peek(), peek_n(k) (1-indexed), consume_n(k).
type View interface {
	Peek() token.Token
	PeekN(k int) token.Token
	ConsumeN(k int) []token.Token
	AtEnd() bool
}

// Driver is the cursor used by the AST builder. It cannot consume
// container tokens via the generic path — Consume1 returns an
// InternalError on a container token, and ConsumeN stops short of one and
// logs the refusal; a dedicated guarded consumer (ConsumeLeftParen,
// etc.) must be used instead. The
// driver also tracks a running depth counter, incremented/decremented by
// the guarded container consumers.
type Driver struct {
	toks  []token.Token
	pos   int
	depth int
}

var _ View = (*Driver)(nil)

// NewDriver constructs a driver cursor over a token stream. toks must
// end in an EOF token (spec §3 invariant); NewDriver does not itself
// enforce that, since the lexer already guarantees it.
func NewDriver(toks []token.Token) *Driver {
	return &Driver{toks: toks}
}

func (d *Driver) AtEnd() bool {
	return d.pos >= len(d.toks) || d.toks[d.pos].Kind == token.EOF
}

// Peek returns the current token without advancing.
func (d *Driver) Peek() token.Token {
	return d.PeekN(1)
}

// PeekN returns the k-th token ahead (1-indexed: PeekN(1) == Peek()).
// Past the end of the stream it returns the trailing EOF token
// repeatedly.
func (d *Driver) PeekN(k int) token.Token {
	idx := d.pos + k - 1
	if idx >= len(d.toks) {
		return d.toks[len(d.toks)-1]
	}
	return d.toks[idx]
}

// ConsumeN advances the cursor by n tokens and returns them. It refuses
// to cross a container-token boundary: callers must use the guarded
// consumers for those, per spec §4.2.
func (d *Driver) ConsumeN(n int) []token.Token {
	out := make([]token.Token, 0, n)
	for i := 0; i < n; i++ {
		if d.AtEnd() {
			tracer().Errorf("ConsumeN past end of stream")
			return out
		}
		tok := d.toks[d.pos]
		if containerOpen[tok.Kind] || containerClose[tok.Kind] {
			tracer().Errorf("ConsumeN attempted over container token %s; use a guarded consumer", tok.Kind)
			return out
		}
		out = append(out, tok)
		d.pos++
	}
	return out
}

// Consume1 is shorthand for the common case of consuming exactly one
// non-container token.
func (d *Driver) Consume1() (token.Token, error) {
	if d.AtEnd() {
		return token.Token{}, &errs.InternalError{Message: "Consume1 past end of stream"}
	}
	tok := d.toks[d.pos]
	if containerOpen[tok.Kind] || containerClose[tok.Kind] {
		return token.Token{}, &errs.InternalError{
			Message: "Consume1 attempted over container token " + tok.Kind.String(),
		}
	}
	d.pos++
	return tok, nil
}

// Expect consumes the current token only if it has the given kind,
// otherwise returns a ParseError without advancing.
func (d *Driver) Expect(kind token.Kind) (token.Token, error) {
	tok := d.Peek()
	if tok.Kind != kind {
		return token.Token{}, &errs.ParseError{
			Pos:      tok.Pos(),
			Expected: kind.String(),
			Found:    tok.Kind.String(),
		}
	}
	return d.Consume1()
}

func (d *Driver) consumeGuarded(open bool, kind token.Kind) (token.Token, error) {
	tok := d.Peek()
	if tok.Kind != kind {
		return token.Token{}, &errs.ParseError{
			Pos:      tok.Pos(),
			Expected: kind.String(),
			Found:    tok.Kind.String(),
		}
	}
	d.pos++
	if open {
		d.depth++
	} else {
		d.depth--
	}
	return tok, nil
}

// ConsumeLeftParen, ConsumeRightParen, ConsumeLeftBrace,
// ConsumeRightBrace, ConsumeLeftBracket, ConsumeRightBracket are the
// guarded container consumers required by spec §4.2.
func (d *Driver) ConsumeLeftParen() (token.Token, error)    { return d.consumeGuarded(true, token.LParen) }
func (d *Driver) ConsumeRightParen() (token.Token, error)   { return d.consumeGuarded(false, token.RParen) }
func (d *Driver) ConsumeLeftBrace() (token.Token, error)    { return d.consumeGuarded(true, token.LBrace) }
func (d *Driver) ConsumeRightBrace() (token.Token, error)   { return d.consumeGuarded(false, token.RBrace) }
func (d *Driver) ConsumeLeftBracket() (token.Token, error)  { return d.consumeGuarded(true, token.LBracket) }
func (d *Driver) ConsumeRightBracket() (token.Token, error) { return d.consumeGuarded(false, token.RBracket) }

// Depth reports the driver's current container-nesting depth.
func (d *Driver) Depth() int { return d.depth }

// Pos reports the driver's current index into the token stream, used to
// initialize a Sub cursor anchored at the same position.
func (d *Driver) Pos() int { return d.pos }

// Sub is the cursor used by the grammar matcher. It holds its own
// offset into the same token buffer — the buffer itself is never
// cloned — so that speculative matching never disturbs a Driver
// operating over the same tokens (spec §4.2, §9 Design Notes:
// "Sub-cursor... a thin, copyable handle").
type Sub struct {
	toks []token.Token
	pos  int
}

var _ View = Sub{}

// NewSub constructs a sub-cursor over the same token buffer a Driver
// uses, starting at the driver's current position.
func NewSub(d *Driver) Sub {
	return Sub{toks: d.toks, pos: d.pos}
}

// NewSubAt constructs a sub-cursor at an explicit offset, used when
// re-deriving one sub-cursor from another (e.g. after a nested
// alternation backtracks to a saved position).
func NewSubAt(toks []token.Token, pos int) Sub {
	return Sub{toks: toks, pos: pos}
}

func (c Sub) AtEnd() bool {
	return c.pos >= len(c.toks) || c.toks[c.pos].Kind == token.EOF
}

func (c Sub) Peek() token.Token { return c.PeekN(1) }

func (c Sub) PeekN(k int) token.Token {
	idx := c.pos + k - 1
	if idx >= len(c.toks) {
		return c.toks[len(c.toks)-1]
	}
	return c.toks[idx]
}

// Advance returns a *new* Sub value advanced by n tokens; Sub is a
// value type (copyable handle), so advancing never mutates a shared
// cursor another alternation branch is also holding.
func (c Sub) Advance(n int) Sub {
	return Sub{toks: c.toks, pos: c.pos + n}
}

// ConsumeN satisfies the View interface generically but is rarely used
// directly by the matcher, which prefers Advance to keep the
// non-destructive-on-failure discipline explicit at call sites.
func (c Sub) ConsumeN(n int) []token.Token {
	out := make([]token.Token, 0, n)
	for i := 0; i < n && c.pos+i < len(c.toks); i++ {
		out = append(out, c.toks[c.pos+i])
	}
	return out
}

// Pos reports the sub-cursor's offset, used only for diagnostics — the
// AST builder never seeks a Driver to a Sub's position; it re-derives
// the same span independently, guided by the GForm shape the matcher
// produced (spec §4.4).
func (c Sub) Pos() int { return c.pos }
