/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022–2026 dhickel

*/
package compiler

import (
	"github.com/dhickel/lyra-sub000/ast"
	"github.com/dhickel/lyra-sub000/cursor"
	"github.com/dhickel/lyra-sub000/lexer"
	"github.com/dhickel/lyra-sub000/namespace"
	"github.com/dhickel/lyra-sub000/result"
)

// UnitTransform is a function from a compilation unit to a Result
// wrapping the same unit advanced one pipeline stage further (spec
// §4.8: "a function from a Unit to Result<Unit, Error>").
type UnitTransform func(*namespace.CompilationUnit) result.Result[*namespace.CompilationUnit]

// Pipeline composes unit transforms left to right: the output of one
// becomes the input to the next, short-circuiting on the first failure
// (spec §4.8 "the pipeline composes a list of unit transforms
// left-to-right").
type Pipeline []UnitTransform

// Run applies every transform in p to unit in order, stopping at the
// first failure and returning its error.
func (p Pipeline) Run(unit *namespace.CompilationUnit) result.Result[*namespace.CompilationUnit] {
	r := result.Ok(unit)
	for _, t := range p {
		r = result.AndThen(r, t)
	}
	return r
}

// ModuleTransform lifts p to operate on every unit of every namespace
// given (spec §4.8: "a module transform lifts a unit transform to
// operate on every unit within every namespace of the environment").
// A unit's failure is recorded but does not stop its siblings (spec §7:
// "errors within a single unit... do not poison sibling units").
func ModuleTransform(p Pipeline, namespaces []*namespace.Namespace) []error {
	var out []error
	for _, ns := range namespaces {
		for _, unit := range ns.CM.Units {
			if _, err := p.Run(unit).Unwrap(); err != nil {
				out = append(out, err)
			}
		}
	}
	return out
}

// ReadTransform acknowledges that IO has already happened: every
// CompilationUnit env.Environment.LoadTree constructs starts life
// already in the Read state, since the loader interface (spec §6) hands
// back a unit's id and source text as one pair — there is no separate
// moment at which a unit exists without its text. This transform exists
// purely so FrontEnd names the read stage alongside lex and parse (the
// two resolver stages run separately, per namespace); it is the
// identity.
func ReadTransform(u *namespace.CompilationUnit) result.Result[*namespace.CompilationUnit] {
	return result.Ok(u)
}

// LexTransform runs the lexer over a unit's source text and advances it
// to the Lexed state (spec §4.1).
func LexTransform(u *namespace.CompilationUnit) result.Result[*namespace.CompilationUnit] {
	toks, err := lexer.Lex(u.Source).Unwrap()
	if err != nil {
		return result.Err[*namespace.CompilationUnit](err)
	}
	if err := u.MarkLexed(toks); err != nil {
		return result.Err[*namespace.CompilationUnit](err)
	}
	return result.Ok(u)
}

// ParseTransform runs the grammar matcher and AST builder over a unit's
// token stream and advances it to the Parsed state (spec §4.3/§4.4).
func ParseTransform(u *namespace.CompilationUnit) result.Result[*namespace.CompilationUnit] {
	d := cursor.NewDriver(u.Tokens)
	tree, err := ast.Build(d)
	if err != nil {
		return result.Err[*namespace.CompilationUnit](err)
	}
	if err := u.MarkParsed(tree); err != nil {
		return result.Err[*namespace.CompilationUnit](err)
	}
	return result.Ok(u)
}

// FrontEnd is the ready-made read→lex→parse pipeline every unit runs
// through before the resolver's two namespace-level stages begin.
// resolve_stage_1 and resolve_stage_2 are not UnitTransforms — they
// walk every unit of one namespace together, building shared symbol-
// table and dependency-graph state a per-unit transform has no way to
// share — so Driver.Compile drives them directly instead of folding
// them into this Pipeline.
var FrontEnd = Pipeline{ReadTransform, LexTransform, ParseTransform}
