/*
Package errs implements the error taxonomy of spec §7. Every variant
carries a source position where one is meaningful, and every variant
implements the standard `error` interface so it interoperates with
ordinary Go code at package boundaries, as well as a Report method that
renders a pterm-styled diagnostic for interactive or batch summaries.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022–2026 dhickel

*/
package errs

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"

	"github.com/dhickel/lyra-sub000/token"
)

func tracer() tracing.Trace {
	return tracing.Select("lyra.errs")
}

// Diagnostic is the common shape every error in this package satisfies:
// a plain-text message for `error`, and a styled Report for humans.
type Diagnostic interface {
	error
	Report() string
	Position() token.Position
}

// --- LexError ---------------------------------------------------------

// LexError reports an invalid character or malformed number (spec §4.1).
type LexError struct {
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: lex error: %s", e.Pos, e.Message)
}

func (e *LexError) Report() string {
	return pterm.Error.Sprintf("%s: %s", e.Pos, e.Message)
}

func (e *LexError) Position() token.Position { return e.Pos }

// --- ParseError / InvalidGrammarError ----------------------------------

// ParseError reports a grammar mismatch or unexpected token encountered
// by the AST builder while re-consuming tokens under GForm guidance.
type ParseError struct {
	Pos      token.Position
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse error: expected %s, found %s", e.Pos, e.Expected, e.Found)
}

func (e *ParseError) Report() string {
	return pterm.Error.Sprintf("%s: expected %s, found %s", e.Pos, e.Expected, e.Found)
}

func (e *ParseError) Position() token.Position { return e.Pos }

// InvalidGrammarError has the same shape as ParseError; it is produced
// during grammar matching rather than AST construction (spec §7).
type InvalidGrammarError struct {
	Pos      token.Position
	Expected string
}

func (e *InvalidGrammarError) Error() string {
	return fmt.Sprintf("%s: invalid grammar: expected %s", e.Pos, e.Expected)
}

func (e *InvalidGrammarError) Report() string {
	return pterm.Error.Sprintf("%s: expected %s", e.Pos, e.Expected)
}

func (e *InvalidGrammarError) Position() token.Position { return e.Pos }

// --- InternalError ------------------------------------------------------

// InternalError signals a violated invariant — something the AST builder
// or resolver should never have been able to observe given a consistent
// token stream / GForm tree.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.Message)
}

func (e *InternalError) Report() string {
	return pterm.Error.Sprintf("internal error: %s", e.Message)
}

func (e *InternalError) Position() token.Position { return token.Position{} }

// --- IoError -------------------------------------------------------------

// IoError wraps a failure surfaced unchanged from the external loader
// (spec §6).
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("io error loading %q: %v", e.Path, e.Err)
}

func (e *IoError) Report() string {
	return pterm.Error.Sprintf("io error loading %q: %v", e.Path, e.Err)
}

func (e *IoError) Position() token.Position { return token.Position{} }

func (e *IoError) Unwrap() error { return e.Err }

// --- ResolutionError family ----------------------------------------------

// UndefinedSymbol reports a use site whose identifier resolved to
// nothing, together with up to three ranked suggestions (spec §7, §8).
type UndefinedSymbol struct {
	Name        string
	Pos         token.Position
	Suggestions []string
}

func (e *UndefinedSymbol) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("%s: undefined symbol %q", e.Pos, e.Name)
	}
	return fmt.Sprintf("%s: undefined symbol %q (did you mean: %s?)",
		e.Pos, e.Name, strings.Join(e.Suggestions, ", "))
}

func (e *UndefinedSymbol) Report() string {
	if len(e.Suggestions) == 0 {
		return pterm.Error.Sprintf("%s: undefined symbol %s", e.Pos, pterm.Bold.Sprint(e.Name))
	}
	return pterm.Error.Sprintf("%s: undefined symbol %s — did you mean %s?",
		e.Pos, pterm.Bold.Sprint(e.Name), strings.Join(e.Suggestions, ", "))
}

func (e *UndefinedSymbol) Position() token.Position { return e.Pos }

// DuplicateSymbol reports a re-declaration within the same scope
// (spec §4.5, §4.7, §8 scenario 6).
type DuplicateSymbol struct {
	Name            string
	ExistingPos     token.Position
	NewPos          token.Position
}

func (e *DuplicateSymbol) Error() string {
	return fmt.Sprintf("%s: duplicate symbol %q (first declared at %s)",
		e.NewPos, e.Name, e.ExistingPos)
}

func (e *DuplicateSymbol) Report() string {
	return pterm.Error.Sprintf("%s: duplicate symbol %s (first declared at %s)",
		e.NewPos, pterm.Bold.Sprint(e.Name), e.ExistingPos)
}

func (e *DuplicateSymbol) Position() token.Position { return e.NewPos }

// CircularDependency reports a cycle detected in the namespace
// dependency graph (spec §4.7).
type CircularDependency struct {
	Cycle []string
}

func (e *CircularDependency) Error() string {
	return fmt.Sprintf("circular dependency: %s", strings.Join(e.Cycle, " -> "))
}

func (e *CircularDependency) Report() string {
	return pterm.Error.Sprintf("circular dependency: %s", strings.Join(e.Cycle, " → "))
}

func (e *CircularDependency) Position() token.Position { return token.Position{} }

// UnresolvedImport reports an import statement whose target namespace
// path could not be found (spec §4.7, §8 scenario 3).
type UnresolvedImport struct {
	Path string
	Pos  token.Position
}

func (e *UnresolvedImport) Error() string {
	return fmt.Sprintf("%s: unresolved import %q", e.Pos, e.Path)
}

func (e *UnresolvedImport) Report() string {
	return pterm.Error.Sprintf("%s: unresolved import %s", e.Pos, pterm.Bold.Sprint(e.Path))
}

func (e *UnresolvedImport) Position() token.Position { return e.Pos }

// TypeMismatch reports an incompatible type at a use site (spec §4.7
// Type compatibility).
type TypeMismatch struct {
	Expected string
	Actual   string
	Pos      token.Position
}

func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("%s: type mismatch: expected %s, got %s", e.Pos, e.Expected, e.Actual)
}

func (e *TypeMismatch) Report() string {
	return pterm.Error.Sprintf("%s: expected %s, got %s", e.Pos, e.Expected, e.Actual)
}

func (e *TypeMismatch) Position() token.Position { return e.Pos }

// AccessibilityViolationKind distinguishes why a cross-namespace access
// was rejected.
type AccessibilityViolationKind int

const (
	NotPublic AccessibilityViolationKind = iota
	NotMutable
	ReassignParameter
)

// AccessibilityViolation reports a cross-namespace reference to a
// non-public symbol, or a reassignment to a non-mutable binding
// (spec §4.7 Stage 2 member access / assignment rules).
type AccessibilityViolation struct {
	Symbol string
	Pos    token.Position
	Kind   AccessibilityViolationKind
}

func (e *AccessibilityViolation) Error() string {
	return fmt.Sprintf("%s: %s is not accessible here (%s)", e.Pos, e.Symbol, e.kindString())
}

func (e *AccessibilityViolation) kindString() string {
	switch e.Kind {
	case NotPublic:
		return "not declared @pub"
	case NotMutable:
		return "not declared @mut"
	case ReassignParameter:
		return "parameters cannot be reassigned"
	default:
		return "unknown"
	}
}

func (e *AccessibilityViolation) Report() string {
	return pterm.Error.Sprintf("%s: %s is not accessible here (%s)", e.Pos, e.Symbol, e.kindString())
}

func (e *AccessibilityViolation) Position() token.Position { return e.Pos }

// ScopeViolation reports a symbol used outside the scope chain that
// would make it visible.
type ScopeViolation struct {
	Symbol string
	Scope  string
	Pos    token.Position
}

func (e *ScopeViolation) Error() string {
	return fmt.Sprintf("%s: %s is out of scope %s", e.Pos, e.Symbol, e.Scope)
}

func (e *ScopeViolation) Report() string {
	return pterm.Error.Sprintf("%s: %s is out of scope %s", e.Pos, e.Symbol, e.Scope)
}

func (e *ScopeViolation) Position() token.Position { return e.Pos }
