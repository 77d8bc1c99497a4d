package gform

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/dhickel/lyra-sub000/cursor"
	"github.com/dhickel/lyra-sub000/errs"
	"github.com/dhickel/lyra-sub000/token"
)

func tracer() tracing.Trace {
	return tracing.Select("lyra.gform")
}

// matchResult is returned by every recognizer in this file. When !Found
// and Err == nil, Cursor MUST equal the cursor the recognizer was
// called with — the "non-destructive on failure" invariant of spec
// §4.3. When Err != nil, Cursor is meaningless; callers must abort.
type matchResult struct {
	Form   GForm
	Cursor cursor.Sub
	Found  bool
}

func none(c cursor.Sub) (matchResult, error) {
	return matchResult{Cursor: c}, nil
}

func found(form GForm, c cursor.Sub) (matchResult, error) {
	return matchResult{Form: form, Cursor: c, Found: true}, nil
}

func fail(err error) (matchResult, error) {
	return matchResult{}, err
}

// MatchStmt recognizes a Stmt, trying alternatives in the order the
// source grammar specifies: let, reassign, import.
func MatchStmt(c cursor.Sub) (matchResult, error) {
	if r, err := matchLet(c); err != nil || r.Found {
		return r, err
	}
	if r, err := matchReassign(c); err != nil || r.Found {
		return r, err
	}
	if r, err := matchImport(c); err != nil || r.Found {
		return r, err
	}
	return none(c)
}

// MatchExpr recognizes an Expr, trying alternatives in the order
// spec §4.3 specifies: block, lambda, lambda-form, s-expr, v-expr,
// f-expr. (The EBNF's duplicated "BExpr" entry names the same
// production as BlockExpr; see SPEC_FULL.md §6 item 4 for this
// historical-draft artifact.)
func MatchExpr(c cursor.Sub) (matchResult, error) {
	if r, err := matchBlock(c); err != nil || r.Found {
		return r, err
	}
	if r, err := matchLambda(c); err != nil || r.Found {
		return r, err
	}
	if r, err := matchLambdaForm(c); err != nil || r.Found {
		return r, err
	}
	if r, err := matchSExpr(c); err != nil || r.Found {
		return r, err
	}
	if r, err := matchVExpr(c); err != nil || r.Found {
		return r, err
	}
	if r, err := matchFExpr(c); err != nil || r.Found {
		return r, err
	}
	if c.Peek().Kind == token.Match {
		return fail(&errs.InvalidGrammarError{
			Pos:      c.Peek().Pos(),
			Expected: "match expressions are not implemented",
		})
	}
	return none(c)
}

// --- Stmt alternatives --------------------------------------------------

func isModifier(k token.Kind) bool {
	switch k {
	case token.ModMut, token.ModPub, token.ModConst, token.ModOpt:
		return true
	}
	return false
}

// matchLet recognizes `let { Modifier } Identifier [ ':' Type ] '=' Expr`.
// Once the leading `let` token is seen, every subsequent mismatch is a
// hard parse error — `let` uniquely commits to this production.
func matchLet(c cursor.Sub) (matchResult, error) {
	if c.Peek().Kind != token.Let {
		return none(c)
	}
	cur := c.Advance(1)

	modCount := 0
	for isModifier(cur.Peek().Kind) {
		modCount++
		cur = cur.Advance(1)
	}

	if cur.Peek().Kind != token.Identifier {
		return fail(&errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "identifier after let"})
	}
	cur = cur.Advance(1)

	hasType := false
	if cur.Peek().Kind == token.Colon {
		hasType = true
		cur = cur.Advance(1)
		var err error
		cur, err = skipType(cur)
		if err != nil {
			return fail(err)
		}
	}

	if cur.Peek().Kind != token.Assign {
		return fail(&errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "'=' in let statement"})
	}
	cur = cur.Advance(1)

	exprResult, err := MatchExpr(cur)
	if err != nil {
		return fail(err)
	}
	if !exprResult.Found {
		return fail(&errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "expression after '=' in let statement"})
	}

	return found(Let{HasType: hasType, ModifierCount: modCount, Expr: exprResult.Form}, exprResult.Cursor)
}

// matchReassign recognizes `Identifier ':=' Expr`. The two-token lookahead
// (Identifier then ColonAssign) is what disambiguates this from a bare
// identifier VExpr/FExpr, so failure to match leaves the cursor untouched.
func matchReassign(c cursor.Sub) (matchResult, error) {
	if c.Peek().Kind != token.Identifier || c.PeekN(2).Kind != token.ColonAssign {
		return none(c)
	}
	cur := c.Advance(2)
	exprResult, err := MatchExpr(cur)
	if err != nil {
		return fail(err)
	}
	if !exprResult.Found {
		return fail(&errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "expression after ':='"})
	}
	return found(Reassign{Expr: exprResult.Form}, exprResult.Cursor)
}

// matchImport recognizes `import Identifier [ 'as' Identifier ]`.
func matchImport(c cursor.Sub) (matchResult, error) {
	if c.Peek().Kind != token.Import {
		return none(c)
	}
	cur := c.Advance(1)
	if cur.Peek().Kind != token.Identifier {
		return fail(&errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "namespace path after import"})
	}
	cur = cur.Advance(1)

	hasAlias := false
	if cur.Peek().Kind == token.As {
		if cur.PeekN(2).Kind != token.Identifier {
			return fail(&errs.InvalidGrammarError{Pos: cur.PeekN(2).Pos(), Expected: "alias identifier after 'as'"})
		}
		hasAlias = true
		cur = cur.Advance(2)
	}
	return found(Import{HasAlias: hasAlias}, cur)
}

// --- Expr alternatives ----------------------------------------------

// matchBlock recognizes `'{' { Expr | Stmt } '}'`.
func matchBlock(c cursor.Sub) (matchResult, error) {
	if c.Peek().Kind != token.LBrace {
		return none(c)
	}
	cur := c.Advance(1)

	var members []GForm
	for cur.Peek().Kind != token.RBrace {
		if cur.AtEnd() {
			return fail(&errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "'}' to close block"})
		}
		stmtRes, err := MatchStmt(cur)
		if err != nil {
			return fail(err)
		}
		if stmtRes.Found {
			members = append(members, stmtRes.Form)
			cur = stmtRes.Cursor
			continue
		}
		exprRes, err := MatchExpr(cur)
		if err != nil {
			return fail(err)
		}
		if !exprRes.Found {
			return fail(&errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "statement or expression in block"})
		}
		members = append(members, exprRes.Form)
		cur = exprRes.Cursor
	}
	cur = cur.Advance(1) // '}'
	return found(Block{Members: members}, cur)
}

// matchLambda recognizes `'(' '=>' [ ':' Type ] LambdaForm ')'`. The
// `'(' '=>'` prefix is checked before SExpr is ever attempted, which
// alternation ordering already guarantees since matchLambda is tried
// first; a mismatched prefix simply falls through to SExpr.
func matchLambda(c cursor.Sub) (matchResult, error) {
	if c.Peek().Kind != token.LParen || c.PeekN(2).Kind != token.FatArrow {
		return none(c)
	}
	cur := c.Advance(2)

	hasType := false
	if cur.Peek().Kind == token.Colon {
		hasType = true
		cur = cur.Advance(1)
		var err error
		cur, err = skipType(cur)
		if err != nil {
			return fail(err)
		}
	}

	formRes, err := matchLambdaForm(cur)
	if err != nil {
		return fail(err)
	}
	if !formRes.Found {
		return fail(&errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "lambda form '| params | body'"})
	}
	cur = formRes.Cursor

	if cur.Peek().Kind != token.RParen {
		return fail(&errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "')' to close lambda expression"})
	}
	cur = cur.Advance(1)

	return found(Lambda{HasType: hasType, Form: formRes.Form}, cur)
}

// matchLambdaForm recognizes the bare `'|' { Parameter } '|' Expr` form.
func matchLambdaForm(c cursor.Sub) (matchResult, error) {
	if c.Peek().Kind != token.Pipe {
		return none(c)
	}
	cur := c.Advance(1)

	var params []Param
	for cur.Peek().Kind != token.Pipe {
		if cur.AtEnd() {
			return fail(&errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "'|' to close parameter list"})
		}
		p, next, err := matchParam(cur)
		if err != nil {
			return fail(err)
		}
		params = append(params, p)
		cur = next
	}
	cur = cur.Advance(1) // closing '|'

	exprRes, err := MatchExpr(cur)
	if err != nil {
		return fail(err)
	}
	if !exprRes.Found {
		return fail(&errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "expression body after lambda parameters"})
	}
	return found(LambdaForm{Parameters: params, Expr: exprRes.Form}, exprRes.Cursor)
}

// matchParam recognizes one parameter: `{ Modifier } Identifier [ ':' Type ]`.
func matchParam(c cursor.Sub) (Param, cursor.Sub, error) {
	modCount := 0
	cur := c
	for isModifier(cur.Peek().Kind) {
		modCount++
		cur = cur.Advance(1)
	}
	if cur.Peek().Kind != token.Identifier {
		return Param{}, cur, &errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "parameter identifier"}
	}
	cur = cur.Advance(1)

	hasType := false
	if cur.Peek().Kind == token.Colon {
		hasType = true
		cur = cur.Advance(1)
		var err error
		cur, err = skipType(cur)
		if err != nil {
			return Param{}, cur, err
		}
	}
	return Param{ModifierCount: modCount, HasType: hasType}, cur, nil
}

// matchSExpr recognizes `'(' ( Operator | Expr ) ( PredicateForm | { Expr } ) ')'`.
// If a non-empty PredicateForm is found, the result is a Cond; otherwise
// it is an S (operator application). Per spec §4.3's tie-break, the
// operand position must have held an expression (not a bare operator
// token) for the PredicateForm path to be legal.
func matchSExpr(c cursor.Sub) (matchResult, error) {
	if c.Peek().Kind != token.LParen {
		return none(c)
	}
	cur := c.Advance(1)

	headWasExpr := false
	var head GForm
	if isOperatorToken(cur.Peek().Kind) {
		head = Op{}
		cur = cur.Advance(1)
	} else {
		exprRes, err := MatchExpr(cur)
		if err != nil {
			return fail(err)
		}
		if !exprRes.Found {
			return fail(&errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "operator or expression after '('"})
		}
		head = ExprOp{Expr: exprRes.Form}
		headWasExpr = true
		cur = exprRes.Cursor
	}

	pform, next, hasPredicate, err := tryMatchPredicateForm(cur)
	if err != nil {
		return fail(err)
	}
	if hasPredicate {
		if !headWasExpr {
			return fail(&errs.InvalidGrammarError{
				Pos:      cur.Peek().Pos(),
				Expected: "expression (not an operator) before a predicate form",
			})
		}
		cur = next
		if cur.Peek().Kind != token.RParen {
			return fail(&errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "')' to close conditional"})
		}
		cur = cur.Advance(1)
		return found(Cond{PredicateExpr: head.(ExprOp).Expr, PredicateForm: pform}, cur)
	}

	var operands []GForm
	for cur.Peek().Kind != token.RParen {
		if cur.AtEnd() {
			return fail(&errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "')' to close s-expression"})
		}
		opRes, err := MatchExpr(cur)
		if err != nil {
			return fail(err)
		}
		if !opRes.Found {
			return fail(&errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "operand expression"})
		}
		operands = append(operands, opRes.Form)
		cur = opRes.Cursor
	}
	cur = cur.Advance(1)

	return found(S{Operation: head, Operands: operands}, cur)
}

// tryMatchPredicateForm recognizes `[ '->' Expr ] [ ':' Expr ]`. It
// reports hasPredicate=false (with the cursor unchanged) when neither
// arm is present — that case means the enclosing S-expression is a
// plain operator application, not a conditional (spec §9 Design Notes).
func tryMatchPredicateForm(c cursor.Sub) (PForm, cursor.Sub, bool, error) {
	cur := c
	var thenForm, elseForm GForm

	if cur.Peek().Kind == token.Arrow {
		cur = cur.Advance(1)
		r, err := MatchExpr(cur)
		if err != nil {
			return PForm{}, c, false, err
		}
		if !r.Found {
			return PForm{}, c, false, &errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "then-expression after '->'"}
		}
		thenForm = r.Form
		cur = r.Cursor
	}
	if cur.Peek().Kind == token.Colon {
		cur = cur.Advance(1)
		r, err := MatchExpr(cur)
		if err != nil {
			return PForm{}, c, false, err
		}
		if !r.Found {
			return PForm{}, c, false, &errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "else-expression after ':'"}
		}
		elseForm = r.Form
		cur = r.Cursor
	}
	if thenForm == nil && elseForm == nil {
		return PForm{}, c, false, nil
	}
	return PForm{Then: thenForm, Else: elseForm}, cur, true, nil
}

func isOperatorToken(k token.Kind) bool {
	switch k {
	case token.Plus, token.Minus, token.Star, token.Slash, token.Caret, token.Percent,
		token.Greater, token.Less, token.PlusPlus, token.MinusMinus,
		token.GreaterEq, token.LessEq, token.NotEq, token.EqEq,
		token.And, token.Or, token.Nor, token.Xor, token.Xnor, token.Nand, token.Not:
		return true
	}
	return false
}

// literalKinds are the token kinds VExpr may match directly (spec §3:
// "literal (#T #F float int identifier string #NIL)").
func isLiteralKind(k token.Kind) bool {
	switch k {
	case token.True, token.False, token.Float, token.Int, token.Identifier, token.String, token.Nil:
		return true
	}
	return false
}

// accessOperators are the tokens whose presence right after a literal
// defers VExpr to FExpr (spec §4.3 VExpr rule).
func startsAccess(k token.Kind) bool {
	switch k {
	case token.Arrow, token.ColonColon, token.ColonDot, token.LBracket:
		return true
	}
	return false
}

// matchVExpr recognizes a bare literal/identifier, deferring to FExpr
// whenever the literal is followed by an access operator.
func matchVExpr(c cursor.Sub) (matchResult, error) {
	if !isLiteralKind(c.Peek().Kind) {
		return none(c)
	}
	if startsAccess(c.PeekN(2).Kind) {
		return none(c)
	}
	return found(V{}, c.Advance(1))
}

// matchFExpr recognizes `NamespaceChain? AccessChain?`, per the model
// recorded in SPEC_FULL.md §6 item 5: the namespace chain consumes `{Identifier '->'}`
// repetitions, after which exactly one mandatory base Identifier is
// consumed as the access chain's first (bare) element; further chain
// elements, if any, must each begin with '::' or ':.'.
func matchFExpr(c cursor.Sub) (matchResult, error) {
	if c.Peek().Kind != token.Identifier {
		return none(c)
	}
	cur := c
	depth := 0
	// The third token must also be an Identifier, and the fourth must not
	// be ':': a namespace hop is only real when it leads into another
	// segment or the base identifier. This disambiguates from an enclosing
	// Cond's predicate-form arrow, which also starts with `Identifier '->'`
	// but is followed by an arbitrary expression (e.g. `flag -> 1`) or by
	// a then-arm and an else-arm (e.g. `p -> t : e`). A bare identifier
	// then-arm with no else-arm (`p -> t`) is still read as a namespace hop.
	for cur.Peek().Kind == token.Identifier && cur.PeekN(2).Kind == token.Arrow && cur.PeekN(3).Kind == token.Identifier && cur.PeekN(4).Kind != token.Colon {
		depth++
		cur = cur.Advance(2)
	}

	if cur.Peek().Kind != token.Identifier {
		return fail(&errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "identifier after namespace chain"})
	}
	cur = cur.Advance(1)

	chain := []Access{AccessIdentifier{}}

	sawFunctionAccess := false
	for {
		k := cur.Peek().Kind
		if k == token.ColonColon {
			if sawFunctionAccess {
				return fail(&errs.InvalidGrammarError{
					Pos:      cur.Peek().Pos(),
					Expected: "no further access after a terminal identity call",
				})
			}
			if cur.PeekN(2).Kind != token.Identifier {
				return fail(&errs.InvalidGrammarError{Pos: cur.PeekN(2).Pos(), Expected: "identifier after '::'"})
			}
			cur = cur.Advance(2)
			if cur.Peek().Kind == token.LBracket {
				args, next, err := matchArguments(cur)
				if err != nil {
					return fail(err)
				}
				cur = next
				chain = append(chain, AccessFuncCall{Arguments: args})
			} else {
				sawFunctionAccess = true
				chain = append(chain, AccessFunctionAccess{})
			}
			continue
		}
		if k == token.ColonDot {
			if sawFunctionAccess {
				return fail(&errs.InvalidGrammarError{
					Pos:      cur.Peek().Pos(),
					Expected: "no further access after a terminal identity call",
				})
			}
			if cur.PeekN(2).Kind != token.Identifier {
				return fail(&errs.InvalidGrammarError{Pos: cur.PeekN(2).Pos(), Expected: "identifier after ':.'"})
			}
			cur = cur.Advance(2)
			chain = append(chain, AccessIdentifier{})
			continue
		}
		break
	}

	return found(M{NamespaceDepth: depth, AccessChain: chain}, cur)
}

// matchArguments recognizes `'[' { Expr } ']'` (the bracketed argument
// list of a FunctionCall access element).
func matchArguments(c cursor.Sub) ([]Arg, cursor.Sub, error) {
	if c.Peek().Kind != token.LBracket {
		return nil, c, &errs.InternalError{Message: "matchArguments called without a leading '['"}
	}
	cur := c.Advance(1)
	var args []Arg
	for cur.Peek().Kind != token.RBracket {
		if cur.AtEnd() {
			return nil, cur, &errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "']' to close argument list"}
		}
		modCount := 0
		for isModifier(cur.Peek().Kind) {
			modCount++
			cur = cur.Advance(1)
		}
		r, err := MatchExpr(cur)
		if err != nil {
			return nil, cur, err
		}
		if !r.Found {
			return nil, cur, &errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "argument expression"}
		}
		args = append(args, Arg{ModifierCount: modCount, Expr: r.Form})
		cur = r.Cursor
	}
	cur = cur.Advance(1)
	return args, cur, nil
}

// skipType recognizes `Identifier | 'Fn' '<' { Type } ';' Type '>' | 'Array' '<' Type '>'`,
// advancing the cursor past a Type clause without recording anything —
// GForm's has_type booleans are all the grammar tree needs to carry;
// the AST builder re-parses the same Type grammar to build a real
// LangType value.
func skipType(c cursor.Sub) (cursor.Sub, error) {
	switch c.Peek().Kind {
	case token.Identifier:
		return c.Advance(1), nil
	case token.Fn:
		cur := c.Advance(1)
		if cur.Peek().Kind != token.Less {
			return cur, &errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "'<' after Fn"}
		}
		cur = cur.Advance(1)
		for cur.Peek().Kind != token.Semicolon {
			if cur.AtEnd() {
				return cur, &errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "';' in Fn type"}
			}
			var err error
			cur, err = skipType(cur)
			if err != nil {
				return cur, err
			}
		}
		cur = cur.Advance(1) // ';'
		var err error
		cur, err = skipType(cur)
		if err != nil {
			return cur, err
		}
		if cur.Peek().Kind != token.Greater {
			return cur, &errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "'>' to close Fn type"}
		}
		return cur.Advance(1), nil
	case token.Array:
		cur := c.Advance(1)
		if cur.Peek().Kind != token.Less {
			return cur, &errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "'<' after Array"}
		}
		cur = cur.Advance(1)
		var err error
		cur, err = skipType(cur)
		if err != nil {
			return cur, err
		}
		if cur.Peek().Kind != token.Greater {
			return cur, &errs.InvalidGrammarError{Pos: cur.Peek().Pos(), Expected: "'>' to close Array type"}
		}
		return cur.Advance(1), nil
	default:
		return c, &errs.InvalidGrammarError{Pos: c.Peek().Pos(), Expected: "a type"}
	}
}
