package ast

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/dhickel/lyra-sub000/cursor"
	"github.com/dhickel/lyra-sub000/errs"
	"github.com/dhickel/lyra-sub000/gform"
	"github.com/dhickel/lyra-sub000/langtype"
	"github.com/dhickel/lyra-sub000/symbol"
	"github.com/dhickel/lyra-sub000/token"
)

func tracer() tracing.Trace {
	return tracing.Select("lyra.ast")
}

// Build walks an entire token stream, alternately matching a top-level
// Stmt or Expr with the grammar matcher and re-consuming the same
// tokens from the driver to build the corresponding AST node, until the
// driver reaches EOF (spec §4.4).
func Build(d *cursor.Driver) (*CompilationUnit, error) {
	var nodes []Node
	for !d.AtEnd() {
		sub := cursor.NewSub(d)

		sr, err := gform.MatchStmt(sub)
		if err != nil {
			return nil, err
		}
		if sr.Found {
			stmt, err := buildStmt(d, sr.Form)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, stmt)
			continue
		}

		er, err := gform.MatchExpr(sub)
		if err != nil {
			return nil, err
		}
		if er.Found {
			expr, err := buildExpr(d, er.Form)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, expr)
			continue
		}

		tok := d.Peek()
		return nil, &errs.ParseError{Pos: tok.Pos(), Expected: "a statement or expression", Found: tok.Kind.String()}
	}
	tracer().Infof("built compilation unit with %d top-level nodes", len(nodes))
	return &CompilationUnit{Nodes: nodes}, nil
}

func isStmtForm(g gform.GForm) bool {
	switch g.(type) {
	case gform.Let, gform.Reassign, gform.Import:
		return true
	}
	return false
}

// --- Statement builders -----------------------------------------------

func buildStmt(d *cursor.Driver, g gform.GForm) (Statement, error) {
	switch v := g.(type) {
	case gform.Let:
		return buildLet(d, v)
	case gform.Reassign:
		return buildReassign(d, v)
	case gform.Import:
		return buildImport(d, v)
	}
	return nil, &errs.InternalError{Message: "buildStmt: unexpected GForm variant"}
}

func buildLet(d *cursor.Driver, v gform.Let) (*Let, error) {
	letTok, err := d.Expect(token.Let)
	if err != nil {
		return nil, err
	}

	mods, err := consumeModifiers(d, v.ModifierCount)
	if err != nil {
		return nil, err
	}

	idTok, err := d.Expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	name, _ := idTok.Payload.AsString()

	declaredType := langtype.Undefined()
	if v.HasType {
		if _, err := d.Expect(token.Colon); err != nil {
			return nil, err
		}
		declaredType, err = buildType(d)
		if err != nil {
			return nil, err
		}
	}

	if _, err := d.Expect(token.Assign); err != nil {
		return nil, err
	}

	value, err := buildExpr(d, v.Expr)
	if err != nil {
		return nil, err
	}

	sym := symbol.NewResolved(name, idTok.Pos())
	meta := NewMetaData(letTok.Pos())
	if v.HasType {
		meta.SetType(declaredType)
	}
	return &Let{Sym: sym, Modifiers: mods, Value: value, meta: meta}, nil
}

func buildReassign(d *cursor.Driver, v gform.Reassign) (*Assign, error) {
	idTok, err := d.Expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	name, _ := idTok.Payload.AsString()

	if _, err := d.Expect(token.ColonAssign); err != nil {
		return nil, err
	}

	value, err := buildExpr(d, v.Expr)
	if err != nil {
		return nil, err
	}

	sym := symbol.NewUnresolved(name)
	return &Assign{Sym: sym, Value: value, meta: NewMetaData(idTok.Pos())}, nil
}

func buildImport(d *cursor.Driver, v gform.Import) (*Import, error) {
	importTok, err := d.Expect(token.Import)
	if err != nil {
		return nil, err
	}
	pathTok, err := d.Expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	path, _ := pathTok.Payload.AsString()

	alias := ""
	if v.HasAlias {
		if _, err := d.Expect(token.As); err != nil {
			return nil, err
		}
		aliasTok, err := d.Expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		alias, _ = aliasTok.Payload.AsString()
	}

	return &Import{Path: path, Alias: alias, HasAlias: v.HasAlias, meta: NewMetaData(importTok.Pos())}, nil
}

// --- Expression builders ------------------------------------------------

func buildExpr(d *cursor.Driver, g gform.GForm) (Expression, error) {
	switch v := g.(type) {
	case gform.Block:
		return buildBlock(d, v)
	case gform.Lambda:
		return buildLambda(d, v)
	case gform.LambdaForm:
		lexpr, err := buildLambdaFormBody(d, v)
		if err != nil {
			return nil, err
		}
		lexpr.IsBareLambdaForm = true
		return lexpr, nil
	case gform.Cond:
		return buildCond(d, v)
	case gform.S:
		return buildS(d, v)
	case gform.V:
		return buildV(d)
	case gform.M:
		return buildM(d, v)
	case gform.Match, gform.Iter:
		return nil, &errs.InternalError{Message: "match/iter expressions are not implemented"}
	}
	return nil, &errs.InternalError{Message: "buildExpr: unexpected GForm variant"}
}

func buildBlock(d *cursor.Driver, v gform.Block) (*BExpr, error) {
	lbrace, err := d.ConsumeLeftBrace()
	if err != nil {
		return nil, err
	}

	var members []Node
	for _, mg := range v.Members {
		if isStmtForm(mg) {
			stmt, err := buildStmt(d, mg)
			if err != nil {
				return nil, err
			}
			members = append(members, stmt)
			continue
		}
		expr, err := buildExpr(d, mg)
		if err != nil {
			return nil, err
		}
		members = append(members, expr)
	}

	if _, err := d.ConsumeRightBrace(); err != nil {
		return nil, err
	}
	return &BExpr{Members: members, meta: NewMetaData(lbrace.Pos())}, nil
}

func buildLambda(d *cursor.Driver, v gform.Lambda) (*LExpr, error) {
	lparen, err := d.ConsumeLeftParen()
	if err != nil {
		return nil, err
	}
	if _, err := d.Expect(token.FatArrow); err != nil {
		return nil, err
	}

	declaredType := langtype.Undefined()
	if v.HasType {
		if _, err := d.Expect(token.Colon); err != nil {
			return nil, err
		}
		declaredType, err = buildType(d)
		if err != nil {
			return nil, err
		}
	}

	lf, ok := v.Form.(gform.LambdaForm)
	if !ok {
		return nil, &errs.InternalError{Message: "Lambda.Form was not a LambdaForm"}
	}
	lexpr, err := buildLambdaFormBody(d, lf)
	if err != nil {
		return nil, err
	}
	lexpr.IsBareLambdaForm = false

	if _, err := d.ConsumeRightParen(); err != nil {
		return nil, err
	}

	lexpr.meta = NewMetaData(lparen.Pos())
	if v.HasType {
		lexpr.meta.SetType(declaredType)
	}
	return lexpr, nil
}

func buildLambdaFormBody(d *cursor.Driver, lf gform.LambdaForm) (*LExpr, error) {
	pipe, err := d.Expect(token.Pipe)
	if err != nil {
		return nil, err
	}

	var params []Parameter
	for _, pg := range lf.Parameters {
		p, err := buildParameter(d, pg)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}

	if _, err := d.Expect(token.Pipe); err != nil {
		return nil, err
	}

	body, err := buildExpr(d, lf.Expr)
	if err != nil {
		return nil, err
	}

	return &LExpr{Parameters: params, Body: body, meta: NewMetaData(pipe.Pos())}, nil
}

func buildParameter(d *cursor.Driver, pg gform.Param) (Parameter, error) {
	mods, err := consumeModifiers(d, pg.ModifierCount)
	if err != nil {
		return Parameter{}, err
	}

	idTok, err := d.Expect(token.Identifier)
	if err != nil {
		return Parameter{}, err
	}
	name, _ := idTok.Payload.AsString()

	lt := langtype.Undefined()
	if pg.HasType {
		if _, err := d.Expect(token.Colon); err != nil {
			return Parameter{}, err
		}
		lt, err = buildType(d)
		if err != nil {
			return Parameter{}, err
		}
	}

	sym := symbol.NewResolved(name, idTok.Pos())
	return Parameter{Modifiers: mods, Sym: sym, Type: lt}, nil
}

func buildCond(d *cursor.Driver, v gform.Cond) (*PExpr, error) {
	lparen, err := d.ConsumeLeftParen()
	if err != nil {
		return nil, err
	}

	predicate, err := buildExpr(d, v.PredicateExpr)
	if err != nil {
		return nil, err
	}

	form, err := buildPredicateForm(d, v.PredicateForm)
	if err != nil {
		return nil, err
	}

	if _, err := d.ConsumeRightParen(); err != nil {
		return nil, err
	}

	return &PExpr{Predicate: predicate, Form: *form, meta: NewMetaData(lparen.Pos())}, nil
}

func buildPredicateForm(d *cursor.Driver, pf gform.PForm) (*PredicateForm, error) {
	startPos := d.Peek().Pos()
	var thenExpr, elseExpr Expression

	if pf.HasThen() {
		if _, err := d.Expect(token.Arrow); err != nil {
			return nil, err
		}
		e, err := buildExpr(d, pf.Then)
		if err != nil {
			return nil, err
		}
		thenExpr = e
	}
	if pf.HasElse() {
		if _, err := d.Expect(token.Colon); err != nil {
			return nil, err
		}
		e, err := buildExpr(d, pf.Else)
		if err != nil {
			return nil, err
		}
		elseExpr = e
	}

	return &PredicateForm{Then: thenExpr, Else: elseExpr, meta: NewMetaData(startPos)}, nil
}

func buildS(d *cursor.Driver, v gform.S) (Expression, error) {
	lparen, err := d.ConsumeLeftParen()
	if err != nil {
		return nil, err
	}

	switch head := v.Operation.(type) {
	case gform.Op:
		opTok, err := d.Consume1()
		if err != nil {
			return nil, err
		}
		op, ok := operationFromTokenKind[opTok.Kind]
		if !ok {
			return nil, &errs.InternalError{Message: "unrecognized operator token " + opTok.Kind.String()}
		}

		operands, err := buildOperandList(d, v.Operands)
		if err != nil {
			return nil, err
		}
		if op == OpSub && len(operands) == 1 {
			op = OpNegate
		}

		if _, err := d.ConsumeRightParen(); err != nil {
			return nil, err
		}
		return &OExpr{Op: op, Operands: operands, meta: NewMetaData(lparen.Pos())}, nil

	case gform.ExprOp:
		callee, err := buildExpr(d, head.Expr)
		if err != nil {
			return nil, err
		}
		operands, err := buildOperandList(d, v.Operands)
		if err != nil {
			return nil, err
		}
		if _, err := d.ConsumeRightParen(); err != nil {
			return nil, err
		}
		return &SExpr{Callee: callee, Operands: operands, meta: NewMetaData(lparen.Pos())}, nil
	}

	return nil, &errs.InternalError{Message: "S.Operation was neither Op nor ExprOp"}
}

func buildOperandList(d *cursor.Driver, forms []gform.GForm) ([]Expression, error) {
	var operands []Expression
	for _, og := range forms {
		oe, err := buildExpr(d, og)
		if err != nil {
			return nil, err
		}
		operands = append(operands, oe)
	}
	return operands, nil
}

func buildV(d *cursor.Driver) (*VExpr, error) {
	tok, err := d.Consume1()
	if err != nil {
		return nil, err
	}

	var val Value
	switch tok.Kind {
	case token.True:
		val = BoolValue{V: true}
	case token.False:
		val = BoolValue{V: false}
	case token.Float:
		f, _ := tok.Payload.AsFloat()
		val = F64Value{V: f}
	case token.Int:
		i, _ := tok.Payload.AsInt()
		val = I64Value{V: i}
	case token.Identifier:
		name, _ := tok.Payload.AsString()
		val = IdentifierValue{Sym: symbol.NewUnresolved(name)}
	case token.Nil:
		val = NilValue{}
	default:
		return nil, &errs.InternalError{Message: "VExpr: unexpected token kind " + tok.Kind.String()}
	}

	return &VExpr{Val: val, meta: NewMetaData(tok.Pos())}, nil
}

func buildM(d *cursor.Driver, v gform.M) (*MExpr, error) {
	startPos := d.Peek().Pos()

	var nsPath []string
	for i := 0; i < v.NamespaceDepth; i++ {
		hopTok, err := d.Expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		hopName, _ := hopTok.Payload.AsString()
		nsPath = append(nsPath, hopName)
		if _, err := d.Expect(token.Arrow); err != nil {
			return nil, err
		}
	}

	if len(v.AccessChain) == 0 {
		return nil, &errs.InternalError{Message: "MExpr: empty access chain (violates spec invariant)"}
	}

	idTok, err := d.Expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	name, _ := idTok.Payload.AsString()
	chain := []AccessType{AccessIdentifier{Sym: symbol.NewUnresolved(name)}}

	for _, ag := range v.AccessChain[1:] {
		switch elt := ag.(type) {
		case gform.AccessFuncCall:
			if _, err := d.Expect(token.ColonColon); err != nil {
				return nil, err
			}
			fnTok, err := d.Expect(token.Identifier)
			if err != nil {
				return nil, err
			}
			fname, _ := fnTok.Payload.AsString()

			if _, err := d.ConsumeLeftBracket(); err != nil {
				return nil, err
			}
			var args []Argument
			for _, ar := range elt.Arguments {
				amods, err := consumeModifiers(d, ar.ModifierCount)
				if err != nil {
					return nil, err
				}
				aexpr, err := buildExpr(d, ar.Expr)
				if err != nil {
					return nil, err
				}
				args = append(args, Argument{Modifiers: amods, Expression: aexpr})
			}
			if _, err := d.ConsumeRightBracket(); err != nil {
				return nil, err
			}
			chain = append(chain, AccessFunctionCall{Sym: symbol.NewUnresolved(fname), Arguments: args})

		case gform.AccessFunctionAccess:
			if _, err := d.Expect(token.ColonColon); err != nil {
				return nil, err
			}
			fnTok, err := d.Expect(token.Identifier)
			if err != nil {
				return nil, err
			}
			fname, _ := fnTok.Payload.AsString()
			chain = append(chain, AccessFunctionAccess{Sym: symbol.NewUnresolved(fname)})

		case gform.AccessIdentifier:
			if _, err := d.Expect(token.ColonDot); err != nil {
				return nil, err
			}
			idTok2, err := d.Expect(token.Identifier)
			if err != nil {
				return nil, err
			}
			iname, _ := idTok2.Payload.AsString()
			chain = append(chain, AccessIdentifier{Sym: symbol.NewUnresolved(iname)})

		case gform.AccessType:
			return nil, &errs.InternalError{Message: "AccessType element produced by grammar matcher unexpectedly"}
		}
	}

	return &MExpr{NamespaceDepth: v.NamespaceDepth, NamespacePath: nsPath, AccessChain: chain, meta: NewMetaData(startPos)}, nil
}

// --- Shared helpers -----------------------------------------------------

func consumeModifiers(d *cursor.Driver, count int) ([]symbol.Modifier, error) {
	var mods []symbol.Modifier
	for i := 0; i < count; i++ {
		tok, err := d.Consume1()
		if err != nil {
			return nil, err
		}
		m, ok := modifierFromToken(tok.Kind)
		if !ok {
			return nil, &errs.InternalError{Message: "expected a modifier token, got " + tok.Kind.String()}
		}
		mods = append(mods, m)
	}
	return mods, nil
}

func modifierFromToken(k token.Kind) (symbol.Modifier, bool) {
	switch k {
	case token.ModMut:
		return symbol.Mutable, true
	case token.ModPub:
		return symbol.Public, true
	case token.ModConst:
		return symbol.Const, true
	case token.ModOpt:
		return symbol.Optional, true
	}
	return 0, false
}

// buildType recognizes `Identifier | 'Fn' '<' { Type } ';' Type '>' |
// 'Array' '<' Type '>'` (spec §4.3/§4.4), consuming real tokens from
// the driver — the GForm tree carries only a has_type boolean, so this
// is a full independent re-parse of the Type grammar.
func buildType(d *cursor.Driver) (langtype.LangType, error) {
	tok := d.Peek()
	switch tok.Kind {
	case token.Identifier:
		if _, err := d.Consume1(); err != nil {
			return langtype.LangType{}, err
		}
		name, _ := tok.Payload.AsString()
		if p, ok := langtype.LookupPrimitive(name); ok {
			return langtype.NewPrimitive(p), nil
		}
		return langtype.NewUserType(name), nil

	case token.Fn:
		if _, err := d.Consume1(); err != nil {
			return langtype.LangType{}, err
		}
		if _, err := d.Expect(token.Less); err != nil {
			return langtype.LangType{}, err
		}
		var params []langtype.LangType
		for d.Peek().Kind != token.Semicolon {
			if d.AtEnd() {
				return langtype.LangType{}, &errs.ParseError{Pos: d.Peek().Pos(), Expected: "';' in Fn type", Found: d.Peek().Kind.String()}
			}
			pt, err := buildType(d)
			if err != nil {
				return langtype.LangType{}, err
			}
			params = append(params, pt)
		}
		if _, err := d.Expect(token.Semicolon); err != nil {
			return langtype.LangType{}, err
		}
		ret, err := buildType(d)
		if err != nil {
			return langtype.LangType{}, err
		}
		if _, err := d.Expect(token.Greater); err != nil {
			return langtype.LangType{}, err
		}
		return langtype.NewFunction(params, ret), nil

	case token.Array:
		if _, err := d.Consume1(); err != nil {
			return langtype.LangType{}, err
		}
		if _, err := d.Expect(token.Less); err != nil {
			return langtype.LangType{}, err
		}
		elem, err := buildType(d)
		if err != nil {
			return langtype.LangType{}, err
		}
		if _, err := d.Expect(token.Greater); err != nil {
			return langtype.LangType{}, err
		}
		return langtype.NewArray(elem), nil

	default:
		return langtype.LangType{}, &errs.ParseError{Pos: tok.Pos(), Expected: "a type", Found: tok.Kind.String()}
	}
}
