package resolver

import (
	"fmt"

	"github.com/dhickel/lyra-sub000/ast"
	"github.com/dhickel/lyra-sub000/env"
	"github.com/dhickel/lyra-sub000/errs"
	"github.com/dhickel/lyra-sub000/langtype"
	"github.com/dhickel/lyra-sub000/namespace"
	"github.com/dhickel/lyra-sub000/symbol"
	"github.com/dhickel/lyra-sub000/token"
)

// Stage2 walks every unit in ns a second time, now resolving every use
// site Stage 1 deferred: identifier references, member-access chains,
// function calls, reassignment targets, and operator result types
// (spec §4.7 Stage 2). The caller is responsible for calling this in
// dependency order (spec §4.7/§5: "in dependency order... cycle nodes
// in any fixed deterministic order").
func (r *Resolver) Stage2(ns *namespace.Namespace) []error {
	var out []error
	for _, unit := range ns.CM.Units {
		if unit.AST == nil {
			continue
		}
		sub := env.NewSubEnvironment(r.env, ns)
		for _, node := range unit.AST.Nodes {
			r.stage2TopLevel(node, sub, &out)
		}
		if err := unit.MarkFullyResolved(); err != nil {
			out = append(out, err)
		}
	}
	tracer().Infof("stage 2 on %s: %d unit(s), %d error(s)", ns.Path(), len(ns.CM.Units), len(out))
	return out
}

func (r *Resolver) stage2TopLevel(node ast.Node, sub env.SubEnvironment, out *[]error) {
	if stmt, ok := node.(ast.Statement); ok {
		r.stage2Stmt(stmt, sub, out)
		return
	}
	if expr, ok := node.(ast.Expression); ok {
		r.stage2Expr(expr, sub, out)
	}
}

func (r *Resolver) stage2Stmt(stmt ast.Statement, sub env.SubEnvironment, out *[]error) {
	switch n := stmt.(type) {
	case *ast.Let:
		valType := r.stage2Expr(n.Value, sub, out)
		declared := n.Meta().Type()
		switch {
		case declared.IsUndefined():
			n.Meta().SetType(valType)
			n.Sym.Type = valType
		case compatible(declared, valType):
			// equal, or an allowed widening — nothing further to do
		case isLiteralNarrowing(n.Value, declared, valType):
			// a numeric literal narrowed to a smaller declared type at
			// its own declaration site is allowed: the literal's value
			// is known at compile time.
		default:
			*out = append(*out, &errs.TypeMismatch{
				Expected: declared.String(), Actual: valType.String(), Pos: n.Value.Meta().Pos(),
			})
		}
		n.Meta().SetResolution(symbol.Resolved)
		if !n.Sym.IsResolved() {
			// Reset by ForwardDeclare to break a dependency cycle:
			// promote it again now that its declaration is visited.
			n.Sym.Resolve(n.Sym.DeclPos, n.Meta().Type(), n.Modifiers, n.Sym.IsFunction)
		}

	case *ast.Assign:
		target, found := sub.Lookup(n.Sym.Identifier)
		if !found {
			*out = append(*out, &errs.UndefinedSymbol{
				Name: n.Sym.Identifier, Pos: n.Meta().Pos(), Suggestions: r.suggestFor(n.Sym.Identifier, sub),
			})
		} else {
			switch {
			case r.IsParameter(target):
				*out = append(*out, &errs.AccessibilityViolation{
					Symbol: target.Identifier, Pos: n.Meta().Pos(), Kind: errs.ReassignParameter,
				})
			case !target.HasModifier(symbol.Mutable):
				*out = append(*out, &errs.AccessibilityViolation{
					Symbol: target.Identifier, Pos: n.Meta().Pos(), Kind: errs.NotMutable,
				})
			}
			n.Sym = target
			n.Meta().SetResolution(symbol.Resolved)
		}
		valType := r.stage2Expr(n.Value, sub, out)
		if found && !compatible(target.Type, valType) {
			*out = append(*out, &errs.TypeMismatch{
				Expected: target.Type.String(), Actual: valType.String(), Pos: n.Value.Meta().Pos(),
			})
		}

	case *ast.Import:
		// Fully handled in Stage 1; nothing left to resolve.
	}
}

func (r *Resolver) stage2Expr(expr ast.Expression, sub env.SubEnvironment, out *[]error) langtype.LangType {
	switch e := expr.(type) {
	case *ast.VExpr:
		return r.stage2Value(e, sub, out)

	case *ast.BExpr:
		inner := sub.PushExistingScope(e.ScopeID)
		result := langtype.Undefined()
		for _, m := range e.Members {
			if stmt, ok := m.(ast.Statement); ok {
				r.stage2Stmt(stmt, inner, out)
				result = langtype.Undefined()
				continue
			}
			if mexpr, ok := m.(ast.Expression); ok {
				result = r.stage2Expr(mexpr, inner, out)
			}
		}
		e.Meta().SetType(result)
		return result

	case *ast.LExpr:
		inner := sub.PushExistingScope(e.ScopeID)
		paramTypes := make([]langtype.LangType, len(e.Parameters))
		for i, p := range e.Parameters {
			paramTypes[i] = p.Type
		}
		bodyType := r.stage2Expr(e.Body, inner, out)

		returnType := bodyType
		if declared := e.Meta().Type(); !declared.IsUndefined() {
			if !compatible(declared, bodyType) && !isLiteralNarrowing(e.Body, declared, bodyType) {
				*out = append(*out, &errs.TypeMismatch{
					Expected: declared.String(), Actual: bodyType.String(), Pos: e.Body.Meta().Pos(),
				})
			}
			returnType = declared
		}
		fnType := langtype.NewFunction(paramTypes, returnType)
		e.Meta().SetType(fnType)
		e.Meta().SetResolution(symbol.Resolved)
		return fnType

	case *ast.SExpr:
		return r.stage2SExpr(e, sub, out)

	case *ast.OExpr:
		operandTypes := make([]langtype.LangType, len(e.Operands))
		for i, op := range e.Operands {
			operandTypes[i] = r.stage2Expr(op, sub, out)
		}
		result := r.operatorResultType(e.Op, operandTypes, e.Meta().Pos(), out)
		e.Meta().SetType(result)
		e.Meta().SetResolution(symbol.Resolved)
		return result

	case *ast.MExpr:
		return r.resolveMExpr(e, sub, out)

	case *ast.PExpr:
		predType := r.stage2Expr(e.Predicate, sub, out)
		boolType := langtype.NewPrimitive(langtype.Bool)
		if !predType.IsUndefined() && !predType.Equal(boolType) {
			*out = append(*out, &errs.TypeMismatch{Expected: "Bool", Actual: predType.String(), Pos: e.Predicate.Meta().Pos()})
		}
		thenType, elseType := langtype.Undefined(), langtype.Undefined()
		if e.Form.HasThen() {
			thenType = r.stage2Expr(e.Form.Then, sub, out)
		}
		if e.Form.HasElse() {
			elseType = r.stage2Expr(e.Form.Else, sub, out)
		}
		result := thenType
		if result.IsUndefined() {
			result = elseType
		}
		e.Meta().SetType(result)
		e.Meta().SetResolution(symbol.Resolved)
		return result

	case *ast.MatchExpr, *ast.IterExpr:
		return langtype.Undefined()
	}
	return langtype.Undefined()
}

func (r *Resolver) stage2Value(e *ast.VExpr, sub env.SubEnvironment, out *[]error) langtype.LangType {
	var t langtype.LangType
	switch v := e.Val.(type) {
	case ast.BoolValue:
		t = langtype.NewPrimitive(langtype.Bool)
	case ast.I64Value:
		t = langtype.NewPrimitive(langtype.I64)
	case ast.F64Value:
		t = langtype.NewPrimitive(langtype.F64)
	case ast.NilValue:
		t = langtype.NewPrimitive(langtype.NilType)
	case ast.IdentifierValue:
		sym, found := sub.Lookup(v.Sym.Identifier)
		if !found {
			*out = append(*out, &errs.UndefinedSymbol{
				Name: v.Sym.Identifier, Pos: e.Meta().Pos(), Suggestions: r.suggestFor(v.Sym.Identifier, sub),
			})
			t = langtype.Undefined()
			break
		}
		e.Val = ast.IdentifierValue{Sym: sym}
		t = sym.Type
	}
	e.Meta().SetType(t)
	e.Meta().SetResolution(symbol.Resolved)
	return t
}

func (r *Resolver) stage2SExpr(e *ast.SExpr, sub env.SubEnvironment, out *[]error) langtype.LangType {
	calleeType := r.stage2Expr(e.Callee, sub, out)
	argTypes := make([]langtype.LangType, len(e.Operands))
	for i, op := range e.Operands {
		argTypes[i] = r.stage2Expr(op, sub, out)
	}
	if calleeType.Kind() != langtype.KindFunction {
		if !calleeType.IsUndefined() {
			*out = append(*out, &errs.TypeMismatch{Expected: "a callable function", Actual: calleeType.String(), Pos: e.Meta().Pos()})
		}
		e.Meta().SetType(langtype.Undefined())
		return langtype.Undefined()
	}
	checkArgs(calleeType.Parameters(), argTypes, e.Operands, e.Meta().Pos(), out)
	result, _ := calleeType.Result()
	e.Meta().SetType(result)
	e.Meta().SetResolution(symbol.Resolved)
	return result
}

func checkArgs(params, args []langtype.LangType, argExprs []ast.Expression, pos token.Position, out *[]error) {
	if len(params) != len(args) {
		*out = append(*out, &errs.TypeMismatch{
			Expected: fmt.Sprintf("%d argument(s)", len(params)),
			Actual:   fmt.Sprintf("%d argument(s)", len(args)),
			Pos:      pos,
		})
		return
	}
	for i := range params {
		if !compatible(params[i], args[i]) {
			argPos := pos
			if i < len(argExprs) {
				argPos = argExprs[i].Meta().Pos()
			}
			*out = append(*out, &errs.TypeMismatch{Expected: params[i].String(), Actual: args[i].String(), Pos: argPos})
		}
	}
}

func (r *Resolver) operatorResultType(op ast.Operation, operandTypes []langtype.LangType, pos token.Position, out *[]error) langtype.LangType {
	switch op {
	case ast.OpAnd, ast.OpOr, ast.OpNor, ast.OpXor, ast.OpXnor, ast.OpNand, ast.OpNot,
		ast.OpGreater, ast.OpLess, ast.OpGreaterEq, ast.OpLessEq, ast.OpNotEq, ast.OpEq:
		return langtype.NewPrimitive(langtype.Bool)

	case ast.OpNegate, ast.OpIncr, ast.OpDecr:
		if len(operandTypes) != 1 {
			*out = append(*out, &errs.TypeMismatch{Expected: "1 operand", Actual: fmt.Sprintf("%d operand(s)", len(operandTypes)), Pos: pos})
			return langtype.Undefined()
		}
		if !operandTypes[0].IsNumeric() {
			*out = append(*out, &errs.TypeMismatch{Expected: "a numeric operand", Actual: operandTypes[0].String(), Pos: pos})
			return langtype.Undefined()
		}
		return operandTypes[0]

	default: // OpAdd, OpSub, OpMul, OpDiv, OpPow, OpMod
		if len(operandTypes) == 0 {
			return langtype.Undefined()
		}
		result := operandTypes[0]
		if !result.IsNumeric() {
			*out = append(*out, &errs.TypeMismatch{Expected: "a numeric operand", Actual: result.String(), Pos: pos})
			return langtype.Undefined()
		}
		for _, t := range operandTypes[1:] {
			if !t.IsNumeric() {
				*out = append(*out, &errs.TypeMismatch{Expected: "a numeric operand", Actual: t.String(), Pos: pos})
				continue
			}
			if result.Equal(t) {
				continue
			}
			wider, ok := langtype.Wider(result, t)
			if !ok {
				*out = append(*out, &errs.TypeMismatch{Expected: result.String(), Actual: t.String(), Pos: pos})
				continue
			}
			result = wider
		}
		return result
	}
}

// isLiteralNarrowing reports whether value is an immediate numeric
// literal being narrowed to a smaller declared numeric type at its own
// declaration/return site — allowed because the literal's value is
// known at compile time, unlike narrowing a
// general runtime value, which spec §4.7 requires an explicit
// conversion site for.
func isLiteralNarrowing(value ast.Expression, declared, actual langtype.LangType) bool {
	if !declared.IsNumeric() || !actual.IsNumeric() {
		return false
	}
	v, ok := value.(*ast.VExpr)
	if !ok {
		return false
	}
	switch v.Val.(type) {
	case ast.I64Value, ast.F64Value:
		return true
	}
	return false
}

func (r *Resolver) suggestFor(name string, sub env.SubEnvironment) []string {
	return suggest(name, sub.VisibleNames())
}
