package resolver

import (
	"github.com/dhickel/lyra-sub000/ast"
	"github.com/dhickel/lyra-sub000/env"
	"github.com/dhickel/lyra-sub000/errs"
	"github.com/dhickel/lyra-sub000/langtype"
	"github.com/dhickel/lyra-sub000/namespace"
	"github.com/dhickel/lyra-sub000/symbol"
)

// resolveMExpr resolves a member-access expression's namespace prefix (if
// any), its mandatory base identifier, and the rest of its access chain.
//
// There is no notion of a user type's member/method layout here, so
// anything past the base identifier — further field access or a
// function reached through one — is resolved by a pragmatic, name-only
// lookup against the same namespace the base resolved in, rather than
// true structural member resolution. This is intentionally
// best-effort: the language's public surface is namespace members, and
// the chain's later hops almost always land back on one of those.
func (r *Resolver) resolveMExpr(e *ast.MExpr, sub env.SubEnvironment, out *[]error) langtype.LangType {
	targetNS := sub.Namespace()
	crossed := len(e.NamespacePath) > 0
	for _, hop := range e.NamespacePath {
		next, ok := resolveNamespaceHop(targetNS, hop)
		if !ok {
			*out = append(*out, &errs.UndefinedSymbol{
				Name: hop, Pos: e.Meta().Pos(), Suggestions: r.suggestFor(hop, sub),
			})
			e.Meta().SetType(langtype.Undefined())
			return langtype.Undefined()
		}
		targetNS = next
	}

	base := e.AccessChain[0].(ast.AccessIdentifier)
	baseSym, found := r.resolveChainName(base.Sym.Identifier, targetNS, crossed, sub)
	if !found {
		if crossed {
			*out = append(*out, &errs.AccessibilityViolation{
				Symbol: base.Sym.Identifier, Pos: e.Meta().Pos(), Kind: errs.NotPublic,
			})
		} else {
			*out = append(*out, &errs.UndefinedSymbol{
				Name: base.Sym.Identifier, Pos: e.Meta().Pos(), Suggestions: r.suggestFor(base.Sym.Identifier, sub),
			})
		}
		e.Meta().SetType(langtype.Undefined())
		return langtype.Undefined()
	}
	*base.Sym = *baseSym
	curType := baseSym.Type

	for i := 1; i < len(e.AccessChain); i++ {
		switch elt := e.AccessChain[i].(type) {
		case ast.AccessIdentifier:
			// No structural member layout to resolve against; left
			// unresolved, chain type goes unknown.
			curType = langtype.Undefined()

		case ast.AccessFunctionAccess:
			fnSym, ok := r.resolveChainName(elt.Sym.Identifier, targetNS, crossed, sub)
			if !ok {
				*out = append(*out, &errs.UndefinedSymbol{
					Name: elt.Sym.Identifier, Pos: e.Meta().Pos(), Suggestions: r.suggestFor(elt.Sym.Identifier, sub),
				})
				curType = langtype.Undefined()
				break
			}
			*elt.Sym = *fnSym
			curType = fnSym.Type

		case ast.AccessFunctionCall:
			argTypes := make([]langtype.LangType, len(elt.Arguments))
			for j, a := range elt.Arguments {
				argTypes[j] = r.stage2Expr(a.Expression, sub, out)
			}
			fnSym, ok := r.resolveChainName(elt.Sym.Identifier, targetNS, crossed, sub)
			if !ok {
				*out = append(*out, &errs.UndefinedSymbol{
					Name: elt.Sym.Identifier, Pos: e.Meta().Pos(), Suggestions: r.suggestFor(elt.Sym.Identifier, sub),
				})
				curType = langtype.Undefined()
				break
			}
			*elt.Sym = *fnSym
			if fnSym.Type.Kind() == langtype.KindFunction {
				argExprs := make([]ast.Expression, len(elt.Arguments))
				for j, a := range elt.Arguments {
					argExprs[j] = a.Expression
				}
				checkArgs(fnSym.Type.Parameters(), argTypes, argExprs, e.Meta().Pos(), out)
				curType, _ = fnSym.Type.Result()
			} else {
				curType = langtype.Undefined()
			}
		}
	}

	e.Meta().SetType(curType)
	e.Meta().SetResolution(symbol.Resolved)
	return curType
}

// resolveNamespaceHop resolves one namespace-path segment of a
// member-access expression: first against cur's own imports (by alias
// or literal path), falling back to a direct child namespace (spec
// §4.5 namespace resolution, applied to the "ns -> …" chain form).
func resolveNamespaceHop(cur *namespace.Namespace, hop string) (*namespace.Namespace, bool) {
	for _, imp := range cur.Imports {
		if imp.Target == nil {
			continue
		}
		if (imp.HasAlias && imp.Alias == hop) || imp.Path == hop {
			return imp.Target, true
		}
	}
	if child, ok := cur.Children[hop]; ok {
		return child, true
	}
	return nil, false
}

// resolveChainName resolves one access-chain element's identifier: a
// PUBLIC-only lookup against ns's root scope when a namespace boundary
// was crossed, otherwise the ordinary local-then-enclosing-then-imported
// lookup (spec §4.7 Stage 2 Member access expression).
func (r *Resolver) resolveChainName(name string, ns *namespace.Namespace, crossed bool, sub env.SubEnvironment) (*symbol.Symbol, bool) {
	if crossed {
		return ns.Symbols.LookupPublic(name)
	}
	return sub.Lookup(name)
}
